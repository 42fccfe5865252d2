package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pa7ch3s/unveilctl/pkg/jsonutil"
	"github.com/pa7ch3s/unveilctl/pkg/retry"
)

// Daemon calls the scanner's local HTTP API instead of spawning a
// process. The outcome contract matches Local: 2xx with a body is a
// completed scan, non-2xx with a body is an ExitError whose Output
// may still parse as a degraded report, and a connection failure is
// ErrNotFound.
type Daemon struct {
	// BaseURL is the daemon root, e.g. "http://127.0.0.1:8000".
	BaseURL string

	// Client is the HTTP client to use; nil falls back to
	// http.DefaultClient. Scans of large binaries are slow, so the
	// client's timeout should be minutes, not seconds.
	Client *http.Client

	// Logger receives debug lines for each call; nil disables.
	Logger *slog.Logger

	// Retry overrides the connection retry policy. The zero value
	// means retry.DefaultConfig(), which rides out the daemon's
	// startup window without masking a daemon that is simply gone.
	Retry retry.Config
}

// scanRequest is the daemon's POST /scan body.
type scanRequest struct {
	Target     string `json:"target"`
	Extended   bool   `json:"extended"`
	Offensive  bool   `json:"offensive"`
	MaxFiles   int    `json:"max_files,omitzero"`
	MaxSizeMB  int    `json:"max_size_mb,omitzero"`
	MaxPerType int    `json:"max_per_type,omitzero"`
	CVELookup  bool   `json:"cve_lookup,omitzero"`
}

// Run implements Transport.
func (d *Daemon) Run(ctx context.Context, opts Options) ([]byte, error) {
	body, err := jsonutil.Marshal(scanRequest{
		Target:     opts.Target,
		Extended:   opts.Extended,
		Offensive:  opts.Offensive,
		MaxFiles:   opts.MaxFiles,
		MaxSizeMB:  opts.MaxSizeMB,
		MaxPerType: opts.MaxPerType,
		CVELookup:  opts.CVELookup,
	})
	if err != nil {
		return nil, fmt.Errorf("scanner: encode request: %w", err)
	}

	url := strings.TrimSuffix(d.BaseURL, "/") + "/scan"
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	if d.Logger != nil {
		d.Logger.Debug("calling scan daemon", "url", url, "target", opts.Target)
	}

	policy := d.Retry
	if policy == (retry.Config{}) {
		policy = retry.DefaultConfig()
	}

	// Connection failures are retried; a response of any status means
	// the daemon is alive and the answer is final.
	var output []byte
	err = retry.Do(ctx, policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return retry.Stop(fmt.Errorf("scanner: build request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: daemon at %s: %v", ErrNotFound, d.BaseURL, err)
		}
		defer resp.Body.Close()

		output, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.Stop(fmt.Errorf("scanner: read daemon response: %w", err))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return retry.Stop(&ExitError{
				Code:   resp.StatusCode,
				Output: output,
				Detail: strings.TrimSpace(string(output)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}
