package httpclient

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// SendRaw sends raw HTTP request text to the host named by originURL
// and returns the raw response text. The request text is parsed as a
// wire-format request; its target host and scheme come from
// originURL, so an edited request line cannot silently redirect the
// probe at a different server than the slot it belongs to.
func SendRaw(ctx context.Context, client *http.Client, requestText, originURL string) (string, error) {
	origin, err := url.Parse(originURL)
	if err != nil || origin.Host == "" {
		return "", fmt.Errorf("httpclient: origin %q: not an absolute URL", originURL)
	}

	req, err := http.ReadRequest(bufio.NewReader(strings.NewReader(requestText)))
	if err != nil {
		return "", fmt.Errorf("httpclient: parse request: %w", err)
	}
	req = req.WithContext(ctx)

	// ReadRequest yields a server-side request; rebuild it for client use.
	req.RequestURI = ""
	req.URL.Scheme = origin.Scheme
	req.URL.Host = origin.Host
	if req.Host == "" {
		req.Host = origin.Host
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("httpclient: send: %w", err)
	}
	defer resp.Body.Close()

	dump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return "", fmt.Errorf("httpclient: dump response: %w", err)
	}
	return string(dump), nil
}
