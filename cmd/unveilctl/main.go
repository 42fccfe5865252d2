// Command unveilctl drives the unveil scanner from the terminal:
// it runs a scan, applies the report, and renders or exports the
// derived views.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pa7ch3s/unveilctl/pkg/config"
	"github.com/pa7ch3s/unveilctl/pkg/engine"
	"github.com/pa7ch3s/unveilctl/pkg/export"
	"github.com/pa7ch3s/unveilctl/pkg/history"
	"github.com/pa7ch3s/unveilctl/pkg/httpclient"
	"github.com/pa7ch3s/unveilctl/pkg/metrics"
	"github.com/pa7ch3s/unveilctl/pkg/report"
	"github.com/pa7ch3s/unveilctl/pkg/scanner"
	"github.com/pa7ch3s/unveilctl/pkg/slots"
	"github.com/pa7ch3s/unveilctl/pkg/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "unveilctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseFlags()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		ui.DisableColor()
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport, version := buildTransport(ctx, cfg, logger)

	sendClient := httpclient.New(httpclient.ProbeConfig(cfg.Proxy))
	sender := slots.SenderFunc(func(ctx context.Context, requestText, originURL string) (string, error) {
		return httpclient.SendRaw(ctx, sendClient, requestText, originURL)
	})

	var store *history.Store
	if home, err := os.UserHomeDir(); err == nil {
		if s, err := history.NewStore(home + "/.local/share/unveilctl"); err == nil {
			store = s
		} else {
			logger.Warn("history store unavailable", "error", err)
		}
	}

	eng := engine.New(engine.Config{
		Transport:   transport,
		Sender:      sender,
		Store:       store,
		Metrics:     metrics.New(),
		Logger:      logger,
		ScanTimeout: cfg.ScanTimeout,
	})
	defer eng.Close()

	opts := scanner.Options{
		Target:     cfg.Target,
		Extended:   cfg.Extended,
		Offensive:  cfg.Offensive,
		Force:      cfg.Force,
		CVEQueries: cfg.CVEQueries,
		CVELookup:  cfg.CVELookup,
		Baseline:   cfg.Baseline,
		MaxFiles:   cfg.MaxFiles,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxPerType: cfg.MaxPerType,
	}

	done, err := eng.Submit(cfg.Target, opts)
	if err != nil {
		return err
	}

	var res engine.Result
	select {
	case res = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if res.Outcome == engine.Failed {
		if res.NotFound {
			return fmt.Errorf("scanner not available: %w", res.Err)
		}
		return fmt.Errorf("scan failed: %w", res.Err)
	}

	return writeOutput(cfg, eng, version)
}

// buildTransport picks daemon or local execution and probes the
// scanner version. Version probing never blocks a scan.
func buildTransport(ctx context.Context, cfg *config.Config, logger *slog.Logger) (scanner.Transport, string) {
	if cfg.DaemonURL != "" {
		d := &scanner.Daemon{
			BaseURL: cfg.DaemonURL,
			Client:  httpclient.New(httpclient.ScanConfig()),
			Logger:  logger,
		}
		return d, scanner.UnknownVersion
	}
	l := &scanner.Local{Executable: cfg.ScannerPath, Logger: logger}
	return l, l.Version(ctx)
}

// writeOutput renders the applied report in the requested format, to
// stdout or the -o file.
func writeOutput(cfg *config.Config, eng *engine.Engine, version string) error {
	r, _ := eng.Snapshot()

	render := func(w io.Writer) error {
		switch cfg.OutputFormat {
		case "json":
			return export.WriteRawJSON(w, r)
		case "compact":
			return export.WriteCompactJSON(w, r)
		case "csv":
			return export.WriteCSV(w, export.BuildFindings(r, 0), export.CSVOptions{
				ExcelCompatible:  true,
				SanitizeFormulas: true,
			})
		case "md":
			return export.WriteMarkdown(w, r, export.BuildFindings(r, 0), export.MarkdownConfig{})
		case "paths":
			return export.WritePathList(w, sendablePaths(r))
		default:
			if _, err := io.WriteString(w, ui.Summary(r, version)); err != nil {
				return err
			}
			_, err := io.WriteString(w, ui.RecentTargets(eng.RecentTargets()))
			return err
		}
	}

	if cfg.OutputFile != "" {
		return export.ToFile(cfg.OutputFile, render)
	}
	return render(os.Stdout)
}

// sendablePaths lists sendable URLs, duplicates included, one line
// per backing slot.
func sendablePaths(r *report.Report) []string {
	urls := r.SendableURLs()
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = u.URL
	}
	return out
}
