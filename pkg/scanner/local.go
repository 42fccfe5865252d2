package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Local runs the scanner CLI as a subprocess. The report is exchanged
// through a temp file (-xj) rather than stdout, matching the
// scanner's quiet-mode contract.
type Local struct {
	// Executable overrides scanner discovery. Empty means auto-detect:
	// ~/.local/bin/unveil when executable, else "unveil" from PATH.
	Executable string

	// Logger receives debug lines for each invocation; nil disables.
	Logger *slog.Logger
}

// resolve returns the executable to invoke.
func (l *Local) resolve() string {
	if l.Executable != "" {
		return l.Executable
	}
	if home, err := os.UserHomeDir(); err == nil {
		pipx := filepath.Join(home, ".local", "bin", "unveil")
		if info, err := os.Stat(pipx); err == nil && info.Mode()&0o111 != 0 {
			return pipx
		}
	}
	return "unveil"
}

// Run implements Transport. Stdout and stderr are captured only for
// diagnostics; the report itself is read from the temp file, which a
// non-zero exit may still have populated with a structured error
// document.
func (l *Local) Run(ctx context.Context, opts Options) ([]byte, error) {
	tmp, err := os.CreateTemp("", "unveil-report-*.json")
	if err != nil {
		return nil, fmt.Errorf("scanner: temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	exe := l.resolve()
	args := opts.Args(tmpPath)
	l.log("running scanner", "exe", exe, "target", opts.Target)

	cmd := exec.CommandContext(ctx, exe, args...)
	combined, runErr := cmd.CombinedOutput()

	output, readErr := os.ReadFile(tmpPath)

	if runErr == nil {
		if readErr != nil {
			// A clean exit with an unreadable report is an environment
			// problem, not a bad scan; say so instead of surfacing an
			// empty-document parse failure.
			return nil, fmt.Errorf("scanner: read report %s: %w", tmpPath, readErr)
		}
		return output, nil
	}
	if readErr != nil {
		l.log("report file unreadable after failed run", "err", readErr)
	}

	if notFound(runErr) {
		return nil, fmt.Errorf("%w: %q (set the executable path or install the scanner)", ErrNotFound, exe)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		detail := strings.TrimSpace(string(combined))
		l.log("scanner exited non-zero", "code", exitErr.ExitCode(), "detail", detail)
		return nil, &ExitError{Code: exitErr.ExitCode(), Output: output, Detail: detail}
	}

	// Launch failed after resolution (permissions, context timeout).
	return nil, fmt.Errorf("scanner: run %q: %w", exe, runErr)
}

// notFound recognizes the "command not found" failure signature so the
// caller can say "fix the tool path" instead of "the scan failed".
func notFound(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.Is(execErr.Err, exec.ErrNotFound) || errors.Is(execErr.Err, fs.ErrNotExist)
	}
	return errors.Is(err, fs.ErrNotExist)
}

func (l *Local) log(msg string, args ...any) {
	if l.Logger != nil {
		l.Logger.Debug(msg, args...)
	}
}
