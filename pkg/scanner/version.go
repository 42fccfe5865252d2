package scanner

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// UnknownVersion is the display string when the probe fails.
const UnknownVersion = "unknown"

// Version probes the scanner CLI with --version and returns the first
// output line. The probe is best-effort: any failure degrades to
// UnknownVersion and never blocks scanning.
func (l *Local) Version(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, l.resolve(), "--version").CombinedOutput()
	if err != nil {
		return UnknownVersion
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return UnknownVersion
	}
	return line
}
