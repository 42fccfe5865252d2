package scanner

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a run that never started: the executable is
// missing or the daemon is unreachable. Callers surface this
// distinctly from scan failures, since the fix is the tool path or
// URL rather than the target.
var ErrNotFound = errors.New("scanner: not found")

// ExitError reports that the scanner ran and failed. Output holds
// whatever the scanner produced anyway; a failed run frequently still
// emits a report document carrying its own error field, which callers
// apply as a degraded report rather than discarding.
type ExitError struct {
	// Code is the process exit code, or the HTTP status for daemon runs.
	Code int

	// Output is the report text or error body, possibly empty.
	Output []byte

	// Detail is captured stderr or a transport message for display.
	Detail string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("scanner: exit %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("scanner: exit %d", e.Code)
}
