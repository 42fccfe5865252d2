// Package scanner invokes the external static-analysis scanner and
// returns its raw report text. Two transports implement the same
// contract: Local runs the CLI as a subprocess, Daemon calls the
// local-only HTTP API. Neither parses the report; that is the report
// package's job, so a failed run can still hand back partial output.
package scanner

import "context"

// Transport runs one scan and returns the raw report text.
//
// Error contract, mirrored by both transports:
//   - nil error: the scan completed; output is the report text (it may
//     still be empty if the scanner produced no file).
//   - *ExitError: the scanner ran and failed; ExitError.Output carries
//     any document it produced anyway.
//   - ErrNotFound (wrapped): the scanner never ran, either a missing
//     executable or an unreachable daemon.
type Transport interface {
	Run(ctx context.Context, opts Options) ([]byte, error)
}
