// Package retry provides a small context-aware retry loop with
// exponential backoff, used by the daemon transport to ride out the
// scan daemon's startup window.
package retry

import (
	"context"
	"errors"
	"time"
)

// Config controls retry behaviour.
type Config struct {
	MaxAttempts int           // Total attempts including the first. 0 means one attempt.
	InitDelay   time.Duration // Delay before the first retry; doubles each attempt.
	MaxDelay    time.Duration // Upper bound on any single delay.
}

// DefaultConfig retries twice more after the initial attempt, backing
// off from 200ms. Tight enough that an unreachable daemon still fails
// in under a second.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		InitDelay:   200 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// StopError wraps an error that retrying cannot fix (the request was
// delivered and rejected). Do returns the wrapped error immediately.
type StopError struct {
	Err error
}

func (e *StopError) Error() string { return e.Err.Error() }
func (e *StopError) Unwrap() error { return e.Err }

// Stop wraps err so that Do returns it without further attempts.
func Stop(err error) error {
	return &StopError{Err: err}
}

// Do runs fn up to cfg.MaxAttempts times, sleeping between attempts,
// until fn returns nil, a StopError, or the context ends. The last
// error is returned unwrapped from its StopError shell.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := cfg.InitDelay
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if delay > cfg.MaxDelay && cfg.MaxDelay > 0 {
				delay = cfg.MaxDelay
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}

		err = fn()
		if err == nil {
			return nil
		}
		var stop *StopError
		if errors.As(err, &stop) {
			return stop.Err
		}
	}
	return err
}
