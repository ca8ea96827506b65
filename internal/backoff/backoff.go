// Package backoff provides bounded exponential retry for calls that
// cross a service boundary. Retry policy lives here, next to the
// adapters, so the core services never see transient failures: a call
// either succeeds or comes back as a final error.
package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// Policy configures bounded exponential retry.
type Policy struct {
	// MaxAttempts is the total number of attempts, the first call
	// included. Zero or negative selects the default.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt. Each further
	// attempt doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the per-attempt wait.
	MaxDelay time.Duration
}

// DefaultPolicy returns the policy used by the AI and index adapters:
// four attempts, 200ms base delay, capped at 5s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

func (p Policy) normalised() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = d.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = d.MaxDelay
	}
	return p
}

// delay returns the wait before attempt n+1 (n counts from zero),
// exponential and capped.
func (p Policy) delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return p.MaxDelay
	}
	d := p.BaseDelay << attempt
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	return d
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not retryable. Retry returns the wrapped
// error immediately. Use it for client errors: bad request, bad
// credentials, not found.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type retryAfterError struct {
	err   error
	after time.Duration
}

func (e *retryAfterError) Error() string { return e.err.Error() }
func (e *retryAfterError) Unwrap() error { return e.err }

// After attaches a server-mandated wait to err. Retry honours it in
// place of the computed exponential delay. Use it when a response
// carries a Retry-After header.
func After(err error, wait time.Duration) error {
	if err == nil {
		return nil
	}
	return &retryAfterError{err: err, after: wait}
}

// Retry runs fn up to p.MaxAttempts times, sleeping between attempts.
// It stops early on success, on a Permanent error, or when ctx ends.
// The returned error is fn's last error with any retry marking
// stripped; op names the call in verbose logs.
func Retry(ctx context.Context, p Policy, op string, fn func() error) error {
	p = p.normalised()

	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if attempt == p.MaxAttempts-1 {
			break
		}

		wait := p.delay(attempt)
		var ra *retryAfterError
		if errors.As(err, &ra) && ra.after > 0 {
			wait = ra.after
		}

		logger.Warn("%s failed (attempt %d/%d): %v; retrying in %s",
			op, attempt+1, p.MaxAttempts, err, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	var ra *retryAfterError
	if errors.As(err, &ra) {
		return ra.err
	}
	return err
}
