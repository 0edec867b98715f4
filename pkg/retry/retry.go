// Package retry runs storage operations again with exponential backoff and
// jitter. Backends use it to survive a database or cache that is still
// starting up or briefly unreachable.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// retryableError marks an error worth another attempt.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// permanentError marks an error that must stop the loop at once.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as final even under a policy that retries everything.
// Nil stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ══════════════════════════════════════════════════════════════════════════════
// POLICY
// ══════════════════════════════════════════════════════════════════════════════

// Policy describes how often and how patiently an operation is retried.
type Policy struct {
	// MaxAttempts counts the first attempt too.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64

	// RetryAll retries every error not marked Permanent. Otherwise only
	// errors marked Retryable are retried.
	RetryAll bool

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// ConnectPolicy is used while opening a backend at startup. A refused
// connection is the expected failure while a container is starting, so every
// error is retried.
func ConnectPolicy(onRetry func(attempt int, err error, delay time.Duration)) Policy {
	return Policy{
		MaxAttempts:  5,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
		Jitter:       0.2,
		RetryAll:     true,
		OnRetry:      onRetry,
	}
}

// SavePolicy is used around a single roster save. Only errors the backend
// marks Retryable are tried again.
func SavePolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2,
		Jitter:       0.05,
	}
}

// Do runs op until it succeeds, fails for good, runs out of attempts or ctx
// ends. The returned error never carries the Retryable or Permanent marker.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := max(p.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = unmark(err)

		if !p.shouldRetry(err) || attempt >= attempts {
			return lastErr
		}

		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
}

// DoWithData is Do for operations that produce a value, such as opening a
// connection.
func DoWithData[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// Delay returns the wait after the given failed attempt, capped at MaxDelay
// before jitter is applied.
func (p Policy) Delay(attempt int) time.Duration {
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	base := float64(p.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && base > float64(p.MaxDelay) {
		base = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		base += base * p.Jitter * (rand.Float64()*2 - 1)
	}
	if base < 0 {
		base = 0
	}
	return time.Duration(base)
}

func (p Policy) shouldRetry(err error) bool {
	var permanent *permanentError
	if errors.As(err, &permanent) {
		return false
	}
	if p.RetryAll {
		return true
	}
	var retryable *retryableError
	return errors.As(err, &retryable)
}

// unmark strips an outermost marker so callers see the original error.
func unmark(err error) error {
	switch e := err.(type) {
	case *retryableError:
		return e.err
	case *permanentError:
		return e.err
	}
	return err
}
