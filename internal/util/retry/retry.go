// Package retry provides bounded retry with exponential backoff for
// provider API calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry behaviour.
type Config struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Option adjusts the retry Config.
type Option func(*Config)

// Do runs op until it succeeds, the attempt budget is exhausted, or the
// context is done. Delays between attempts grow by Multiplier up to Max.
//
// Errors wrapped with Permanent are returned immediately without further
// attempts; a blind retry of a non-idempotent provider call can leak
// resources.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	cfg := &Config{
		Attempts:   5,
		Initial:    time.Second,
		Max:        30 * time.Second,
		Multiplier: 2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.Initial
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			return err
		}
		if attempt == cfg.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("giving up after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.Max {
				delay = cfg.Max
			}
		}
	}

	return fmt.Errorf("after %d attempts: %w", cfg.Attempts, lastErr)
}

// WithAttempts sets the total attempt budget (including the first call).
func WithAttempts(n int) Option {
	return func(c *Config) { c.Attempts = n }
}

// WithInitialDelay sets the delay before the second attempt.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) { c.Initial = d }
}

// WithMaxDelay caps the backoff delay.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) { c.Max = d }
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(m float64) Option {
	return func(c *Config) { c.Multiplier = m }
}

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Do returns it without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err is marked non-retryable.
func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}
