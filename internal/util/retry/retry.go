package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned by Poll when the condition was never met.
var ErrExhausted = errors.New("condition not met")

// Config holds polling configuration.
type Config struct {
	MaxAttempts int
	Interval    time.Duration
	Notify      func(attempt int, err error)
}

// Option is a functional option for polling configuration.
type Option func(*Config)

// Condition reports whether the awaited state has been reached.
// attempt starts at 1.
type Condition func(ctx context.Context, attempt int) (bool, error)

// Poll evaluates cond up to MaxAttempts times, waiting Interval between
// attempts. It returns nil as soon as cond reports true.
//
// A non-fatal error from cond is passed to the Notify hook and counts as an
// attempt. Errors wrapped with Fatal() stop polling immediately. When all
// attempts are used up, the returned error wraps ErrExhausted and, if any,
// the last error seen.
func Poll(ctx context.Context, cond Condition, opts ...Option) error {
	cfg := &Config{
		MaxAttempts: 10,
		Interval:    3 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		done, err := cond(ctx, attempt)
		if err != nil {
			if IsFatal(err) {
				return fmt.Errorf("fatal error (not retrying): %w", err)
			}
			lastErr = err
			if cfg.Notify != nil {
				cfg.Notify(attempt, err)
			}
		} else if done {
			return nil
		}

		if attempt < cfg.MaxAttempts {
			timer := time.NewTimer(cfg.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-timer.C:
			}
		}
	}

	if lastErr != nil {
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, cfg.MaxAttempts, lastErr)
	}
	return fmt.Errorf("%w after %d attempts", ErrExhausted, cfg.MaxAttempts)
}

// WithMaxAttempts sets the maximum number of condition evaluations.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithInterval sets the delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithNotify registers a hook called with every non-fatal condition error.
func WithNotify(fn func(attempt int, err error)) Option {
	return func(c *Config) {
		c.Notify = fn
	}
}

// IsExhausted checks if an error reports an unmet condition.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrExhausted)
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Polling stops on the first fatal error.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
