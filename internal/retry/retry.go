// Package retry provides bounded retry with exponential backoff for
// transient collaborator failures (a busy store, a flaky volume during
// hash computation). Callers classify which errors are worth retrying;
// everything else fails immediately.
package retry

import (
	"context"
	"time"

	"media-catalog/internal/logging"
)

// Observer records retry outcomes. The implementation is provided by
// the metrics package to break the import cycle between retry and
// metrics.
type Observer interface {
	ObserveAttempt(operation string)
	ObserveSuccess(operation string)
	ObserveFailure(operation string)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

// Config configures retry behavior.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Retryable classifies errors worth retrying. A nil Retryable
	// retries every error.
	Retryable func(error) bool
}

// DefaultConfig returns sensible defaults for transient failures.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

func (c Config) retryable(err error) bool {
	if c.Retryable == nil {
		return true
	}
	return c.Retryable(err)
}

// Do runs fn, retrying transient failures with exponential backoff
// until it succeeds, the retry budget runs out, or the context is
// cancelled. The operation label is used for logging and metrics.
func Do(ctx context.Context, operation string, config Config, fn func() error) error {
	backoff := config.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				logging.Info("%s succeeded on retry %d", operation, attempt)
				if defaultObserver != nil {
					defaultObserver.ObserveSuccess(operation)
				}
			}
			return nil
		}

		lastErr = err
		if !config.retryable(err) {
			return err
		}

		if attempt < config.MaxRetries {
			if defaultObserver != nil {
				defaultObserver.ObserveAttempt(operation)
			}
			logging.Debug("%s failed (%v), retrying in %v (attempt %d/%d)",
				operation, err, backoff, attempt+1, config.MaxRetries)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("%s failed after %d retries: %v", operation, config.MaxRetries, lastErr)
	if defaultObserver != nil {
		defaultObserver.ObserveFailure(operation)
	}
	return lastErr
}
