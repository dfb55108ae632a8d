// Package resilience guards calls to unreliable collaborators such as the
// style analysis model.
package resilience

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Retry calls fn up to attempts times, sleeping delay between tries. It stops
// early when ctx is done or fn returns an error marked Permanent.
func Retry(ctx context.Context, logger *zap.Logger, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			logger.Info("Retrying call", zap.Int("attempt", i+1), zap.Error(err))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled after %d attempts: %w", i, ctx.Err())
			case <-timer.C:
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}
	}
	return fmt.Errorf("after %d attempts, last error: %w", attempts, err)
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func isPermanent(err error) bool {
	_, ok := err.(permanentError)
	return ok
}
