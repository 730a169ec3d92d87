package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vilo-admin/internal/logging"
)

// statusCoder is implemented by errors carrying an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// Backoff returns the delay before retrying after the given zero-based
// attempt: base, 2*base, 4*base, ...
func Backoff(attempt int, base time.Duration) time.Duration {
	return time.Duration(1<<uint(attempt)) * base
}

// Retry runs fn up to maxRetries+1 times with exponential backoff between
// attempts. Errors carrying a 401 or 403 status are returned immediately;
// retrying will not fix an authentication failure. The last error is
// returned when attempts are exhausted.
func Retry(ctx context.Context, logger *logging.Logger, maxRetries int, base time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			var sc statusCoder
			if errors.As(err, &sc) {
				if code := sc.HTTPStatus(); code == 401 || code == 403 {
					return err
				}
			}
			if attempt == maxRetries {
				logger.Errorf("Attempt %d/%d failed: %v", attempt+1, maxRetries+1, err)
				break
			}

			delay := Backoff(attempt, base)
			logger.Errorf("Attempt %d/%d failed (retry in %s): %v", attempt+1, maxRetries+1, delay, err)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}
