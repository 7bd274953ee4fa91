package client

import (
	"context"
	"fmt"
	"time"

	apperrors "unit-client/internal/common/errors"
)

// retryWithBackoff runs operation until it succeeds, fails with a non-retryable
// error, or maxRetries attempts are spent. The delay doubles after each attempt.
func (c *Client) retryWithBackoff(ctx context.Context, operationName string, operation func() error) error {
	var err error
	delay := c.retryDelay

	for i := 0; i < c.maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if stdErr, ok := apperrors.AsStandardError(err); !ok || !stdErr.Retryable {
			return err
		}

		if i < c.maxRetries-1 {
			c.logger.WithError(err).Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"attempt":     i + 1,
				"max_retries": c.maxRetries,
				"next_retry":  delay.String(),
			})
			select {
			case <-ctx.Done():
				return err
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	if c.maxRetries == 1 {
		return err
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, c.maxRetries, err)
}
