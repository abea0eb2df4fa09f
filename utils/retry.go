package utils

import (
	"fmt"
	"time"
)

// RetryFixedDelay runs fn up to 1+retries times, sleeping a fixed delay
// between attempts. The last error is wrapped and returned once the budget is
// exhausted.
func RetryFixedDelay(retries int, delay time.Duration, logger *Logger, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying (attempt %d/%d) after %v...", attempt+1, retries+1, delay)
			time.Sleep(delay)
		}
		if err := fn(); err != nil {
			lastErr = err
			logger.Error("Attempt %d failed: %v", attempt+1, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", retries+1, lastErr)
}
