package util

import (
	"fmt"
	"time"
)

// Retry runs op up to maxAttempts times, sleeping initialDelay before the
// second attempt and doubling the delay after each subsequent failure.
// sleep may be nil, in which case time.Sleep is used; tests inject a fake
// to avoid real waiting.
func Retry(op func() error, maxAttempts int, initialDelay time.Duration, sleep func(time.Duration)) error {
	if maxAttempts < 1 {
		return fmt.Errorf("retry needs at least 1 attempt, got %d", maxAttempts)
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	delay := initialDelay
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			sleep(delay)
			delay *= 2
		}
		err = op()
		if err == nil {
			return nil
		}
	}

	return fmt.Errorf("exhausted %d attempts: %w", maxAttempts, err)
}
