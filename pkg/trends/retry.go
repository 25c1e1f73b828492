package trends

import (
	"context"
	"time"
)

// Retry runs a function with exponential backoff between attempts
type Retry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
	sleep             func(ctx context.Context, d time.Duration) error
}

// NewRetry creates a retry policy of 1 attempt plus maxRetries retries
func NewRetry(maxRetries int, retryDelay time.Duration) *Retry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
		sleep:             sleepContext,
	}
}

// Execute runs fn until it succeeds, returns a fatal error, or retries run out
func (r *Retry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries || ClassifyError(err) == ErrorSeverityFatal {
			break
		}

		if err := r.sleep(ctx, r.delay(attempt)); err != nil {
			return err
		}
	}

	return lastErr
}

func (r *Retry) delay(attempt int) time.Duration {
	d := float64(r.retryDelay)
	for i := 0; i < attempt; i++ {
		d *= r.backoffMultiplier
	}
	return time.Duration(d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
