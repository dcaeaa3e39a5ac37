package syncer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is the explicit retry schedule injected into the sync engine.
// Provider rate limits and transient failures are retried on an exponential
// schedule; errors the classifier rejects fail immediately.
type RetryPolicy struct {
	// MaxAttempts counts the first try plus retries.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Do runs op, retrying errors for which retryable returns true, up to
// MaxAttempts total attempts. Context cancellation stops the schedule.
func (p RetryPolicy) Do(ctx context.Context, retryable func(error) bool, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialBackoff
	b.MaxInterval = p.MaxBackoff

	attempts := uint64(1)
	if p.MaxAttempts > 1 {
		attempts = uint64(p.MaxAttempts)
	}

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(b, attempts-1), ctx))
}

// alwaysRetryable classifies store write failures, which are all worth a
// bounded retry.
func alwaysRetryable(error) bool { return true }
