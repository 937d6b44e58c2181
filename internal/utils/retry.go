package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryAction tells [Retry] what to do after a failed attempt.
type RetryAction int

const (
	RetryStop  RetryAction = iota // permanent error, abort immediately
	RetryAgain                    // transient error, use normal backoff
	RetryAfter                    // rate-limited, use longer backoff
)

// RetryPolicy configures [Retry]. Only idempotent operations may be retried.
type RetryPolicy struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	RateLimitBackoff time.Duration
	OnRetry          func(attempt int, err error, backoff time.Duration)
}

// RetryClassifier decides whether an error is worth another attempt.
type RetryClassifier func(err error) RetryAction

// Retry runs op until it succeeds, classify says stop, the attempts are
// exhausted or ctx is done. The backoff doubles after every retry.
// The returned error always wraps the last error of op.
func Retry[T any](ctx context.Context, p RetryPolicy, classify RetryClassifier, op func() (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.RateLimitBackoff <= 0 {
		p.RateLimitBackoff = p.InitialBackoff
	}
	backoff := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}

		action := classify(err)
		if action == RetryStop {
			return zero, err
		}

		if attempt == p.MaxAttempts {
			return zero, fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		if action == RetryAfter {
			backoff = p.RateLimitBackoff
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, backoff)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
			backoff *= 2
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("context cancelled during retry: %w", err)
		}
	}
}
