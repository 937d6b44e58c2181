package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func alwaysRetry(error) RetryAction { return RetryAgain }

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, InitialBackoff: time.Millisecond}
}

func TestRetry_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), fastPolicy(3), alwaysRetry, func() (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	var retried []int
	p := fastPolicy(3)
	p.OnRetry = func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }

	got, err := Retry(context.Background(), p, alwaysRetry, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0

	_, err := Retry(context.Background(), fastPolicy(5), func(err error) RetryAction {
		if errors.Is(err, permanent) {
			return RetryStop
		}
		return RetryAgain
	}, func() (struct{}, error) {
		calls++
		return struct{}{}, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(3), alwaysRetry, func() (int, error) {
		calls++
		return 0, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{}, alwaysRetry, func() (int, error) {
		calls++
		return 0, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Hour}
	p.OnRetry = func(int, error, time.Duration) { cancel() }

	_, err := Retry(ctx, p, alwaysRetry, func() (int, error) {
		return 0, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Contains(t, err.Error(), "context cancelled")
}

func TestRetry_RateLimitedUsesLongerBackoff(t *testing.T) {
	var backoffs []time.Duration
	p := RetryPolicy{
		MaxAttempts:      2,
		InitialBackoff:   time.Millisecond,
		RateLimitBackoff: 2 * time.Millisecond,
		OnRetry:          func(_ int, _ error, b time.Duration) { backoffs = append(backoffs, b) },
	}

	_, _ = Retry(context.Background(), p, func(error) RetryAction { return RetryAfter }, func() (int, error) {
		return 0, errTransient
	})

	assert.Equal(t, []time.Duration{2 * time.Millisecond}, backoffs)
}
