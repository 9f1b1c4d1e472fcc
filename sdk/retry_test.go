package sdk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoffIntervals(t *testing.T) {
	s := &ExponentialBackoffStrategy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
		MaxAttempts:     5,
	}

	assert.Equal(t, 100*time.Millisecond, s.NextInterval(1))
	assert.Equal(t, 200*time.Millisecond, s.NextInterval(2))
	assert.Equal(t, 400*time.Millisecond, s.NextInterval(3))
	// Capped.
	assert.Equal(t, time.Second, s.NextInterval(5))
}

func TestExponentialBackoffJitterStaysInBounds(t *testing.T) {
	s := &ExponentialBackoffStrategy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
		Jitter:          0.5,
		MaxAttempts:     3,
	}

	for i := 0; i < 100; i++ {
		d := s.NextInterval(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestShouldRetryRespectsErrorClassAndAttempts(t *testing.T) {
	s := &ExponentialBackoffStrategy{MaxAttempts: 2}
	transient := &NetworkError{Op: "GET items", Err: errors.New("refused")}

	assert.True(t, s.ShouldRetry(transient, 1))
	assert.True(t, s.ShouldRetry(transient, 2))
	assert.False(t, s.ShouldRetry(transient, 3))
	assert.False(t, s.ShouldRetry(ErrInventoryFull, 1))
}

func TestNoRetryStrategy(t *testing.T) {
	s := &NoRetryStrategy{}
	assert.False(t, s.ShouldRetry(&NetworkError{Err: errors.New("refused")}, 1))
	assert.Equal(t, time.Duration(0), s.NextInterval(1))
}

func TestRetryExecutorSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	var retries []int
	executor := newRetryExecutor(
		&ConstantBackoffStrategy{Interval: time.Millisecond, MaxAttempts: 3},
		func(attempt int, delay time.Duration, err error) { retries = append(retries, attempt) },
	)

	err := executor.execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &NetworkError{Op: "GET items", Err: errors.New("refused")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestRetryExecutorStopsOnPermanentError(t *testing.T) {
	calls := 0
	executor := newRetryExecutor(&ConstantBackoffStrategy{Interval: time.Millisecond, MaxAttempts: 5}, nil)

	err := executor.execute(context.Background(), func() error {
		calls++
		return &APIError{StatusCode: 497, Method: "POST", Endpoint: "my/Birb/action/gathering"}
	})

	require.ErrorIs(t, err, ErrInventoryFull)
	assert.Equal(t, 1, calls, "game-rule errors must not be retried")
}

func TestRetryExecutorExhaustsAttempts(t *testing.T) {
	calls := 0
	executor := newRetryExecutor(&ConstantBackoffStrategy{Interval: time.Millisecond, MaxAttempts: 3}, nil)

	err := executor.execute(context.Background(), func() error {
		calls++
		return &NetworkError{Op: "GET items", Err: errors.New("refused")}
	})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 4, calls, "one initial call plus three retries")
}

func TestRetryExecutorHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	executor := newRetryExecutor(&ConstantBackoffStrategy{Interval: time.Hour, MaxAttempts: 3}, nil)

	err := executor.execute(ctx, func() error {
		calls++
		cancel()
		return &NetworkError{Op: "GET items", Err: errors.New("refused")}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
