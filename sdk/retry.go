package sdk

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryStrategy decides whether and when a failed request is retried.
//
// Only transient failures ever reach a strategy: game-rule errors are
// surfaced to the caller without consulting it. The built-in strategies are
// ExponentialBackoffStrategy, ConstantBackoffStrategy and NoRetryStrategy;
// custom implementations may cap attempts or delays differently.
type RetryStrategy interface {
	// NextInterval returns the delay before retry attempt n (starting at 1).
	NextInterval(attempt int) time.Duration

	// ShouldRetry reports whether the error warrants attempt n.
	ShouldRetry(err error, attempt int) bool
}

// ExponentialBackoffStrategy retries with exponentially growing, jittered
// delays. This is the default strategy.
//
//	delay(n) = min(InitialInterval * Multiplier^(n-1), MaxInterval) ± Jitter
//
// Example:
//
//	config := sdk.DefaultConfig().
//	    WithRetryStrategy(&sdk.ExponentialBackoffStrategy{
//	        InitialInterval: 250 * time.Millisecond,
//	        MaxInterval:     5 * time.Second,
//	        Multiplier:      2.0,
//	        Jitter:          0.3,
//	        MaxAttempts:     5,
//	    })
type ExponentialBackoffStrategy struct {
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration
	// MaxInterval caps the delay between retries.
	MaxInterval time.Duration
	// Multiplier is the exponential growth factor.
	Multiplier float64
	// Jitter randomizes each delay by ±Jitter (0.0 to 1.0).
	Jitter float64
	// MaxAttempts is the maximum number of retry attempts.
	MaxAttempts int
}

// DefaultExponentialBackoff returns the strategy used when none is
// configured: 100ms initial, 5s cap, doubling, ±30% jitter, 3 attempts.
func DefaultExponentialBackoff() *ExponentialBackoffStrategy {
	return &ExponentialBackoffStrategy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		Jitter:          0.3,
		MaxAttempts:     3,
	}
}

// NextInterval returns the jittered delay for the given attempt.
func (s *ExponentialBackoffStrategy) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	interval := float64(s.InitialInterval) * math.Pow(s.Multiplier, float64(attempt-1))
	if interval > float64(s.MaxInterval) {
		interval = float64(s.MaxInterval)
	}
	if s.Jitter > 0 {
		interval += interval * s.Jitter * (2*rand.Float64() - 1)
	}
	if interval < 0 {
		interval = 0
	}
	return time.Duration(interval)
}

// ShouldRetry allows transient errors up to MaxAttempts.
func (s *ExponentialBackoffStrategy) ShouldRetry(err error, attempt int) bool {
	return attempt <= s.MaxAttempts && IsRetryable(err)
}

// ConstantBackoffStrategy retries with a fixed delay.
type ConstantBackoffStrategy struct {
	// Interval is the fixed delay between retries.
	Interval time.Duration
	// MaxAttempts is the maximum number of retry attempts.
	MaxAttempts int
}

// NextInterval returns the fixed interval.
func (s *ConstantBackoffStrategy) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return s.Interval
}

// ShouldRetry allows transient errors up to MaxAttempts.
func (s *ConstantBackoffStrategy) ShouldRetry(err error, attempt int) bool {
	return attempt <= s.MaxAttempts && IsRetryable(err)
}

// NoRetryStrategy disables retries entirely. Every failure, transient or
// not, surfaces immediately.
type NoRetryStrategy struct{}

// NextInterval always returns 0.
func (s *NoRetryStrategy) NextInterval(attempt int) time.Duration { return 0 }

// ShouldRetry always returns false.
func (s *NoRetryStrategy) ShouldRetry(err error, attempt int) bool { return false }

// retryExecutor runs a function under a strategy, reporting each retry
// through the onRetry hook.
type retryExecutor struct {
	strategy RetryStrategy
	onRetry  func(attempt int, delay time.Duration, err error)
}

func newRetryExecutor(strategy RetryStrategy, onRetry func(int, time.Duration, error)) *retryExecutor {
	if strategy == nil {
		strategy = DefaultExponentialBackoff()
	}
	return &retryExecutor{strategy: strategy, onRetry: onRetry}
}

// execute runs fn, retrying per the strategy. The last error is returned
// when retries are exhausted.
func (re *retryExecutor) execute(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !re.strategy.ShouldRetry(err, attempt) {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}

		delay := re.strategy.NextInterval(attempt)
		if re.onRetry != nil {
			re.onRetry(attempt, delay, err)
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			case <-timer.C:
			}
		}
	}
}
