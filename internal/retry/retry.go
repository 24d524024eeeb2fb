// Package retry runs operations that can fail transiently with bounded,
// exponentially delayed retries.
package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxShift bounds the exponent so the delay floor cannot overflow
const maxShift = 30

// Options controls Execute.
type Options struct {
	// MaxAttempts is the total number of invocations, including the first. Values < 1 mean 1.
	MaxAttempts int
	// BaseDelay is the delay floor after the first failure; it doubles per attempt.
	BaseDelay time.Duration
	// MaxDelay caps the delay floor. Zero means uncapped.
	MaxDelay time.Duration
	// Jitter is the upper bound of the uniformly random duration added to every delay.
	Jitter time.Duration
	// ShouldRetry decides whether a failed attempt is worth repeating. Nil retries every error.
	ShouldRetry func(err error, attempt int) bool
	// OnRetry is invoked before sleeping ahead of the next attempt.
	OnRetry func(err error, attempt int, delay time.Duration)
}

// Operation is a single attempt. attempt starts at 1.
type Operation[T any] func(ctx context.Context, attempt int) (T, error)

// Execute invokes op until it succeeds, ShouldRetry rejects the error, or
// MaxAttempts is reached. The last error is returned unchanged. Attempts never
// overlap. Cancelling ctx while waiting returns the context error.
func Execute[T any](ctx context.Context, op Operation[T], opts Options) (T, error) {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	policy := &exponentialPolicy{opts: opts}
	attempt := 0

	run := func() (T, error) {
		attempt++
		policy.attempt = attempt

		result, err := op(ctx, attempt)
		if err == nil {
			return result, nil
		}

		if attempt >= opts.MaxAttempts {
			return result, backoff.Permanent(err)
		}
		if opts.ShouldRetry != nil && !opts.ShouldRetry(err, attempt) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, delay time.Duration) {
		if opts.OnRetry != nil {
			opts.OnRetry(err, attempt, delay)
		}
	}

	return backoff.RetryNotifyWithData(run, backoff.WithContext(policy, ctx), notify)
}

// Delay returns the wait after failed attempt n (1-based) before jitter:
// min(maxDelay, base*2^(n-1)).
func Delay(attempt int, base, maxDelay time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	if shift > maxShift {
		shift = maxShift
	}
	delay := base << uint(shift)
	if delay < 0 || (maxDelay > 0 && delay > maxDelay) {
		delay = maxDelay
	}
	return delay
}

// exponentialPolicy is a backoff.BackOff whose floor depends on the attempt
// that just failed, plus additive jitter.
type exponentialPolicy struct {
	opts    Options
	attempt int
}

func (p *exponentialPolicy) NextBackOff() time.Duration {
	delay := Delay(p.attempt, p.opts.BaseDelay, p.opts.MaxDelay)
	if p.opts.Jitter > 0 {
		delay += time.Duration(rand.Int64N(int64(p.opts.Jitter) + 1))
	}
	return delay
}

func (p *exponentialPolicy) Reset() {
	p.attempt = 0
}
