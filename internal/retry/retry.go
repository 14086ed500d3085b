// Package retry runs an operation a bounded number of times with a fixed delay.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retry loop. Attempts counts the first try.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Do runs op until it succeeds, the attempts are used up, or ctx is done. The
// last error from op is returned unchanged so callers can classify it.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(p.Delay)
	b = backoff.WithMaxRetries(b, uint64(attempts-1))
	b = backoff.WithContext(b, ctx)

	var lastErr error
	result, err := backoff.RetryWithData(func() (T, error) {
		v, err := op(ctx)
		if err != nil {
			lastErr = err
		}
		return v, err
	}, b)
	if err != nil && lastErr != nil {
		return result, lastErr
	}
	return result, err
}
