package ai

import (
	"context"
	"time"
)

// RaceFailOpen runs op against a deadline and returns fallback when the
// deadline wins or op errors. This is the availability-over-strictness
// timeout policy used around AI validation calls: a slow or broken validator
// must never block a human-moderated flow, it defaults the outcome and leaves
// the final call to manual review.
//
// The boolean result reports whether the fallback was used.
func RaceFailOpen[T any](ctx context.Context, timeout time.Duration, fallback T, op func(ctx context.Context) (T, error)) (T, bool) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	ch := make(chan outcome, 1)
	go func() {
		v, err := op(opCtx)
		ch <- outcome{value: v, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			return fallback, true
		}
		return out.value, false
	case <-opCtx.Done():
		return fallback, true
	}
}
