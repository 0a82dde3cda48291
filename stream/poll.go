package stream

import (
	"context"

	"golang.org/x/time/rate"
)

// ContextPoll returns a PollFunc that runs service on each yield and
// abandons the flush once ctx is done or service returns false.
// A nil service only checks ctx.
func ContextPoll(ctx context.Context, service func() bool) PollFunc {
	return func() bool {
		if ctx.Err() != nil {
			return false
		}
		if service != nil && !service() {
			return false
		}
		return ctx.Err() == nil
	}
}

// RateLimitedPoll is like ContextPoll but waits on limiter before each
// service call, so a stalled transport is re-checked at a bounded rate
// instead of in a busy loop.
func RateLimitedPoll(ctx context.Context, limiter *rate.Limiter, service func() bool) PollFunc {
	return func() bool {
		if err := limiter.Wait(ctx); err != nil {
			return false
		}
		if service != nil && !service() {
			return false
		}
		return ctx.Err() == nil
	}
}
