package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"node-rpc/codec"
)

// RateLimitMiddleware admits calls through a token bucket shared by all
// callers: r tokens per second, bursts of up to burst.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *Call) (codec.Message, error) {
			if !limiter.Allow() {
				return nil, ErrRateLimited
			}
			return next(ctx, call)
		}
	}
}
