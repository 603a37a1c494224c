package middleware

import (
	"context"
	"time"

	"node-rpc/codec"
)

type callResult struct {
	resp codec.Message
	err  error
}

// TimeOutMiddleware answers ErrTimeout once timeout elapses. Handlers cannot be
// cancelled, so a slow one keeps running in the background and its result is
// dropped.
func TimeOutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *Call) (codec.Message, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan callResult, 1)
			go func() {
				resp, err := next(ctx, call)
				done <- callResult{resp, err}
			}()

			select {
			case r := <-done:
				return r.resp, r.err
			case <-ctx.Done():
				return nil, ErrTimeout
			}
		}
	}
}
