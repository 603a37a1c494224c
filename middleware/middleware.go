// Package middleware wraps the call to an operation handler.
//
// Middlewares see a decoded request and return either a response message or an
// error, so they sit between the protocol layer (body read, codec) and the
// business handler. Chain(A, B, C)(h) runs as A(B(C(h))).
package middleware

import (
	"context"

	"node-rpc/codec"
)

// Call is one decoded request on its way to a handler.
type Call struct {
	Operation string        // Operation name, e.g. "OpenChannel"
	Path      string        // Transport path the request arrived on
	Request   codec.Message // Decoded request
}

type HandlerFunc func(ctx context.Context, call *Call) (codec.Message, error)

type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into one; the first one given runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
