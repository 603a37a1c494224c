package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"node-rpc/codec"
)

// LoggingMiddleware logs every call with its duration, and the error if any.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *Call) (codec.Message, error) {
			start := time.Now()
			resp, err := next(ctx, call)
			fields := []zap.Field{
				zap.String("operation", call.Operation),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("call failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			logger.Info("call served", fields...)
			return resp, nil
		}
	}
}
