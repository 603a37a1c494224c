package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"node-rpc/codec"
)

// Metrics holds the per-operation call counters and latency histogram.
type Metrics struct {
	Calls    *prometheus.CounterVec   // node_rpc_calls_total{operation,outcome}
	Duration *prometheus.HistogramVec // node_rpc_call_duration_seconds{operation}
}

// NewMetrics registers the collectors with reg. Registering twice with the
// same registerer reuses the collectors already there.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "node_rpc_calls_total",
		Help: "Calls handled, by operation and outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "node_rpc_call_duration_seconds",
		Help:    "Time spent in the handler chain, by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	return &Metrics{
		Calls:    register(reg, calls),
		Duration: register(reg, duration),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(C)
		}
		panic(err)
	}
	return c
}

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
	OutcomeTimeout     = "timeout"
)

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

func (m *Metrics) Middleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *Call) (codec.Message, error) {
			start := time.Now()
			resp, err := next(ctx, call)
			m.Duration.WithLabelValues(call.Operation).Observe(time.Since(start).Seconds())
			m.Calls.WithLabelValues(call.Operation, outcome(err)).Inc()
			return resp, err
		}
	}
}
