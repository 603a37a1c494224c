// Package discovery announces node-rpc servers and lets clients find them.
//
// A server registers one Instance per advertised address under a service name;
// clients Discover (or Watch) the current instance list and pick one with a
// loadbalance.Balancer.
package discovery

import "context"

type Instance struct {
	Addr    string `json:"addr"`
	Weight  int    `json:"weight"` // Weight for load balancing
	Version string `json:"version,omitempty"`
}

type Registry interface {
	// Register announces instance under service for ttl seconds, renewed until
	// Deregister or process exit.
	Register(ctx context.Context, service string, instance Instance, ttl int64) error
	Deregister(ctx context.Context, service string, addr string) error
	Discover(ctx context.Context, service string) ([]Instance, error)
	// Watch emits the full instance list after every change. The channel is
	// closed when ctx is done.
	Watch(ctx context.Context, service string) <-chan []Instance
}
