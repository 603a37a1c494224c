// Package loadbalance picks the node-rpc server a client call goes to.
//
// Three strategies are implemented:
//   - RoundRobin:      equal-capacity servers fronting the same node
//   - WeightedRandom:  servers of different capacity
//   - ConsistentHash:  pins a client to one server, so invoices it creates
//     and the payments it sends land on the same node
package loadbalance

import (
	"errors"

	"node-rpc/discovery"
)

var ErrNoInstances = errors.New("loadbalance: no instances available")

// Balancer selects a target before each call. Implementations must be
// safe for concurrent use.
type Balancer interface {
	Pick(instances []discovery.Instance) (*discovery.Instance, error)
	Name() string
}

// New returns the balancer registered under name, or nil for an unknown one.
// key is only used by the consistent-hash strategy.
func New(name, key string) Balancer {
	switch name {
	case "", "roundrobin", "RoundRobin":
		return &RoundRobinBalancer{}
	case "random", "WeightedRandom":
		return &WeightedRandomBalancer{}
	case "hash", "ConsistentHash":
		return NewConsistentHashBalancer(key)
	default:
		return nil
	}
}
