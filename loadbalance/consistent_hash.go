package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"
	"sync"

	"node-rpc/discovery"
)

// ConsistentHashBalancer maps a fixed key (usually the client's identity) onto
// a hash ring of the instances. The same key keeps landing on the same server
// while the instance set is unchanged; when one server leaves, only the keys
// it owned move.
//
// Each instance is placed on the ring replicas times so a handful of servers
// still spread evenly.
type ConsistentHashBalancer struct {
	key      string
	replicas int

	mu    sync.Mutex
	addrs string // instance set the ring was built from
	ring  []uint32
	nodes map[uint32]string // hash -> addr
}

// NewConsistentHashBalancer creates a ring with 100 virtual nodes per instance.
func NewConsistentHashBalancer(key string) *ConsistentHashBalancer {
	return &ConsistentHashBalancer{key: key, replicas: 100}
}

// Pick rebuilds the ring only when the instance set changed since the last call.
func (b *ConsistentHashBalancer) Pick(instances []discovery.Instance) (*discovery.Instance, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	b.mu.Lock()
	b.rebuild(instances)
	addr := b.lookup(b.key)
	b.mu.Unlock()

	for i := range instances {
		if instances[i].Addr == addr {
			return &instances[i], nil
		}
	}
	return nil, ErrNoInstances
}

func (b *ConsistentHashBalancer) rebuild(instances []discovery.Instance) {
	addrs := make([]string, len(instances))
	for i, inst := range instances {
		addrs[i] = inst.Addr
	}
	sort.Strings(addrs)
	set := fmt.Sprint(addrs)
	if set == b.addrs {
		return
	}

	b.addrs = set
	b.ring = b.ring[:0]
	b.nodes = make(map[uint32]string, len(addrs)*b.replicas)
	for _, addr := range addrs {
		for i := 0; i < b.replicas; i++ {
			hash := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", addr, i)))
			b.ring = append(b.ring, hash)
			b.nodes[hash] = addr
		}
	}
	sort.Slice(b.ring, func(i, j int) bool { return b.ring[i] < b.ring[j] })
}

// lookup walks clockwise from the key's hash to the first virtual node,
// wrapping past the end of the ring.
func (b *ConsistentHashBalancer) lookup(key string) string {
	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(b.ring), func(i int) bool { return b.ring[i] >= hash })
	if idx == len(b.ring) {
		idx = 0
	}
	return b.nodes[b.ring[idx]]
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
