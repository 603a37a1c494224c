package discovery

import (
	"context"
	"slices"
	"sync"
)

// MemoryRegistry is an in-process Registry for tests and single-host setups.
// ttl is ignored; instances live until deregistered.
type MemoryRegistry struct {
	mu        sync.Mutex
	instances map[string][]Instance
	watchers  map[string][]chan []Instance
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		instances: make(map[string][]Instance),
		watchers:  make(map[string][]chan []Instance),
	}
}

// Register replaces an existing instance with the same address.
func (m *MemoryRegistry) Register(ctx context.Context, service string, instance Instance, ttl int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	insts := slices.DeleteFunc(m.instances[service], func(i Instance) bool { return i.Addr == instance.Addr })
	m.instances[service] = append(insts, instance)
	m.notify(service)
	return nil
}

func (m *MemoryRegistry) Deregister(ctx context.Context, service string, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.instances[service] = slices.DeleteFunc(m.instances[service], func(i Instance) bool { return i.Addr == addr })
	m.notify(service)
	return nil
}

func (m *MemoryRegistry) Discover(ctx context.Context, service string) ([]Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.instances[service]), nil
}

func (m *MemoryRegistry) Watch(ctx context.Context, service string) <-chan []Instance {
	ch := make(chan []Instance, 1)

	m.mu.Lock()
	m.watchers[service] = append(m.watchers[service], ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		m.watchers[service] = slices.DeleteFunc(m.watchers[service], func(c chan []Instance) bool { return c == ch })
		close(ch)
	}()
	return ch
}

// notify hands each watcher the latest list, replacing a value it has not
// read yet. Caller holds mu.
func (m *MemoryRegistry) notify(service string) {
	for _, ch := range m.watchers[service] {
		select {
		case <-ch:
		default:
		}
		ch <- slices.Clone(m.instances[service])
	}
}
