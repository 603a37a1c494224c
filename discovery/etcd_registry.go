package discovery

import (
	"context"
	"encoding/json"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

// KeyPrefix roots every key written by EtcdRegistry:
//
//	/node-rpc/{service}/{addr} -> JSON Instance
//
// Keys are attached to a TTL lease, so a crashed server disappears once the
// lease expires.
const KeyPrefix = "/node-rpc/"

// EtcdRegistry implements Registry on etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client
	logger *zap.Logger
}

// NewEtcdRegistry connects to the given endpoints. A nil logger discards
// client and registry logs.
func NewEtcdRegistry(endpoints []string, logger *zap.Logger) (*EtcdRegistry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
		Logger:      logger.Named("etcd"),
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c, logger: logger}, nil
}

func servicePrefix(service string) string {
	return KeyPrefix + service + "/"
}

// Register grants a lease, puts the instance under it and keeps it alive.
// The lease ID stays local so one EtcdRegistry can announce many instances.
func (r *EtcdRegistry) Register(ctx context.Context, service string, instance Instance, ttl int64) error {
	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, servicePrefix(service)+instance.Addr, string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	// The keepalive outlives the request context.
	ch, err := r.client.KeepAlive(context.Background(), lease.ID)
	if err != nil {
		return err
	}

	go func() {
		for range ch {
		}
		r.logger.Debug("lease keepalive stopped",
			zap.String("service", service), zap.String("addr", instance.Addr))
	}()
	return nil
}

func (r *EtcdRegistry) Deregister(ctx context.Context, service string, addr string) error {
	_, err := r.client.Delete(ctx, servicePrefix(service)+addr)
	return err
}

// Discover lists the instances currently under the service prefix. Malformed
// entries are skipped.
func (r *EtcdRegistry) Discover(ctx context.Context, service string) ([]Instance, error) {
	resp, err := r.client.Get(ctx, servicePrefix(service), clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]Instance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance Instance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			r.logger.Warn("skipping malformed instance", zap.ByteString("key", kv.Key), zap.Error(err))
			continue
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// Watch re-reads the full list on every change under the prefix rather than
// applying individual events.
func (r *EtcdRegistry) Watch(ctx context.Context, service string) <-chan []Instance {
	ch := make(chan []Instance, 1)

	go func() {
		defer close(ch)
		for wresp := range r.client.Watch(ctx, servicePrefix(service), clientv3.WithPrefix()) {
			if err := wresp.Err(); err != nil {
				r.logger.Warn("watch failed", zap.String("service", service), zap.Error(err))
				return
			}
			instances, err := r.Discover(ctx, service)
			if err != nil {
				r.logger.Warn("rediscover failed", zap.String("service", service), zap.Error(err))
				continue
			}
			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

func (r *EtcdRegistry) Close() error {
	return r.client.Close()
}
