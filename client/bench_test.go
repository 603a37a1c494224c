package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"node-rpc/api"
	"node-rpc/codec"
	"node-rpc/message"
	"node-rpc/middleware"
	"node-rpc/node"
	"node-rpc/server"
)

// ---- Setup 公共函数 ----

func setupBench(b *testing.B, cd codec.Codec) *Client {
	n := node.NewMemory(node.MemoryConfig{BalanceSats: 1_000_000})
	if _, err := n.OpenChannel(testPubkey, "127.0.0.1:9735", 500_000, nil, false); err != nil {
		b.Fatal(err)
	}

	svr := server.NewServer(n)
	svr.Use(middleware.LoggingMiddleware(zap.NewNop()))
	if err := api.Register(svr); err != nil {
		b.Fatal(err)
	}
	ts := httptest.NewServer(svr)
	b.Cleanup(ts.Close)

	return NewClient(ts.URL, WithCodec(cd))
}

// ---- Benchmark ----

// 场景1: 单 goroutine 串行调用
func BenchmarkSerialCall(b *testing.B) {
	cli := setupBench(b, codec.GetCodec(codec.CodecTypeBinary))
	ctx := context.Background()
	req := &message.ListChannelsRequest{}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := cli.ListChannels(ctx, req); err != nil {
			b.Fatal(err)
		}
	}
}

// 场景2: 多 goroutine 并发调用（连接池复用）
func BenchmarkConcurrentCall(b *testing.B) {
	cli := setupBench(b, codec.GetCodec(codec.CodecTypeBinary))
	ctx := context.Background()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		req := &message.ListChannelsRequest{}
		for pb.Next() {
			if _, err := cli.ListChannels(ctx, req); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// 场景3: JSON 编码下的并发调用
func BenchmarkConcurrentCallJSON(b *testing.B) {
	cli := setupBench(b, codec.GetCodec(codec.CodecTypeJSON))
	ctx := context.Background()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		req := &message.ListChannelsRequest{}
		for pb.Next() {
			if _, err := cli.ListChannels(ctx, req); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
