package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"node-rpc/api"
	"node-rpc/codec"
	"node-rpc/discovery"
	"node-rpc/loadbalance"
	"node-rpc/message"
	"node-rpc/node"
	"node-rpc/server"
)

const testPubkey = "02cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"

func u64(v uint64) *uint64 { return &v }

// startServer 启动一个挂载全部 API 的测试服务器
func startServer(t *testing.T) (*httptest.Server, *node.Memory) {
	t.Helper()
	n := node.NewMemory(node.MemoryConfig{BalanceSats: 1_000_000})
	svr := server.NewServer(n, server.WithLogger(zaptest.NewLogger(t)))
	if err := api.Register(svr); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(svr)
	t.Cleanup(ts.Close)
	return ts, n
}

func hostOf(ts *httptest.Server) string {
	return strings.TrimPrefix(ts.URL, "http://")
}

func TestAllOperations(t *testing.T) {
	for _, cd := range []codec.Codec{codec.GetCodec(codec.CodecTypeBinary), codec.GetCodec(codec.CodecTypeJSON)} {
		t.Run(cd.ContentType(), func(t *testing.T) {
			ts, n := startServer(t)
			cli := NewClient(hostOf(ts), WithCodec(cd))
			ctx := context.Background()

			addr, err := cli.OnchainReceive(ctx, &message.OnchainReceiveRequest{})
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(addr.Address, "bcrt1") {
				t.Fatalf("unexpected address %q", addr.Address)
			}

			sent, err := cli.OnchainSend(ctx, &message.OnchainSendRequest{Address: addr.Address, AmountSats: u64(10_000)})
			if err != nil {
				t.Fatal(err)
			}
			if len(sent.Txid) != 64 {
				t.Fatalf("unexpected txid %q", sent.Txid)
			}

			opened, err := cli.OpenChannel(ctx, &message.OpenChannelRequest{
				NodePubkey:        testPubkey,
				Address:           "127.0.0.1:9735",
				ChannelAmountSats: 100_000,
			})
			if err != nil {
				t.Fatal(err)
			}

			inv, err := cli.Bolt11Receive(ctx, &message.Bolt11ReceiveRequest{AmountMsat: u64(1000), Description: "test", ExpirySecs: 3600})
			if err != nil {
				t.Fatal(err)
			}
			paid, err := cli.Bolt11Send(ctx, &message.Bolt11SendRequest{Invoice: inv.Invoice})
			if err != nil {
				t.Fatal(err)
			}
			if len(paid.PaymentID) != 32 {
				t.Fatalf("expect 32-byte payment id, got %d", len(paid.PaymentID))
			}

			offer, err := cli.Bolt12Receive(ctx, &message.Bolt12ReceiveRequest{Description: "test"})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := cli.Bolt12Send(ctx, &message.Bolt12SendRequest{Offer: offer.Offer, AmountMsat: u64(500)}); err != nil {
				t.Fatal(err)
			}

			list, err := cli.ListChannels(ctx, &message.ListChannelsRequest{})
			if err != nil {
				t.Fatal(err)
			}
			if len(list.Channels) != 1 || list.Channels[0].UserChannelID != opened.UserChannelID {
				t.Fatalf("unexpected channels %+v", list.Channels)
			}

			if _, err := cli.CloseChannel(ctx, &message.CloseChannelRequest{UserChannelID: opened.UserChannelID, CounterpartyNodeID: testPubkey}); err != nil {
				t.Fatal(err)
			}
			if got := len(n.ListChannels()); got != 0 {
				t.Fatalf("expect channel closed on the node, %d left", got)
			}
		})
	}
}

func TestApplicationError(t *testing.T) {
	ts, _ := startServer(t)
	cli := NewClient(hostOf(ts))

	_, err := cli.CloseChannel(context.Background(), &message.CloseChannelRequest{UserChannelID: "7", CounterpartyNodeID: testPubkey})
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expect *Error, got %T %v", err, err)
	}
	if cerr.Status != http.StatusInternalServerError {
		t.Fatalf("expect status 500, got %d", cerr.Status)
	}
	if cerr.Message != node.ErrChannelClosingFailed.Error() {
		t.Fatalf("expect node error text, got %q", cerr.Message)
	}
}

func TestStatusPropagation(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		message string
	}{
		{http.StatusBadRequest, "Error parsing request", "Error parsing request"},
		{http.StatusTooManyRequests, "rate limit exceeded\n", "rate limit exceeded"},
		{http.StatusBadGateway, "", UnknownError},
		{http.StatusNotFound, "", UnknownError},
	}

	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		}))

		_, err := NewClient(ts.URL).ListChannels(context.Background(), &message.ListChannelsRequest{})
		ts.Close()

		var cerr *Error
		if !errors.As(err, &cerr) {
			t.Fatalf("status %d: expect *Error, got %v", tc.status, err)
		}
		if cerr.Status != tc.status || cerr.Message != tc.message {
			t.Errorf("status %d: got %+v, want message %q", tc.status, cerr, tc.message)
		}
	}
}

func TestTransportFailure(t *testing.T) {
	// 找一个没有人监听的端口
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	_, err = NewClient(addr).OnchainReceive(context.Background(), &message.OnchainReceiveRequest{})
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expect *Error, got %v", err)
	}
	if cerr.Status != 0 {
		t.Fatalf("expect status 0 for transport failure, got %d", cerr.Status)
	}
}

func TestDecodeFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0x0a, 0x09, 0x01}) // truncated string field
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).OnchainReceive(context.Background(), &message.OnchainReceiveRequest{})
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Status != 0 || !strings.Contains(cerr.Message, "decode response") {
		t.Fatalf("expect decode error with status 0, got %v", err)
	}
}

func TestContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(ts.URL).ListChannels(ctx, &message.ListChannelsRequest{})
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Status != 0 {
		t.Fatalf("expect transport error, got %v", err)
	}
}

func TestConcurrentCalls(t *testing.T) {
	ts, _ := startServer(t)
	cli := NewClient(hostOf(ts))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			resp, err := cli.OnchainReceive(ctx, &message.OnchainReceiveRequest{})
			if err != nil || !strings.HasPrefix(resp.Address, "bcrt1") {
				errs <- fmt.Errorf("OnchainReceive: %v %+v", err, resp)
			}
		}()
		go func(i int) {
			defer wg.Done()
			desc := fmt.Sprintf("invoice-%d", i)
			resp, err := cli.Bolt11Receive(ctx, &message.Bolt11ReceiveRequest{AmountMsat: u64(uint64(1000 + i)), Description: desc})
			if err != nil || !strings.HasPrefix(resp.Invoice, fmt.Sprintf("lnbcrt%dp1", 1000+i)) {
				errs <- fmt.Errorf("Bolt11Receive %d: %v %+v", i, err, resp)
			}
		}(i)
		go func() {
			defer wg.Done()
			resp, err := cli.Bolt12Receive(ctx, &message.Bolt12ReceiveRequest{})
			if err != nil || !strings.HasPrefix(resp.Offer, "lno1") {
				errs <- fmt.Errorf("Bolt12Receive: %v %+v", err, resp)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestDiscovery(t *testing.T) {
	ts1, _ := startServer(t)
	ts2, _ := startServer(t)

	reg := discovery.NewMemoryRegistry()
	ctx := context.Background()
	reg.Register(ctx, "node-rpc", discovery.Instance{Addr: hostOf(ts1), Weight: 1}, 10)

	cli := NewClient("", WithDiscovery(reg, &loadbalance.RoundRobinBalancer{}, "node-rpc"))
	defer cli.Close()

	if _, err := cli.ListChannels(ctx, &message.ListChannelsRequest{}); err != nil {
		t.Fatal(err)
	}

	// 第一台下线、第二台上线后，watch 会更新缓存
	reg.Register(ctx, "node-rpc", discovery.Instance{Addr: hostOf(ts2), Weight: 1}, 10)
	reg.Deregister(ctx, "node-rpc", hostOf(ts1))
	ts1.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := cli.ListChannels(ctx, &message.ListChannelsRequest{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("client never moved to the new server: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDiscoveryNoInstances(t *testing.T) {
	cli := NewClient("", WithDiscovery(discovery.NewMemoryRegistry(), nil, "node-rpc"))
	defer cli.Close()

	_, err := cli.ListChannels(context.Background(), &message.ListChannelsRequest{})
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Status != 0 {
		t.Fatalf("expect status-0 error, got %v", err)
	}
}

func TestLargeResponse(t *testing.T) {
	big := &message.ListChannelsResponse{}
	for i := 0; i < 30_000; i++ {
		big.Channels = append(big.Channels, &message.Channel{
			ChannelID:          strings.Repeat("c", 64),
			CounterpartyNodeID: testPubkey,
			UserChannelID:      fmt.Sprint(i),
			ChannelValueSats:   100_000,
			IsUsable:           true,
		})
	}
	body := big.Marshal()
	if len(body) <= 4<<20 {
		t.Fatalf("fixture too small: %d bytes", len(body))
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer ts.Close()

	// 默认不限制响应大小
	resp, err := NewClient(ts.URL).ListChannels(context.Background(), &message.ListChannelsRequest{})
	if err != nil {
		t.Fatalf("expect large response to decode, got %v", err)
	}
	if len(resp.Channels) != 30_000 || resp.Channels[29_999].UserChannelID != "29999" {
		t.Fatalf("unexpected decode: %d channels", len(resp.Channels))
	}

	_, err = NewClient(ts.URL, WithMaxResponseSize(1<<20)).ListChannels(context.Background(), &message.ListChannelsRequest{})
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Status != 0 {
		t.Fatalf("expect status-0 error above the configured limit, got %v", err)
	}
}
