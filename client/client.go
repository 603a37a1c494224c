// Package client calls node-rpc operations on a remote server.
//
// Every method is one HTTP POST to {baseURL}/{OperationPath} with the request
// encoded by the client's codec. Nothing is retried. Any failure comes back as
// *Error, carrying the HTTP status when the server answered.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"node-rpc/codec"
	"node-rpc/discovery"
	"node-rpc/loadbalance"
	"node-rpc/protocol"
	"node-rpc/transport"
)

// Error is the single error type returned by Client methods.
type Error struct {
	// Status is the HTTP status of a non-2xx response, or 0 when no usable
	// response arrived (connection failure, undecodable body).
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return "node-rpc: " + e.Message
	}
	return fmt.Sprintf("node-rpc: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// UnknownError is the message of a failed response with an empty body.
const UnknownError = "Unknown Error"

type Client struct {
	baseURL    string
	httpClient *http.Client
	codec      codec.Codec
	resolver   *resolver // nil unless WithDiscovery is used
	balancer   loadbalance.Balancer
	maxResp    int64 // 0 reads responses of any size
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCodec selects the request encoding; the default is binary.
func WithCodec(cd codec.Codec) Option {
	return func(c *Client) { c.codec = cd }
}

// WithMaxResponseSize refuses response bodies larger than n bytes. Zero, the
// default, leaves responses unbounded.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) { c.maxResp = n }
}

// WithDiscovery makes the client look up servers of service in reg and pick
// one with bal for every call, instead of using the base URL.
func WithDiscovery(reg discovery.Registry, bal loadbalance.Balancer, service string) Option {
	return func(c *Client) {
		c.resolver = &resolver{reg: reg, service: service}
		c.balancer = bal
	}
}

// NewClient creates a client for the server at baseURL ("host:port" or a full
// http(s) URL). The client is safe for concurrent use.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		codec:   codec.GetCodec(codec.CodecTypeBinary),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = transport.NewHTTPClient(transport.DefaultOptions())
	}
	if c.resolver != nil && c.balancer == nil {
		c.balancer = &loadbalance.RoundRobinBalancer{}
	}
	return c
}

// Close stops watching discovery. The client must not be used afterwards.
func (c *Client) Close() error {
	if c.resolver != nil {
		c.resolver.close()
	}
	return nil
}

func (c *Client) target(ctx context.Context) (string, error) {
	if c.resolver == nil {
		return c.baseURL, nil
	}
	instances, err := c.resolver.resolve(ctx)
	if err != nil {
		return "", err
	}
	inst, err := c.balancer.Pick(instances)
	if err != nil {
		return "", err
	}
	return inst.Addr, nil
}

// post sends req to path and decodes a successful reply into resp.
func (c *Client) post(ctx context.Context, path string, req, resp codec.Message) error {
	base, err := c.target(ctx)
	if err != nil {
		return &Error{Message: err.Error()}
	}

	body, err := c.codec.Encode(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("encode request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, protocol.URL(base, path), bytes.NewReader(body))
	if err != nil {
		return &Error{Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", c.codec.ContentType())

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer httpResp.Body.Close()

	data, err := c.readResponse(httpResp.Body)
	if err != nil {
		return &Error{Status: failedStatus(httpResp.StatusCode), Message: fmt.Sprintf("read response: %v", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = UnknownError
		}
		return &Error{Status: httpResp.StatusCode, Message: msg}
	}

	if err := c.codec.Decode(data, resp); err != nil {
		return &Error{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func (c *Client) readResponse(r io.Reader) ([]byte, error) {
	if c.maxResp <= 0 {
		return io.ReadAll(r)
	}
	return protocol.ReadBody(r, c.maxResp)
}

// failedStatus keeps a non-2xx status for read failures; a 2xx becomes 0.
func failedStatus(status int) int {
	if status >= 200 && status <= 299 {
		return 0
	}
	return status
}

// resolver caches the discovered instances of one service and keeps the cache
// current with a watch started on first use.
type resolver struct {
	reg     discovery.Registry
	service string

	mu        sync.Mutex
	instances []discovery.Instance
	cancel    context.CancelFunc
}

func (r *resolver) resolve(ctx context.Context) ([]discovery.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel == nil {
		wctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		go r.watch(r.reg.Watch(wctx, r.service))
	}
	if len(r.instances) > 0 {
		return r.instances, nil
	}

	instances, err := r.reg.Discover(ctx, r.service)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", r.service, err)
	}
	r.instances = instances
	return instances, nil
}

func (r *resolver) watch(ch <-chan []discovery.Instance) {
	for instances := range ch {
		r.mu.Lock()
		r.instances = instances
		r.mu.Unlock()
	}
}

func (r *resolver) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}
