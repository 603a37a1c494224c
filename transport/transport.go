// Package transport builds the HTTP client the node-rpc client sends calls on.
//
// Calls are plain HTTP/1.1 requests, so connection reuse is left to
// net/http: each server address keeps a bounded pool of idle keep-alive
// connections, and TCP keep-alive probes take the place of heartbeats.
//
//	goroutine-1 ──POST──┐
//	goroutine-2 ──POST──┼──→ idle pool for addr ──→ Server
//	goroutine-3 ──POST──┘
package transport

import (
	"net"
	"net/http"
	"time"
)

type Options struct {
	DialTimeout         time.Duration // TCP connect timeout
	KeepAlive           time.Duration // TCP keep-alive probe interval
	TLSHandshakeTimeout time.Duration
	MaxIdleConnsPerHost int           // Idle connections kept per server address
	IdleConnTimeout     time.Duration // Idle connections are closed after this long
	// Timeout bounds a whole call. Zero means none; callers set deadlines on
	// the context instead.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}
}

// NewHTTPClient returns a client with its own connection pool. Zero fields in
// opts take the DefaultOptions value, except Timeout.
func NewHTTPClient(opts Options) *http.Client {
	def := DefaultOptions()
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = def.DialTimeout
	}
	if opts.KeepAlive == 0 {
		opts.KeepAlive = def.KeepAlive
	}
	if opts.TLSHandshakeTimeout <= 0 {
		opts.TLSHandshakeTimeout = def.TLSHandshakeTimeout
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = def.MaxIdleConnsPerHost
	}
	if opts.IdleConnTimeout <= 0 {
		opts.IdleConnTimeout = def.IdleConnTimeout
	}

	dialer := &net.Dialer{
		Timeout:   opts.DialTimeout,
		KeepAlive: opts.KeepAlive,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: opts.TLSHandshakeTimeout,
			MaxIdleConns:        opts.MaxIdleConnsPerHost * 4,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     opts.IdleConnTimeout,
		},
		Timeout: opts.Timeout,
	}
}
