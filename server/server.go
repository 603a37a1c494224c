// Package server serves node-rpc operations over HTTP.
//
// Request processing pipeline:
//
//	POST /{path} → lookup bound operation (400 if none)
//	  → bounded body read (413 if too large)
//	  → Codec.Decode into a fresh request (400 if malformed)
//	  → Middleware Chain → bound handler(node, request)
//	  → Codec.Encode response (200) or error text (500, or the middleware's status)
//
// net/http runs every request on its own goroutine; the only state handlers
// share is the node.Node, which is safe for concurrent use.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"node-rpc/codec"
	"node-rpc/discovery"
	"node-rpc/middleware"
	"node-rpc/node"
	"node-rpc/protocol"
	"node-rpc/registry"
)

// HandlerFunc runs one operation against the node.
type HandlerFunc func(n node.Node, req codec.Message) (codec.Message, error)

// Bind adapts a typed handler to HandlerFunc. The request passed in is always
// the type the operation's NewRequest returns.
func Bind[Req, Resp codec.Message](fn func(node.Node, Req) (Resp, error)) HandlerFunc {
	return func(n node.Node, req codec.Message) (codec.Message, error) {
		typed, ok := req.(Req)
		if !ok {
			return nil, fmt.Errorf("server: unexpected request type %T", req)
		}
		resp, err := fn(n, typed)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
}

type route struct {
	op      *registry.Operation
	handler HandlerFunc
}

// statusCoder is implemented by errors that choose their own response status.
type statusCoder interface {
	HTTPStatus() int
}

// Server dispatches calls to the handlers bound to registered operations.
type Server struct {
	node        node.Node
	registry    *registry.Registry
	routes      map[string]*route       // Path → bound operation
	middlewares []middleware.Middleware // Applied in the order they are added
	handler     middleware.HandlerFunc  // middleware(middleware(...(dispatch)))
	chainOnce   sync.Once
	maxBodySize int64
	logger      *zap.Logger

	discovery     discovery.Registry // nil if not announcing
	service       string
	advertiseAddr string // Routable address announced, unlike a ":8080" listen address
	ttl           int64

	mu         sync.Mutex
	httpServer *http.Server
	shutdown   atomic.Bool // Set before closing so Serve reports a clean exit
}

type Option func(*Server)

// WithRegistry replaces the default operation table.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithMaxBodySize caps request bodies; larger ones get 413.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) { s.maxBodySize = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithDiscovery announces advertiseAddr under service while serving.
func WithDiscovery(reg discovery.Registry, service, advertiseAddr string, ttl int64) Option {
	return func(s *Server) {
		s.discovery = reg
		s.service = service
		s.advertiseAddr = advertiseAddr
		s.ttl = ttl
	}
}

// NewServer creates a server for n with no operations bound yet.
func NewServer(n node.Node, opts ...Option) *Server {
	s := &Server{
		node:        n,
		registry:    registry.Default(),
		routes:      make(map[string]*route),
		maxBodySize: protocol.DefaultMaxBodySize,
		logger:      zap.NewNop(),
		ttl:         10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle binds h to the registered operation at path. Bind every operation
// before serving; the route table is not locked.
func (svr *Server) Handle(path string, h HandlerFunc) error {
	op, ok := svr.registry.Lookup(path)
	if !ok {
		return fmt.Errorf("server: no operation registered at %q", path)
	}
	if _, dup := svr.routes[path]; dup {
		return fmt.Errorf("server: operation %s already bound", op.Name)
	}
	svr.routes[path] = &route{op: op, handler: h}
	return nil
}

// Use registers a middleware. The chain is built on the first request, so
// middlewares added after that are ignored.
func (svr *Server) Use(mw middleware.Middleware) {
	svr.middlewares = append(svr.middlewares, mw)
}

func (svr *Server) chain() middleware.HandlerFunc {
	svr.chainOnce.Do(func() {
		svr.handler = middleware.Chain(svr.middlewares...)(svr.dispatch)
	})
	return svr.handler
}

// dispatch is the innermost handler, wrapped by the middleware chain.
func (svr *Server) dispatch(ctx context.Context, call *middleware.Call) (codec.Message, error) {
	rt := svr.routes[call.Path]
	return rt.handler(svr.node, call.Request)
}

func (svr *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Match the path as sent; percent-escapes are not decoded.
	rawPath := r.URL.EscapedPath()
	rt, ok := svr.routes[protocol.PathOf(rawPath)]
	if !ok {
		writeText(w, http.StatusBadRequest, "Unknown request: "+rawPath)
		return
	}

	if r.ContentLength > svr.maxBodySize {
		writeText(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	body, err := protocol.ReadBody(r.Body, svr.maxBodySize)
	if err != nil {
		if errors.Is(err, protocol.ErrBodyTooLarge) {
			writeText(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeText(w, http.StatusBadRequest, "Error reading request")
		return
	}

	c := codec.ForContentType(r.Header.Get("Content-Type"))
	req := rt.op.NewRequest()
	if err := c.Decode(body, req); err != nil {
		svr.logger.Debug("malformed request", zap.String("operation", rt.op.Name), zap.Error(err))
		writeText(w, http.StatusBadRequest, "Error parsing request")
		return
	}

	resp, err := svr.chain()(r.Context(), &middleware.Call{
		Operation: rt.op.Name,
		Path:      rt.op.Path,
		Request:   req,
	})
	if err != nil {
		status := http.StatusInternalServerError
		var sc statusCoder
		if errors.As(err, &sc) {
			status = sc.HTTPStatus()
		}
		writeText(w, status, err.Error())
		return
	}

	if isNilMessage(resp) {
		svr.logger.Error("handler returned no response", zap.String("operation", rt.op.Name))
		writeText(w, http.StatusInternalServerError, "Handler returned no response")
		return
	}

	out, err := c.Encode(resp)
	if err != nil {
		svr.logger.Error("encode response", zap.String("operation", rt.op.Name), zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Error encoding response")
		return
	}
	w.Header().Set("Content-Type", c.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// isNilMessage reports a nil interface or a typed nil pointer.
func isNilMessage(m codec.Message) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

// Serve listens on address and serves until Shutdown.
func (svr *Server) Serve(network, address string) error {
	listener, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	return svr.ServeListener(listener)
}

// ServeListener serves on an existing listener, announcing the server first
// when discovery is configured. It returns nil after Shutdown.
func (svr *Server) ServeListener(listener net.Listener) error {
	// Build the middleware chain once at startup, not per request
	svr.chain()

	hs := &http.Server{
		Handler:           svr,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(svr.logger.Named("http")),
	}
	svr.mu.Lock()
	svr.httpServer = hs
	svr.mu.Unlock()

	if svr.discovery != nil {
		err := svr.discovery.Register(context.Background(), svr.service, discovery.Instance{
			Addr:   svr.advertiseAddr,
			Weight: 1,
		}, svr.ttl)
		if err != nil {
			listener.Close()
			return fmt.Errorf("server: announce %s: %w", svr.advertiseAddr, err)
		}
	}

	svr.logger.Info("serving",
		zap.String("addr", listener.Addr().String()),
		zap.Int("operations", len(svr.routes)))

	err := hs.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) && svr.shutdown.Load() {
		return nil
	}
	return err
}

// Shutdown performs graceful shutdown:
//  1. Deregister from discovery, so clients stop routing here
//  2. Set the shutdown flag, so Serve returns nil
//  3. Stop accepting and wait for in-flight calls until ctx is done
func (svr *Server) Shutdown(ctx context.Context) error {
	if svr.discovery != nil {
		if err := svr.discovery.Deregister(ctx, svr.service, svr.advertiseAddr); err != nil {
			svr.logger.Warn("deregister failed", zap.Error(err))
		}
	}

	svr.shutdown.Store(true)

	svr.mu.Lock()
	hs := svr.httpServer
	svr.mu.Unlock()
	if hs == nil {
		return nil
	}
	return hs.Shutdown(ctx)
}
