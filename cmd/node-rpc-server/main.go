// Command node-rpc-server serves the node operations of an in-memory node.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"node-rpc/api"
	"node-rpc/config"
	"node-rpc/discovery"
	"node-rpc/middleware"
	"node-rpc/node"
	"node-rpc/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	listen := flag.String("listen", "", "Listen address override, e.g. 127.0.0.1:3000")
	advertise := flag.String("advertise", "", "Address announced in etcd (defaults to the listen address)")
	etcd := flag.String("etcd", "", "Comma-separated etcd endpoints; enables discovery")
	metricsAddr := flag.String("metrics", "", "Listen address for /metrics override")
	dev := flag.Bool("dev", false, "Human-readable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("node-rpc-server: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *advertise != "" {
		cfg.Discovery.Advertise = *advertise
	}
	if *etcd != "" {
		cfg.Discovery.EtcdEndpoints = strings.Split(*etcd, ",")
	}
	if *metricsAddr != "" {
		cfg.Metrics.Listen = *metricsAddr
	}
	if *dev {
		cfg.Log.Development = true
		cfg.Log.Level = "debug"
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		log.Fatalf("node-rpc-server: logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("node-rpc-server failed", zap.Error(err))
	}
	logger.Info("node-rpc-server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	n := node.NewMemory(node.MemoryConfig{NodeID: cfg.Node.ID, BalanceSats: cfg.Node.BalanceSats})
	logger.Info("node ready", zap.String("node_id", n.NodeID()), zap.Uint64("balance_sats", n.BalanceSats()))

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMaxBodySize(cfg.MaxBodyBytes),
	}
	if len(cfg.Discovery.EtcdEndpoints) > 0 {
		reg, err := discovery.NewEtcdRegistry(cfg.Discovery.EtcdEndpoints, logger)
		if err != nil {
			return err
		}
		defer reg.Close()

		advertise := cfg.Discovery.Advertise
		if advertise == "" {
			advertise = cfg.Listen
		}
		opts = append(opts, server.WithDiscovery(reg, cfg.Discovery.Service, advertise, int64(cfg.Discovery.TTL/time.Second)))
	}

	svr := server.NewServer(n, opts...)

	// Logging → Metrics → RateLimit → Timeout → handler
	svr.Use(middleware.LoggingMiddleware(logger))
	svr.Use(middleware.NewMetrics(prometheus.DefaultRegisterer).Middleware())
	if cfg.RateLimit.Enabled {
		svr.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	if cfg.HandlerTimeout > 0 {
		svr.Use(middleware.TimeOutMiddleware(cfg.HandlerTimeout))
	}
	if err := api.Register(svr); err != nil {
		return err
	}

	if cfg.Metrics.Listen != "" {
		ms := startMetrics(cfg.Metrics.Listen, logger)
		defer ms.Close()
	}

	errc := make(chan error, 1)
	go func() { errc <- svr.Serve("tcp", cfg.Listen) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := svr.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func startMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	ms := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	logger.Info("metrics listening", zap.String("addr", addr))
	return ms
}
