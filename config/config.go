// Package config loads the node-rpc server configuration.
//
// Values come from, in increasing priority: built-in defaults, a YAML file,
// NODE_RPC_* environment variables. The server binary applies its command-line
// flags on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen         string          `yaml:"listen"`
	MaxBodyBytes   int64           `yaml:"maxBodyBytes"`
	HandlerTimeout time.Duration   `yaml:"handlerTimeout"` // 0 disables the timeout middleware
	Log            LogConfig       `yaml:"log"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Metrics        MetricsConfig   `yaml:"metrics"`
	Discovery      DiscoveryConfig `yaml:"discovery"`
	Node           NodeConfig      `yaml:"node"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // Empty disables the /metrics endpoint
}

// DiscoveryConfig enables etcd announcement when EtcdEndpoints is non-empty.
type DiscoveryConfig struct {
	EtcdEndpoints []string      `yaml:"etcdEndpoints"`
	Service       string        `yaml:"service"`
	Advertise     string        `yaml:"advertise"`
	TTL           time.Duration `yaml:"ttl"`
}

// NodeConfig seeds the in-memory node.
type NodeConfig struct {
	ID          string `yaml:"id"`
	BalanceSats uint64 `yaml:"balanceSats"`
}

func Default() Config {
	return Config{
		Listen:       "127.0.0.1:3000",
		MaxBodyBytes: 4 << 20,
		Log: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RPS:   100,
			Burst: 200,
		},
		Discovery: DiscoveryConfig{
			Service: "node-rpc",
			TTL:     10 * time.Second,
		},
		Node: NodeConfig{
			BalanceSats: 10_000_000,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		// Keys absent from the file keep their default.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	ApplyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: maxBodyBytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.HandlerTimeout < 0 {
		return fmt.Errorf("config: negative handlerTimeout %s", c.HandlerTimeout)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("config: rateLimit needs positive rps and burst")
	}
	if len(c.Discovery.EtcdEndpoints) > 0 && c.Discovery.TTL < time.Second {
		return fmt.Errorf("config: discovery ttl must be at least 1s, got %s", c.Discovery.TTL)
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies NODE_RPC_* variables. Unparseable values are
// ignored.
func ApplyEnvOverrides(cfg *Config) {
	if v := env("NODE_RPC_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := env("NODE_RPC_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBodyBytes = n
		}
	}
	if v := env("NODE_RPC_HANDLER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HandlerTimeout = d
		}
	}
	if v := env("NODE_RPC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("NODE_RPC_LOG_DEVELOPMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Development = b
		}
	}
	if v := env("NODE_RPC_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.Enabled = f > 0
			cfg.RateLimit.RPS = f
		}
	}
	if v := env("NODE_RPC_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
	if v := env("NODE_RPC_ETCD_ENDPOINTS"); v != "" {
		cfg.Discovery.EtcdEndpoints = splitList(v)
	}
	if v := env("NODE_RPC_ADVERTISE"); v != "" {
		cfg.Discovery.Advertise = v
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Logger builds the process logger: JSON in production, console output in
// development.
func (c LogConfig) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
