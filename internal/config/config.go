package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all API configuration. Values come from an optional YAML
// file and are then overridden by environment variables.
type Config struct {
	Host               string   `yaml:"host"`                 // HTTP bind host
	Port               int      `yaml:"port"`                 // HTTP port
	GRPCAddr           string   `yaml:"grpc_addr"`            // gRPC health listen address, empty disables
	Environment        string   `yaml:"environment"`          // "development" switches to console logs
	LogLevel           string   `yaml:"log_level"`            // zap level name
	MetricsEnabled     bool     `yaml:"metrics_enabled"`      // serve /metrics
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"` // CORS origins
	SeedFile           string   `yaml:"seed_file"`            // YAML records loaded at startup
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               8000,
		GRPCAddr:           ":50051",
		Environment:        "production",
		LogLevel:           "info",
		MetricsEnabled:     true,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load reads path (if non-empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Host = envOrDefault("HOST", c.Host)
	c.GRPCAddr = envOrDefaultAllowEmpty("GRPC_ADDR", c.GRPCAddr)
	c.Environment = envOrDefault("ENVIRONMENT", c.Environment)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.SeedFile = envOrDefault("SEED_FILE", c.SeedFile)

	port, err := envOrDefaultInt("FASTAPIPORT", c.Port)
	if err != nil {
		return err
	}
	c.Port = port

	metrics, err := envOrDefaultBool("METRICS_ENABLED", c.MetricsEnabled)
	if err != nil {
		return err
	}
	c.MetricsEnabled = metrics

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSAllowedOrigins = origins
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}
	return nil
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultAllowEmpty lets an explicitly empty variable disable a
// feature.
func envOrDefaultAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envOrDefaultBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
