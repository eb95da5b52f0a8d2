package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// Config holds the service configuration. Defaults point at the public
// Neo4j movies demo database.
type Config struct {
	Neo4jURI      string `env:"NEO4J_URI" envDefault:"neo4j+s://demo.neo4jlabs.com"`
	Neo4jUser     string `env:"NEO4J_USER" envDefault:"movies"`
	Neo4jPassword string `env:"NEO4J_PASSWORD" envDefault:"movies"`
	Neo4jDatabase string `env:"NEO4J_DATABASE" envDefault:"movies"`

	BindHost           string `env:"BIND_HOST" envDefault:"0.0.0.0"`
	Port               int    `env:"PORT" envDefault:"8080"`
	RequestTimeoutSecs int    `env:"REQUEST_TIMEOUT_SECS" envDefault:"20"`
	MaxConcurrency     int    `env:"MAX_CONCURRENCY" envDefault:"512"`
	MaxBodyBytes       int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	AssetsDir          string `env:"ASSETS_DIR" envDefault:"assets"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// RequestTimeout is the per-request deadline applied by the HTTP layer.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindHost, c.Port)
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Neo4jURI == "" {
		errs = append(errs, errors.New("NEO4J_URI must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.RequestTimeoutSecs <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT_SECS must be positive: %d", c.RequestTimeoutSecs))
	}
	if c.MaxConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("MAX_CONCURRENCY must be positive: %d", c.MaxConcurrency))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be positive: %d", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// NewConfig loads the configuration and logs the non-secret parts of it.
func NewConfig(log *slog.Logger) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	log.Info("configuration loaded",
		slog.String("neo4j_uri", cfg.Neo4jURI),
		slog.String("neo4j_database", cfg.Neo4jDatabase),
		slog.String("addr", cfg.Addr()),
		slog.Int("max_concurrency", cfg.MaxConcurrency),
	)
	return cfg, nil
}

// LoadEnv loads environment variables from a .env file, searching up the directory tree.
func LoadEnv() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached root
		}
		dir = parent
	}

	// Not found is fine
	return nil
}
