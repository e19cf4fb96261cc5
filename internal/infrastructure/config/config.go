package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	BaseURL     string        `env:"COURIER_API_BASE_URL, default=https://hunter-xpress-backend.vercel.app/api"`
	StateDir    string        `env:"COURIER_STATE_DIR"`
	HTTPTimeout time.Duration `env:"COURIER_HTTP_TIMEOUT, default=15s"`
	LogLevel    string        `env:"LOG_LEVEL,  default=info"`
	LogPretty   bool          `env:"LOG_PRETTY, default=true"`

	Stub StubConfig
}

// StubConfig configures the local stand-in backend (cmd/stubapi).
type StubConfig struct {
	Addr      string        `env:"STUB_ADDR,       default=:8080"`
	JWTSecret string        `env:"STUB_JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"STUB_TOKEN_TTL,  default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
// StateDir falls back to ~/.courierctl when unset.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".courierctl")
	}

	return &cfg, nil
}
