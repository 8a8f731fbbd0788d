package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"BLOGCORE_DB_PATH" envDefault:"./data/blogcore.db"`
	ServerHost string `env:"BLOGCORE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BLOGCORE_SERVER_PORT" envDefault:"3000"`
	Env        string `env:"BLOGCORE_ENV" envDefault:"development"`

	// Auth configuration
	SigningKey      string `env:"BLOGCORE_SIGNING_KEY,required"`
	TokenExpiration int    `env:"BLOGCORE_TOKEN_EXPIRATION" envDefault:"2160"` // hours
}

// MinSigningKeyLength is the minimum required length for the token signing key.
const MinSigningKeyLength = 32

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// GetSigningKey is the key used to sign session tokens.
func (c Config) GetSigningKey() string {
	return c.SigningKey
}

// GetTokenExpiration is the token lifetime in hours.
func (c Config) GetTokenExpiration() int {
	return c.TokenExpiration
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SigningKey) < MinSigningKeyLength {
		return nil, fmt.Errorf("BLOGCORE_SIGNING_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSigningKeyLength, len(cfg.SigningKey))
	}

	if cfg.TokenExpiration <= 0 {
		return nil, fmt.Errorf("BLOGCORE_TOKEN_EXPIRATION must be positive, got %d", cfg.TokenExpiration)
	}

	return cfg, nil
}
