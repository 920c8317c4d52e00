// Package config loads server settings from PROMPTDIAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/promptdial/promptdial/internal/registry/auth"
	"github.com/promptdial/promptdial/internal/registry/llm"
	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/internal/registry/service"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "PROMPTDIAL_"

// Blob backends.
const (
	BlobBackendFile = "file"
	BlobBackendGCS  = "gcs"
)

// Config holds the server configuration.
type Config struct {
	ServerAddress      string   `env:"SERVER_ADDRESS" envDefault:":8080"`
	KVURL              string   `env:"KV_URL" envDefault:"memory://"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	EnableMCP          bool     `env:"ENABLE_MCP" envDefault:"true"`
	EnableMetrics      bool     `env:"ENABLE_METRICS" envDefault:"true"`

	BlobBackend string `env:"BLOB_BACKEND" envDefault:"file"`
	BlobDir     string `env:"BLOB_DIR" envDefault:"./data/blobs"`
	BlobBaseURL string `env:"BLOB_BASE_URL" envDefault:"/blobs"`
	GCSBucket   string `env:"GCS_BUCKET"`
	GCSPrefix   string `env:"GCS_PREFIX"`

	Service service.Config
	LLM     llm.Config
	OTP     auth.OTPConfig
	Session auth.SessionConfig
	SMTP    auth.SMTPConfig
	Logging logging.EventLoggingConfig
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
