package infra

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every runtime knob for the service. Values come from the
// environment; anything unset falls back to a default that works for local
// development out of the box.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8080"`

	// DataDir is the root under which uploads, outputs, style references
	// and the job database live. Subdirectories are derived unless an
	// explicit override is set.
	DataDir   string `env:"DATA_DIR" envDefault:"data"`
	UploadDir string `env:"UPLOAD_DIR"`
	OutputDir string `env:"OUTPUT_DIR"`
	StyleDir  string `env:"STYLE_DIR"`
	DBPath    string `env:"DB_PATH"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	MaxImageDim    int   `env:"MAX_IMAGE_DIM" envDefault:"512"`
	JPEGQuality    int   `env:"JPEG_QUALITY" envDefault:"95"`

	// TransformConcurrency caps how many transformations run at once.
	// Zero means unbounded.
	TransformConcurrency int `env:"TRANSFORM_CONCURRENCY" envDefault:"4"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"90s"`
	ShutdownGrace    time.Duration `env:"SHUTDOWN_GRACE" envDefault:"30s"`
}

// LoadConfig reads configuration from the environment, derives the storage
// paths that were not set explicitly, and clamps values that would otherwise
// misbehave at runtime.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDerived()
	cfg.sanitize()
	return cfg, nil
}

func (c *Config) applyDerived() {
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(c.DataDir, "uploads")
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.DataDir, "outputs")
	}
	if c.StyleDir == "" {
		c.StyleDir = filepath.Join(c.DataDir, "styles")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "database", "style_transfer.db")
	}
}

func (c *Config) sanitize() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10 << 20
	}
	if c.MaxImageDim < 64 {
		c.MaxImageDim = 512
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = 95
	}
	if c.TransformConcurrency < 0 {
		c.TransformConcurrency = 0
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.HTTPReadTimeout <= 0 {
		c.HTTPReadTimeout = 30 * time.Second
	}
	if c.HTTPWriteTimeout <= 0 {
		c.HTTPWriteTimeout = 60 * time.Second
	}
	if c.HTTPIdleTimeout <= 0 {
		c.HTTPIdleTimeout = 90 * time.Second
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = 30 * time.Second
	}
}

// IsDev reports whether the service runs in development mode, which switches
// logging to a human-readable console format.
func (c *Config) IsDev() bool { return c.AppEnv != "production" }

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }
