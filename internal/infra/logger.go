package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the project-wide structured logger type.
type Logger = zerolog.Logger

// NewLogger builds the root logger. Development mode writes colored console
// output; production writes JSON lines to stderr.
func NewLogger(cfg *Config) Logger {
	var out io.Writer = os.Stderr
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel
	if cfg.IsDev() {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "style-transfer").
		Logger()
}
