package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"authgate/internal/config"
)

func New(environment string) zerolog.Logger {
	return NewWithWriter(environment, os.Stdout)
}

// NewWithWriter logs JSON lines at info level in prod-like environments and
// colored console output at debug level everywhere else.
func NewWithWriter(environment string, out io.Writer) zerolog.Logger {
	level := zerolog.DebugLevel
	if config.IsProdLike(environment) {
		level = zerolog.InfoLevel
	} else {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "authgate").
		Str("env", environment).
		Logger()
}
