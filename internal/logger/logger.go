// Package logger wraps zap construction for the command-line tool and the
// HTTP service.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger holds the process logger. Log is a no-op logger until Init
// succeeds, so it is always safe to use.
type Logger struct {
	Log *zap.Logger
	// Encoding is "json" or "console".
	Encoding string
}

// New returns a Logger with a no-op zap logger and JSON encoding.
func New() *Logger {
	return &Logger{Log: zap.NewNop(), Encoding: "json"}
}

// Init builds a production logger writing to stderr at the named level
// ("debug", "Info", "WARN", ...).
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = l.Encoding
	if l.Encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.DisableStacktrace = true
	}
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = zl
	return nil
}
