// Package logging builds the zap loggers used across factkeeper.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	Level       string // debug, info, warn, error
	Format      string // json or console
	Environment string
	Verbose     bool // forces debug
}

// New builds a logger. JSON output uses the production config, console
// output the development config.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(opts.Format, "console") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stderr"}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if opts.Environment != "" {
		logger = logger.With(zap.String("environment", opts.Environment))
	}
	return logger, nil
}

// Tee returns a logger writing to base and to a fresh Recorder.
// The recorder captures every level so the processing log is complete
// even when base filters debug output.
func Tee(base *zap.Logger) (*zap.Logger, *Recorder) {
	if base == nil {
		base = zap.NewNop()
	}
	rec := NewRecorder(zapcore.DebugLevel)
	logger := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, rec)
	}))
	return logger, rec
}
