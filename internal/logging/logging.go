// Package logging builds the zap loggers used by the server and the CLI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tim-martinez/node-form/internal/config"
	"github.com/tim-martinez/node-form/internal/gelf"
)

const serviceName = "node-form"

// New returns a production JSON logger at the configured level. verbose
// forces debug. When a GELF address is configured every entry is also sent
// there; the returned cleanup closes that connection.
func New(cfg config.LogConfig, verbose bool) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }

	if cfg.GelfAddr == "" {
		return logger, cleanup, nil
	}
	w, err := gelf.New(cfg.GelfAddr, serviceName)
	if err != nil {
		logger.Warn("GELF init failed", zap.String("addr", cfg.GelfAddr), zap.Error(err))
		return logger, cleanup, nil
	}
	gelfCore := zapcore.NewCore(zapcore.NewJSONEncoder(zc.EncoderConfig), w, zc.Level)
	logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, gelfCore)
	}))
	logger.Info("GELF logging enabled", zap.String("addr", cfg.GelfAddr))
	return logger, func() {
		_ = logger.Sync()
		_ = w.Close()
	}, nil
}

// NewFile logs JSON entries to path, for the terminal UI which owns stdout.
// An empty path discards everything.
func NewFile(path string, verbose bool) (*zap.Logger, func(), error) {
	if path == "" {
		return zap.NewNop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)
	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}
