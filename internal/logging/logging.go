// Package logging builds the process-wide zap logger and bridges it into the
// Wails runtime so toolkit and application logs share one sink.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wanggangzero/RoslynPad/internal/config"
)

// New builds a logger from the environment config. Dev mode uses the
// human-readable console encoder; otherwise JSON.
func New(env *config.Env) (*zap.Logger, error) {
	level, err := ParseLevel(env.LogLevel)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if env.Dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if env.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(env.LogFile), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, env.LogFile)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// ParseLevel maps a config string to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// WailsLevel returns the Wails log level matching the environment:
// DEBUG in dev mode, INFO otherwise.
func WailsLevel(env *config.Env) logger.LogLevel {
	if env.Dev {
		return logger.DEBUG
	}
	return logger.INFO
}

// WailsLogger implements the Wails logger.Logger interface on top of zap.
type WailsLogger struct {
	log *zap.Logger
}

// NewWailsLogger wraps log for use in options.App.Logger.
func NewWailsLogger(log *zap.Logger) *WailsLogger {
	return &WailsLogger{log: log.Named("wails").WithOptions(zap.AddCallerSkip(1))}
}

func (w *WailsLogger) Print(message string)   { w.log.Info(message) }
func (w *WailsLogger) Trace(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Debug(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Info(message string)    { w.log.Info(message) }
func (w *WailsLogger) Warning(message string) { w.log.Warn(message) }
func (w *WailsLogger) Error(message string)   { w.log.Error(message) }

// Fatal logs at error level. Wails decides whether to exit; zap's Fatal
// would call os.Exit underneath it.
func (w *WailsLogger) Fatal(message string) { w.log.Error(message, zap.Bool("fatal", true)) }

var _ logger.Logger = (*WailsLogger)(nil)
