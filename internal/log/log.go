// Package log is a thin facade over zap. All call sites pass a context
// first so request-scoped fields attached with WithFields travel with
// the entry without every caller threading a logger around.
package log

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxFieldsKey struct{}

// Logger wraps a zap.Logger.
type Logger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

var (
	globalMu sync.RWMutex
	global   = mustNew(DefaultConfig())
)

// SetGlobalConfig rebuilds the global logger from cfg.
func SetGlobalConfig(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	global = mustNew(cfg)
}

// GetGlobalLogger returns the current global logger.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return global
}

func mustNew(cfg Config) *Logger {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := zapcore.Lock(os.Stderr)

	cores := []zapcore.Core{zapcore.NewCore(encoder, sink, level)}

	if cfg.File.Path != "" {
		rotating := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
		})
		jsonCfg := zap.NewProductionEncoderConfig()
		jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), rotating, level))
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2))
	if cfg.Name != "" {
		zl = zl.Named(cfg.Name)
	}

	return &Logger{zl: zl, level: level}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithFields returns a context carrying extra fields for every entry
// logged with it.
func WithFields(ctx context.Context, fields ...Field) context.Context {
	existing, _ := ctx.Value(ctxFieldsKey{}).([]Field)

	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)

	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

func fromContext(ctx context.Context, fields []Field) []Field {
	scoped, _ := ctx.Value(ctxFieldsKey{}).([]Field)
	if len(scoped) == 0 {
		return fields
	}

	merged := make([]Field, 0, len(scoped)+len(fields))
	merged = append(merged, scoped...)
	merged = append(merged, fields...)

	return merged
}

// DebugEnabled reports whether debug entries would be emitted. Use it to
// guard expensive field construction.
func DebugEnabled(ctx context.Context) bool {
	return GetGlobalLogger().level.Enabled(zapcore.DebugLevel)
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().zl.Debug(msg, fromContext(ctx, fields)...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().zl.Info(msg, fromContext(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().zl.Warn(msg, fromContext(ctx, fields)...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().zl.Error(msg, fromContext(ctx, fields)...)
}

// Sync flushes buffered entries.
func Sync() error {
	return GetGlobalLogger().zl.Sync()
}
