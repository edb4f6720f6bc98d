package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger writing to both the log file and stderr.
func NewLogger(level, logFile string) (*zap.Logger, error) {
	return NewLoggerWithStderr(level, logFile, true)
}

// NewLoggerWithStderr creates a zap logger. With includeStderr=false, logs go
// only to the file, which keeps interactive command output clean.
func NewLoggerWithStderr(level, logFile string, includeStderr bool) (*zap.Logger, error) {
	parsed, off := parseLevel(level)
	if off {
		return zap.NewNop(), nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(file),
			parsed,
		))
	}

	if includeStderr {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.Lock(os.Stderr),
			parsed,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func parseLevel(level string) (zapcore.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, false
	case "info":
		return zapcore.InfoLevel, false
	case "warn":
		return zapcore.WarnLevel, false
	case "error":
		return zapcore.ErrorLevel, false
	case "off":
		return zapcore.InvalidLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

type loggerContextKey struct{}

// ContextWithLogger adds the logger to the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext retrieves the logger from the context, if present.
func LoggerFromContext(ctx context.Context) (*zap.Logger, bool) {
	logger, ok := ctx.Value(loggerContextKey{}).(*zap.Logger)
	return logger, ok
}
