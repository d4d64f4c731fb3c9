package logging

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	Field  = zapcore.Field
	Option = zap.Option
)

const EnvironmentEnvName = "GO_ENVIRONMENT"

type loggerCtxKey struct{}

type Logger struct {
	log *zap.Logger
}

var (
	logMu        sync.Mutex
	cachedLogger *Logger
)

// SetGlobalLogger replaces the logger returned by New. A nil logger is
// ignored.
func SetGlobalLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}

	logMu.Lock()
	defer logMu.Unlock()

	cachedLogger = &Logger{log: logger.WithOptions(zap.AddCallerSkip(1))}
}

func insideContainer() bool {
	return os.Getenv(EnvironmentEnvName) == "production"
}

func defaultLogger() *zap.Logger {
	var logCfg zap.Config
	if insideContainer() {
		logCfg = zap.NewProductionConfig()
	} else {
		logCfg = zap.NewDevelopmentConfig()
		logCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)

	logger, err := logCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		log.Panicf("could not create logger: %v", err)
	}

	return logger
}

func New() *Logger {
	logMu.Lock()
	defer logMu.Unlock()

	if cachedLogger == nil {
		cachedLogger = &Logger{log: defaultLogger()}
	}

	return cachedLogger
}

// Wrap adapts an existing zap logger without touching the global one.
func Wrap(logger *zap.Logger) *Logger {
	return &Logger{log: logger.WithOptions(zap.AddCallerSkip(1))}
}

func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return New()
	}

	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}

	return New()
}

func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

func (l Logger) Debug(msg string, fields ...Field) {
	l.log.Debug(msg, fields...)
}

func (l Logger) Info(msg string, fields ...Field) {
	l.log.Info(msg, fields...)
}

func (l Logger) Warn(msg string, fields ...Field) {
	l.log.Warn(msg, fields...)
}

func (l Logger) Error(msg string, fields ...Field) {
	l.log.Error(msg, fields...)
}

func (l Logger) DPanic(msg string, fields ...Field) {
	l.log.DPanic(msg, fields...)
}

func (l Logger) Fatal(msg string, fields ...Field) {
	l.log.Fatal(msg, fields...)
}

func (l Logger) Sync() error {
	return l.log.Sync()
}

func (l Logger) With(fields ...Field) *Logger {
	return &Logger{log: l.log.With(fields...)}
}
