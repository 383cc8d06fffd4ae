package logger

import (
	"log"

	"go.uber.org/zap"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var global *zap.Logger = zap.NewNop()

// SetupLogger builds the process-wide logger for the given environment
// and installs it as the package global.
func SetupLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	switch env {
	case envLocal, envDev:
		logger, err = zap.NewDevelopment()
	case envProd:
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("cannot build logger: %s", err)
	}

	global = logger

	return logger
}

// Logger returns the global logger, for middleware that needs the raw
// *zap.Logger (ginzap).
func Logger() *zap.Logger {
	return global
}

func Debug(msg string, fields ...zap.Field) {
	global.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	global.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Error(msg, fields...)
}
