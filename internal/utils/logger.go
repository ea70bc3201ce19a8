// Package utils provides logging, number formatting and CSV profile parsing.
package utils

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log entry.
const ServiceName = "nomad-visa-engine"

// Logger is the global logger instance.
var Logger *zap.Logger

var loggerMu sync.Mutex

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// InitLogger initializes the global logger. Lambda gets JSON output on
// stdout, everything else the colored development encoder.
func InitLogger(level string) error {
	zapLevel := ParseLevel(level)

	var config zap.Config
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.InitialFields = map[string]interface{}{"service": ServiceName}
	if stage := os.Getenv("STAGE"); stage != "" {
		config.InitialFields["stage"] = stage
	}

	built, err := config.Build()
	if err != nil {
		return err
	}

	SetLogger(built)
	return nil
}

// SetLogger replaces the global logger, e.g. with zap.NewNop() in tests.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	Logger = l
}

// GetLogger returns the global logger, initializing if necessary.
func GetLogger() *zap.Logger {
	loggerMu.Lock()
	l := Logger
	loggerMu.Unlock()
	if l != nil {
		return l
	}

	if err := InitLogger("info"); err != nil {
		SetLogger(zap.NewNop())
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return Logger
}

// WithRequestID returns the global logger tagged with a request id.
func WithRequestID(id string) *zap.Logger {
	return GetLogger().With(zap.String("request_id", id))
}

// Sync flushes any buffered log entries.
func Sync() {
	loggerMu.Lock()
	l := Logger
	loggerMu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}
