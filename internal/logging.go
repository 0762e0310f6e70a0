package internal

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sharedLogger *zap.SugaredLogger

// InitLogging sets up the shared process logger. Level comes from LOG_LEVEL
// when set.
func InitLogging() {
	if sharedLogger != nil {
		return
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		MessageKey:     "M",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.0000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zapcore.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsedLevel, err := zapcore.ParseLevel(lvl); err == nil {
			level = parsedLevel
		}
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	sharedLogger = zap.New(core).Sugar()
}

// Logger returns the shared logger, initializing it on first use
func Logger() *zap.SugaredLogger {
	if sharedLogger == nil {
		InitLogging()
	}
	return sharedLogger
}

// SyncLogging flushes buffered log entries
func SyncLogging() {
	if sharedLogger != nil {
		_ = sharedLogger.Sync()
	}
}
