package sntp

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the console logger used by the commands. DEBUG=1 or
// debug selects debug output, INFO=1 info, anything else warnings only.
func NewLogger(debug bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case debug || isDebug():
		level = zapcore.DebugLevel
	case isInfo():
		level = zapcore.InfoLevel
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.DisableStacktrace = true
	return config.Build()
}

func isInfo() bool {
	return os.Getenv("INFO") == "1"
}

func isDebug() bool {
	return os.Getenv("DEBUG") == "1"
}
