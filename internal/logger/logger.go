// Package logger builds the zap logger used across the client.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console zap logger writing to stderr at debug level when
// debug is set, and a no-op logger otherwise. CLI output on stdout stays
// clean either way.
func New(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
