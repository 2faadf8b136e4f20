package config

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger builds the process logger: human-readable console output plus
// a JSON pipeline.log under the data directory, and installs it as the
// zap global so packages can use zap.S().
func InitLogger(cfg *Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Server.Env == "development" {
		level = zapcore.DebugLevel
	}

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level),
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err == nil {
		logFile, err := os.OpenFile(
			filepath.Join(cfg.Storage.DataDir, "pipeline.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644,
		)
		if err == nil {
			fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
			cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.Lock(logFile), level))
		}
	}

	logger := zap.New(zapcore.NewTee(cores...))
	zap.ReplaceGlobals(logger)
	return logger, nil
}
