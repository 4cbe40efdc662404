package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger writes human-readable entries to stderr and JSON entries to a
// rotating log file.
func newLogger(level, path string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    32,
		MaxBackups: 8,
		MaxAge:     30,
		Compress:   true,
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), lvl),
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(file), lvl),
	)
	logger := zap.New(core, zap.AddCaller())

	return logger, func() {
		_ = logger.Sync()
		_ = file.Close()
	}, nil
}
