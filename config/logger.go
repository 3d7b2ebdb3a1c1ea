package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Prepare returns the configured zap logger for the program. Level
// "none" yields a no-op logger; "normal" logs Info and above; "debug"
// everything. Errors go to stderr, the rest to stdout.
func (conf *LoggingConfig) Prepare() (*zap.Logger, error) {
	if conf.Level == "none" {
		return zap.NewNop(), nil
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(ec)

	low := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		min := zapcore.InfoLevel
		if conf.Level == "debug" {
			min = zapcore.DebugLevel
		}
		return lvl >= min && lvl < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), low),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), high),
	)
	return zap.New(core), nil
}
