package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	logzap "go.ytsaurus.tech/library/go/core/log/zap"
)

// newStderrLogger returns console logger of the command.
//
// Debug records, such as every spark-submit output line, are written only with --verbose.
func newStderrLogger(name string) *logzap.Logger {
	level := zap.InfoLevel
	if flagVerbose {
		level = zap.DebugLevel
	}

	conf := zap.NewDevelopmentConfig()
	conf.Level = zap.NewAtomicLevelAt(level)
	conf.Sampling = nil
	conf.DisableStacktrace = true
	conf.DisableCaller = !flagVerbose
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	conf.OutputPaths = []string{"stderr"}
	conf.ErrorOutputPaths = []string{"stderr"}

	logger, err := logzap.New(conf)
	if err != nil {
		panic(err)
	}
	logger.L = logger.L.Named(name)
	return logger
}
