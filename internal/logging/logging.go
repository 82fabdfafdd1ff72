// Package logging builds the zap logger used by the batch converter.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing every level to logFile (when not nil) and
// warnings and errors to stderr. With debug enabled, stderr gets everything.
func New(stderr io.Writer, logFile io.Writer, debug bool) *zap.SugaredLogger {
	var cores []zapcore.Core

	if logFile != nil {
		cores = append(cores, fileCore(logFile))
	}
	if stderr != nil {
		cores = append(cores, stderrCore(stderr, debug))
	}

	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func fileCore(w io.Writer) zapcore.Core {
	// Log time, level, msg
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05,000"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " - ",
	})
	return zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)
}

func stderrCore(w io.Writer, debug bool) zapcore.Core {
	levelKey := ""
	level := zapcore.WarnLevel
	if debug {
		levelKey = "level"
		level = zapcore.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         levelKey,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: "\t",
	})
	return zapcore.NewCore(encoder, zapcore.AddSync(w), level)
}
