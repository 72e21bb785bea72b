package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty" // Check if running in a terminal.
	"go.uber.org/zap"            // Logging.
	"go.uber.org/zap/zapcore"
)

// LoggingFlags represents a set of flags for setting up logging.
type LoggingFlags struct {
	LogLevel zapcore.Level // Logging level.
}

// NewLoggingFlags returns a new LoggingFlags.
func NewLoggingFlags(app Flagger, logLevel string) *LoggingFlags {
	var f LoggingFlags

	levels := []zapcore.Level{
		zap.DebugLevel,
		zap.InfoLevel,
		zap.WarnLevel,
		zap.ErrorLevel,
		zap.DPanicLevel,
		zap.PanicLevel,
		zap.FatalLevel,
	}
	hints := make([]string, 0, 2*len(levels))
	for _, l := range levels {
		hints = append(hints, l.CapitalString(), l.String())
	}

	app.Flag("log.level", "Set logging level.").
		HintOptions(hints...).
		Default(logLevel).
		SetValue(&f.LogLevel)

	return &f
}

// NewLogger returns a new logger based on the LogLevel flag.
// Both zap configs write to stderr, so stdout stays free for output.
func (f *LoggingFlags) NewLogger() *zap.Logger {
	var conf zap.Config

	// If stderr is a terminal, use the zap default
	// dev logging config, else prod logging config.
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		conf = zap.NewDevelopmentConfig()
	} else {
		conf = zap.NewProductionConfig()
	}

	conf.Level.SetLevel(f.LogLevel)

	logger, err := conf.Build()
	if err != nil {
		panic(fmt.Sprintf("error building logger: %s", err))
	}

	return logger
}

// SetGlobalLogger both sets the zap global logger, and
// redirects the output from the standard library's
// package-global logger to the supplied logger at the debug level.
// It returns a teardown function to reset the global loggers.
func SetGlobalLogger(logger *zap.Logger) func() {
	return SetGlobalLoggerAt(logger, zap.DebugLevel)
}

// SetGlobalLoggerAt is like SetGlobalLogger, but redirects the
// standard library's logger at the specified level.
func SetGlobalLoggerAt(logger *zap.Logger, stdLogLevel zapcore.Level) func() {
	undoGlobals := zap.ReplaceGlobals(logger)
	undoStdLog, err := zap.RedirectStdLogAt(logger, stdLogLevel)
	if err != nil {
		panic(err)
	}
	return func() {
		undoStdLog()
		undoGlobals()
	}
}
