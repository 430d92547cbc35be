package main

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// parseLogLevel reads LOG_LEVEL (debug, info, warn, error). Default: warn.
func parseLogLevel() logrus.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// newLogger writes text logs with full timestamps to w.
// verbose forces debug level.
func newLogger(w io.Writer, verbose, quiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := parseLogLevel()
	switch {
	case verbose:
		level = logrus.DebugLevel
	case quiet && level > logrus.ErrorLevel:
		level = logrus.ErrorLevel
	}
	logger.SetLevel(level)
	return logger
}
