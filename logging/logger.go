// Package logging provides pre-configured logrus loggers, one per
// component, sharing a common format.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific
// component. It uses a singleton pattern per component to avoid
// re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(levelFromEnv())

	switch os.Getenv("PITSTOP_LOG_FORMAT") {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&TextFormatter{})
	}

	if os.Getenv("PITSTOP_LOG_CALLER") == "true" {
		logger.SetReportCaller(true)
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetLevel adjusts the level of every logger created so far and of those
// created later in this process. Used by the config watcher when the
// configured level changes.
func SetLevel(level logrus.Level) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, entry := range loggers {
		entry.Logger.SetLevel(level)
	}
	defaultLevel = level
}

var defaultLevel = logrus.InfoLevel

func levelFromEnv() logrus.Level {
	levelStr := os.Getenv("PITSTOP_LOG_LEVEL")
	if levelStr == "" {
		return defaultLevel
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return defaultLevel
	}
	return level
}
