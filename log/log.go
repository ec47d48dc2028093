// Package log provides the structured logger used across the indexer.
// It is built on logrus with stream-separated output so error-level
// entries go to stderr while everything else goes to stdout, which
// plays nicely with container log aggregation.
package log

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
)

// outputSplitter routes logrus output by level: errors to stderr,
// everything else to stdout.
type outputSplitter struct{}

func (outputSplitter) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte("level=error")) || bytes.Contains(p, []byte("level=fatal")) ||
		bytes.Contains(p, []byte(`"level":"error"`)) || bytes.Contains(p, []byte(`"level":"fatal"`)) {
		return os.Stderr.Write(p)
	}
	return os.Stdout.Write(p)
}

// Config configures a new logger.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
}

// New builds a logrus.Logger with the indexer's standard output routing.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(outputSplitter{})

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// Fields is a shorthand for the component/block/cursor fields every
// fatal log line in the pipeline carries.
func Fields(component string, blockNumber uint64, cursor string) logrus.Fields {
	return logrus.Fields{
		"component":    component,
		"block_number": blockNumber,
		"cursor":       cursor,
	}
}
