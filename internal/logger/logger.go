// Package logger configures structured logging for the scanner. All
// components take a *logrus.Logger; the audit logger layers pick
// lifecycle fields on top of it.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logger at the given level. Unknown levels fall
// back to info rather than failing startup. Output format follows the
// ENVIRONMENT variable: JSON in production so log shippers can parse
// pick audit fields, colored text everywhere else.
func NewLogger(logLevel string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", logLevel).Warn("Unknown log level, using info")
	}
	log.SetLevel(level)

	if os.Getenv("ENVIRONMENT") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return log
}

// WithComponent tags a logger entry with the originating component, the
// convention every internal package uses for filterable logs.
func WithComponent(log *logrus.Logger, component string) *logrus.Entry {
	return log.WithField("component", component)
}
