// Package logging builds the logrus loggers used across the engine and CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ltc-mds-engine/internal/domain"
)

const (
	redacted       = "[REDACTED]"
	maxFieldLength = 256
)

// identifyingKeys are log field fragments that may carry resident identity.
var identifyingKeys = []string{"resident", "name", "birth", "ssn", "medicare", "medicaid"}

// New creates a logger writing to stderr so command output on stdout stays clean.
func New(cfg domain.LoggingConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput creates a logger for the given level and format.
// An unknown level falls back to info; any format other than json is text.
func NewWithOutput(cfg domain.LoggingConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	if cfg.RedactIdentifiers {
		logger.AddHook(&redactionHook{})
	}
	return logger
}

// Discard returns a logger that drops everything, for library callers
// that do not care about engine diagnostics.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// redactionHook masks identifying fields before an entry is formatted.
type redactionHook struct{}

func (h *redactionHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *redactionHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		entry.Data[key] = sanitizeField(key, value)
	}
	return nil
}

// sanitizeField redacts identifying keys and truncates very long strings.
func sanitizeField(key string, value any) any {
	lowerKey := strings.ToLower(key)
	for _, pattern := range identifyingKeys {
		if strings.Contains(lowerKey, pattern) {
			return redacted
		}
	}

	if str, ok := value.(string); ok && len(str) > maxFieldLength {
		return str[:maxFieldLength] + "... [TRUNCATED]"
	}
	return value
}
