package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// GetLogger returns the process-wide logger, creating it with the default
// settings the first time it is called.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	})
	return logger
}

// InitLogger sets the level of the shared logger.
func InitLogger(level logrus.Level) {
	GetLogger().SetLevel(level)
}

// SetFormat switches the shared logger between "text" and "json" output.
func SetFormat(format string) {
	l := GetLogger()
	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// ParseLevel is logrus.ParseLevel with a fallback to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
