package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a configured logrus logger. Release mode logs JSON at info
// level; anything else logs human-readable text at debug level.
func New(ginMode string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if ginMode == "release" {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
