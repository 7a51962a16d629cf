package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide structured logger.
var Log = logrus.New()

// Init configures the logger: JSON output on stdout, level taken from LOG_LEVEL (default info).
func Init() {
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}

// SetLevel overrides the level once configuration has been loaded.
func SetLevel(name string) {
	if level, err := logrus.ParseLevel(name); err == nil {
		Log.SetLevel(level)
	}
}
