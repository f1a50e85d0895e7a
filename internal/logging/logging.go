// Package logging sets up the application logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup creates a logrus logger writing to a timestamped file under dir.
// When extra is non-nil (e.g. stderr in non-interactive mode) output is
// duplicated there. Returns the logger and the log file path.
func Setup(dir string, extra io.Writer) (*logrus.Logger, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating log directory: %w", err)
	}

	name := fmt.Sprintf("gitship_%s.log", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("opening log file: %w", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if extra != nil {
		log.SetOutput(io.MultiWriter(f, extra))
	} else {
		log.SetOutput(f)
	}

	log.WithField("file", path).Info("logging initialized")
	return log, path, nil
}

// Discard returns a logger that drops everything. Used in tests and as a
// fallback when the log directory cannot be created.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
