// Package logger builds the application logger from configuration.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/contact-site/backend/internal/config"
)

// New returns a logrus logger writing to stdout at the configured level and
// format.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	return newWithOutput(cfg, os.Stdout)
}

func newWithOutput(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(out)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL value %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return l, nil
}

// RedirectStdlib sends output of the standard log package through l, so
// net/http server errors land in the same stream.
func RedirectStdlib(l *logrus.Logger) {
	log.SetFlags(0)
	log.SetOutput(l.WriterLevel(logrus.WarnLevel))
}
