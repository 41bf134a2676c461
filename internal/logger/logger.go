// Package logger builds the application's logrus logger.  Entries are
// JSON formatted and written to stdout and, when a file is configured,
// to a size-rotated log file.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iliyamo/hotel-reservation/internal/config"
)

// New returns a logger configured from cfg and a closer for the
// rotating file.  The closer is a no-op when file output is disabled.
func New(cfg config.LogConfig) (*logrus.Logger, io.Closer) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return log, nopCloser{}
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	return log, file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
