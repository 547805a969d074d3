// Package logging builds the process logger from the log section of the
// config.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-arcade/internal/config"
)

// New logs colored text in development and JSON in production to out.
// With cfg.Log.File set, entries are also written as JSON to a rotated
// file.
func New(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	if cfg.Production() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   out == os.Stderr || out == os.Stdout,
			FullTimestamp: true,
		})
	}

	if cfg.Log.File == "" {
		return log, nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.AddHook(hook)

	return log, nil
}
