// Package logging builds the shared slog logger: a text handler over stderr
// mirrored into a dated file under the log directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ormgen/ormgen/internal/config"
)

// Setup opens today's log file under directory and returns a logger writing
// to both it and stderr. Unrecognized level strings fall back to info.
func Setup(level, directory string) (*slog.Logger, error) {
	if directory == "" {
		directory = "~/.ormgen/logs/"
	}
	directory = config.ExpandHome(directory)

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(directory, "ormgen-"+time.Now().Format("2006-01-02")+".log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	log := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, file), &slog.HandlerOptions{
		Level: lvl,
	}))
	log.Debug("log file opened", "path", logPath)
	return log, nil
}
