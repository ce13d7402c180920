// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/megantax/pkg/config"
)

// LogFile is the name of the log file created in the log directory.
const LogFile = "megantax.log"

// Init initializes the global slog logger with the given configuration.
// Creates log file in logDir if destination is "file".
// If append is true, appends to existing log file; otherwise creates fresh file.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	writer, err := destination(logDir, cfg.Destination, append)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(newHandler(writer, cfg)))
	return nil
}

func destination(logDir, dest string, append bool) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		var file *os.File
		var err error

		if append {
			// Append to existing log file (preserve previous logs)
			file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		} else {
			// Create fresh log file (truncate if exists)
			file, err = os.Create(logPath)
		}

		if err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		return file, nil
	default:
		return os.Stderr, nil
	}
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(w, opts)
	default:
		// Default to JSON format for any unrecognized format
		return slog.NewJSONHandler(w, opts)
	}
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
