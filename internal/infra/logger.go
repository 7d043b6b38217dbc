package infra

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for logs/app.log.
const (
	logDir        = "logs"
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// NewLogger builds the process-wide JSON logger: level taken from config,
// output fanned to stderr and a rotated file. Stdout stays clean for the
// rendered tables and report output.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(cfg.Logging.Level)}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		// No log directory; stderr alone still works.
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}

	return slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stderr, rotated), opts))
}

// ParseLogLevel maps a config level string onto its slog level. Unknown
// strings fall back to info; Config.Validate rejects them earlier.
func ParseLogLevel(s string) slog.Level {
	switch s {
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
