// Package logger is the process-wide slog logger. It writes to stderr by
// default and to a rotated file when one is configured; the TUI always logs
// to a file so output never lands on the terminal the picker draws on.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const appName = "calpick"

// Config selects level, format and destination. An empty File means stderr,
// except in TUI mode where it defaults to <data dir>/logs/calpick.log.
type Config struct {
	Level   string
	Format  string
	File    string
	TUIMode bool
}

var (
	mu        sync.RWMutex
	logger    *slog.Logger
	logLevel  slog.Level
	logFormat string
	logFile   string
	tuiMode   bool
	rotator   *lumberjack.Logger
)

func init() {
	Initialize()
}

// Initialize configures the logger from LOG_LEVEL, LOG_FORMAT and
// CALPICK_DEBUG, logging to stderr.
func Initialize() {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if v := os.Getenv("CALPICK_DEBUG"); v == "1" || v == "true" {
			levelStr = "DEBUG"
		}
	}
	// Stderr cannot fail.
	_ = InitializeWithConfig(Config{Level: levelStr, Format: os.Getenv("LOG_FORMAT")})
}

// InitializeWithConfig replaces the current logger. It may be called again,
// e.g. once the CLI knows it is about to start the TUI.
func InitializeWithConfig(cfg Config) error {
	level := parseLevel(cfg.Level)
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "text"
	}

	file := cfg.File
	if file == "" && cfg.TUIMode {
		dir, err := defaultLogDir()
		if err != nil {
			return fmt.Errorf("TUI mode requires file-based logging: %w", err)
		}
		file = filepath.Join(dir, appName+".log")
	}

	var (
		out io.Writer = os.Stderr
		rot *lumberjack.Logger
	)
	if file != "" {
		if err := ensureWritable(file); err != nil {
			if cfg.TUIMode {
				return fmt.Errorf("TUI mode requires file-based logging: %w", err)
			}
			return err
		}
		rot = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = rot
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	mu.Lock()
	previous := rotator
	logger = slog.New(handler)
	logLevel = level
	logFormat = format
	logFile = file
	tuiMode = cfg.TUIMode
	rotator = rot
	mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultLogDir() (string, error) {
	base := os.Getenv("CALPICK_DATA_DIR")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "."+appName)
	}
	dir := filepath.Join(base, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return dir, nil
}

// ensureWritable creates the log file's directory and checks that the file
// can be opened for appending.
func ensureWritable(file string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	return f.Close()
}

// Close flushes and closes the log file, if any. Logging continues on
// stderr afterwards.
func Close() error {
	mu.Lock()
	rot := rotator
	rotator = nil
	if rot != nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}
	mu.Unlock()

	if rot == nil {
		return nil
	}
	return rot.Close()
}

func GetLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func GetLevel() slog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

func GetFormat() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFormat
}

func GetLogFile() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFile
}

func IsTUIMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return tuiMode
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}
