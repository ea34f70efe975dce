package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithConfig_TUIModeDefaultsToDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CALPICK_DATA_DIR", "")

	require.NoError(t, InitializeWithConfig(Config{Level: "DEBUG", TUIMode: true}))
	defer Close()

	assert.Equal(t, slog.LevelDebug, GetLevel())
	assert.True(t, IsTUIMode())
	assert.Equal(t, filepath.Join(home, ".calpick", "logs", "calpick.log"), GetLogFile())
	assert.DirExists(t, filepath.Join(home, ".calpick", "logs"))
}

func TestInitializeWithConfig_TUIModeHonoursDataDirOverride(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("CALPICK_DATA_DIR", dataDir)

	require.NoError(t, InitializeWithConfig(Config{TUIMode: true}))
	defer Close()

	assert.Equal(t, filepath.Join(dataDir, "logs", "calpick.log"), GetLogFile())
}

func TestInitializeWithConfig_StderrByDefault(t *testing.T) {
	require.NoError(t, InitializeWithConfig(Config{Level: "INFO", Format: "JSON"}))

	assert.Equal(t, slog.LevelInfo, GetLevel())
	assert.Equal(t, "json", GetFormat())
	assert.Empty(t, GetLogFile())
	assert.False(t, IsTUIMode())
}

func TestLogLevelParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.NoError(t, InitializeWithConfig(Config{Level: tt.input}))
			assert.Equal(t, tt.expected, GetLevel())
		})
	}
}

func TestLoggingToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "calpick.log")

	require.NoError(t, InitializeWithConfig(Config{Level: "DEBUG", File: logFile}))

	Debug("grid built", "mode", "day")
	Info("picker opened")
	Warn("slow render")
	Error("config reload failed")
	require.NoError(t, Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	for _, want := range []string{"grid built", "mode=day", "picker opened", "slow render", "config reload failed"} {
		assert.Contains(t, string(content), want)
	}
}

func TestTUIModeFailure(t *testing.T) {
	err := InitializeWithConfig(Config{
		File:    "/proc/invalid/path/that/cannot/be/created.log",
		TUIMode: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI mode requires file-based logging")
}

func TestCloseIsIdempotent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "close.log")
	require.NoError(t, InitializeWithConfig(Config{File: logFile}))

	Info("before close")
	assert.NoError(t, Close())
	assert.NoError(t, Close())
	assert.FileExists(t, logFile)

	// Still usable after close.
	Info("after close")
}

func TestConcurrentLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "concurrent.log")
	require.NoError(t, InitializeWithConfig(Config{Level: "DEBUG", File: logFile}))

	const goroutines = 20
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				Info("concurrent", "goroutine", id, "iteration", j)
				_ = GetLevel()
				_ = GetLogFile()
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Count(string(content), "\n")
	assert.Equal(t, goroutines*perGoroutine, lines)
}

func TestConcurrentReinitialization(t *testing.T) {
	dir := t.TempDir()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			cfg := Config{File: filepath.Join(dir, fmt.Sprintf("init-%d.log", id))}
			if err := InitializeWithConfig(cfg); err != nil {
				errs <- err
			}
			Info("initialized", "id", id)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.NoError(t, Close())
}
