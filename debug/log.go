package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	file    *os.File
	logger  *slog.Logger
	mu      sync.Mutex
	enabled bool
)

// Enable starts logging to path, truncating it. The directory is created if
// needed.
func Enable(path string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	file = f
	start(f, verbose)
	return nil
}

// EnableWriter starts logging to w (e.g. stderr in headless mode).
func EnableWriter(w io.Writer, verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return
	}
	start(w, verbose)
}

// start must be called with mu held.
func start(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	enabled = true
	logger.Info("=== logging started ===", "cat", "debug")
}

// Disable stops logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
	enabled = false
}

// Log writes an informational message under category.
func Log(category, format string, args ...any) {
	emit(slog.LevelInfo, category, format, args...)
}

// Trace writes a message that only shows in verbose mode.
func Trace(category, format string, args ...any) {
	emit(slog.LevelDebug, category, format, args...)
}

func emit(level slog.Level, category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}
	logger.Log(context.Background(), level, fmt.Sprintf(format, args...), "cat", category)
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
