package globals

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var (
	Logger *slog.Logger

	// Ensure initialization happens only once
	initOnce sync.Once
)

// Initialize loads .env and sets up the logger exactly once. Logs go to
// stderr so stdout carries only the generation report.
func Initialize(verbose bool) {
	initOnce.Do(func() {
		setupLogger(os.Stderr, verbose)

		if err := godotenv.Load(); err != nil {
			Logger.Debug("No .env file loaded", "error", err)
		} else {
			Logger.Debug("Loaded .env file")
		}
	})
}

func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(Logger)
}

// L returns the global logger, falling back to slog's default before
// Initialize has run.
func L() *slog.Logger {
	if Logger == nil {
		return slog.Default()
	}
	return Logger
}
