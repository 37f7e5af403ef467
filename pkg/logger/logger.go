package logger

import (
	"log/slog"
	"os"
)

// NewHandler builds the JSON slog handler used as the process-wide
// default. A nil opts uses Info level.
func NewHandler(opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	return slog.NewJSONHandler(os.Stdout, opts)
}
