package app

import (
	"log/slog"
	"os"

	"order-consolidation/internal/logx"
)

// NewLogger returns the JSON stdout logger shared by every component.
func NewLogger() logx.Logger {
	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logx.NewSlogAdapter(base)
}
