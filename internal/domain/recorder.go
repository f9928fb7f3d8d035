package domain

import (
	"context"
	"log/slog"
)

// Recorder receives the human-readable outcome line of each dispatch.
type Recorder interface {
	Record(level slog.Level, message string)
}

// SlogRecorder writes records through a *slog.Logger.
type SlogRecorder struct {
	Logger *slog.Logger
}

func (r SlogRecorder) Record(level slog.Level, message string) {
	r.Logger.Log(context.Background(), level, message)
}
