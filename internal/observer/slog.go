package observer

import (
	"context"
	"log/slog"
	"time"
)

// Slog writes each entry as one structured log line. It is both an Observer
// (synchronous) and a Sink for Async.
type Slog struct {
	log *slog.Logger
}

func NewSlog(log *slog.Logger) *Slog {
	return &Slog{log: log}
}

func (s *Slog) Record(ctx context.Context, level Level, message, action string, details map[string]any) {
	_ = s.Write(ctx, newEntry(ctx, level, message, action, details, time.Now()))
}

func (s *Slog) Write(ctx context.Context, e Entry) error {
	attrs := []any{"action", e.Action}
	if e.UserID != "" {
		attrs = append(attrs, "user_id", e.UserID)
	}
	if len(e.Details) > 0 {
		attrs = append(attrs, "details", e.Details)
	}

	s.log.Log(ctx, slogLevel(e.Level), e.Message, attrs...)
	return nil
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
