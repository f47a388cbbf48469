// Package observer records application activity. Recording is fire-and-forget:
// an Observer never blocks or fails the operation that calls it.
package observer

import (
	"context"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/actorctx"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type Entry struct {
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Action    string         `json:"action"`
	UserID    string         `json:"userId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Observer interface {
	Record(ctx context.Context, level Level, message, action string, details map[string]any)
}

// Sink is a destination for recorded entries. Sink errors are reported by the
// observer that owns it and never reach the caller.
type Sink interface {
	Write(ctx context.Context, e Entry) error
}

type Nop struct{}

func (Nop) Record(context.Context, Level, string, string, map[string]any) {}

func newEntry(ctx context.Context, level Level, message, action string, details map[string]any, now time.Time) Entry {
	e := Entry{
		Level:     level,
		Message:   message,
		Action:    action,
		Details:   details,
		Timestamp: now.UTC(),
	}

	if uid, ok := actorctx.UserIDFrom(ctx); ok {
		e.UserID = uid
	}

	return e
}

// Failed is the conventional action name for the failure of action.
func Failed(action string) string {
	return action + "_FAILED"
}
