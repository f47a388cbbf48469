package observer

import (
	"errors"
	"testing"
	"time"
)

func TestCodec(t *testing.T) {
	valid := Entry{
		Level:     LevelInfo,
		Message:   "team registered",
		Action:    "REGISTER_TEAM",
		UserID:    "user-1",
		Details:   map[string]any{"eventId": "e1"},
		Timestamp: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	b, err := EncodeEntry(valid)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeEntry(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Action != valid.Action || got.UserID != valid.UserID || !got.Timestamp.Equal(valid.Timestamp) {
		t.Fatalf("got %+v, want %+v", got, valid)
	}

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty", raw: "", want: ErrInvalidEntry},
		{name: "not_json", raw: "{", want: ErrInvalidEntry},
		{name: "future_version", raw: `{"v":2,"entry":{"level":"info","action":"X","timestamp":"2024-06-01T10:00:00Z"}}`, want: ErrVersionMismatch},
		{name: "missing_action", raw: `{"v":1,"entry":{"level":"info","timestamp":"2024-06-01T10:00:00Z"}}`, want: ErrInvalidEntry},
		{name: "unknown_level", raw: `{"v":1,"entry":{"level":"loud","action":"X","timestamp":"2024-06-01T10:00:00Z"}}`, want: ErrInvalidEntry},
		{name: "missing_timestamp", raw: `{"v":1,"entry":{"level":"info","action":"X"}}`, want: ErrInvalidEntry},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeEntry([]byte(tt.raw)); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := EncodeEntry(Entry{Level: LevelInfo}); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("encoding an entry without action should fail, got %v", err)
	}
}
