package observer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CodecVersion is stamped on every published entry. Decoders reject other
// versions so an archiver never mis-reads a newer producer.
const CodecVersion = 1

var (
	ErrInvalidEntry    = errors.New("invalid activity entry")
	ErrVersionMismatch = errors.New("activity entry version mismatch")
)

type envelope struct {
	Version int   `json:"v"`
	Entry   Entry `json:"entry"`
}

func EncodeEntry(e Entry) ([]byte, error) {
	if err := ValidateEntry(e); err != nil {
		return nil, err
	}

	b, err := json.Marshal(envelope{Version: CodecVersion, Entry: e})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return b, nil
}

func DecodeEntry(b []byte) (Entry, error) {
	if len(b) == 0 {
		return Entry{}, ErrInvalidEntry
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if env.Version != CodecVersion {
		return Entry{}, fmt.Errorf("%w: got %d", ErrVersionMismatch, env.Version)
	}
	if err := ValidateEntry(env.Entry); err != nil {
		return Entry{}, err
	}
	return env.Entry, nil
}

// ValidateEntry requires an action, a known level and a timestamp.
func ValidateEntry(e Entry) error {
	if strings.TrimSpace(e.Action) == "" {
		return fmt.Errorf("%w: missing action", ErrInvalidEntry)
	}
	switch e.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("%w: level %q", ErrInvalidEntry, e.Level)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidEntry)
	}
	return nil
}
