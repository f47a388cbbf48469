package observer

import (
	"context"
	"strings"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is where entries are published when no prefix is configured.
const DefaultSubjectPrefix = "sportsbuddy.activity"

// NATS publishes each entry, encoded by EncodeEntry, on "<prefix>.<action>".
type NATS struct {
	conn   *nats.Conn
	prefix string
}

func NewNATS(conn *nats.Conn, prefix string) *NATS {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATS{conn: conn, prefix: prefix}
}

func (n *NATS) Write(_ context.Context, e Entry) error {
	b, err := EncodeEntry(e)
	if err != nil {
		return err
	}
	return n.conn.Publish(n.Subject(e.Action), b)
}

func (n *NATS) Subject(action string) string {
	token := strings.ToLower(strings.TrimSpace(action))
	token = strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ':
			return '_'
		}
		return r
	}, token)

	if token == "" {
		token = "unknown"
	}
	return n.prefix + "." + token
}

// Wildcard matches every subject this sink publishes on.
func (n *NATS) Wildcard() string {
	return n.prefix + ".>"
}
