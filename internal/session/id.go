// File: internal/session/id.go
package session

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDKind is the identity state of a conversation.
type IDKind int

const (
	// KindDefault is the unsaved sentinel: no backing record yet. It is
	// promoted to KindPersisted exactly once, when the first AI reply
	// arrives for an authenticated user.
	KindDefault IDKind = iota
	// KindLocal marks a conversation created while unauthenticated. It is
	// never persisted.
	KindLocal
	// KindPersisted carries a durable record identifier.
	KindPersisted
)

// ConversationID is the explicit identity state machine for a conversation.
// Only a KindPersisted id exposes a record id, so no caller can treat an
// unsaved conversation's identity as durable.
type ConversationID struct {
	kind   IDKind
	local  string
	record uint
}

// DefaultID returns the unsaved-default sentinel identity.
func DefaultID() ConversationID { return ConversationID{kind: KindDefault} }

// NewLocalID allocates a fresh local-only identity.
func NewLocalID() ConversationID {
	return ConversationID{kind: KindLocal, local: uuid.NewString()}
}

// PersistedID wraps a durable record identifier.
func PersistedID(record uint) ConversationID {
	return ConversationID{kind: KindPersisted, record: record}
}

func (id ConversationID) Kind() IDKind { return id.kind }

// Persisted returns the durable record id. ok is false for the default
// sentinel and for local-only conversations.
func (id ConversationID) Persisted() (uint, bool) {
	if id.kind != KindPersisted {
		return 0, false
	}
	return id.record, true
}

// IsEphemeral reports whether the conversation has no backing record.
func (id ConversationID) IsEphemeral() bool { return id.kind != KindPersisted }

func (id ConversationID) String() string {
	switch id.kind {
	case KindLocal:
		return "local-" + id.local
	case KindPersisted:
		return strconv.FormatUint(uint64(id.record), 10)
	default:
		return "default"
	}
}

// ParseID reconstructs a ConversationID from its string form.
func ParseID(s string) (ConversationID, bool) {
	switch {
	case s == "default":
		return DefaultID(), true
	case strings.HasPrefix(s, "local-"):
		suffix := strings.TrimPrefix(s, "local-")
		if suffix == "" {
			return ConversationID{}, false
		}
		return ConversationID{kind: KindLocal, local: suffix}, true
	default:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil || n == 0 {
			return ConversationID{}, false
		}
		return PersistedID(uint(n)), true
	}
}
