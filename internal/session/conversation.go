// File: internal/session/conversation.go
package session

import "time"

// conversation is the in-memory state of one doubt. All access goes through
// the Manager's mutex; nothing outside this package mutates it.
type conversation struct {
	id        ConversationID
	title     string
	subject   string
	preview   string
	messages  []Message
	updatedAt time.Time
	loaded    bool // messages materialized (always true for ephemeral)
	composing bool // a send is in flight for this conversation
}

// Snapshot is a read-only copy of a conversation handed to the UI layer.
type Snapshot struct {
	ID        ConversationID
	Title     string
	Subject   string
	Messages  []Message
	Composing bool
	UpdatedAt time.Time
}

func (c *conversation) snapshot() Snapshot {
	msgs := make([]Message, len(c.messages))
	copy(msgs, c.messages)
	return Snapshot{
		ID:        c.id,
		Title:     c.title,
		Subject:   c.subject,
		Messages:  msgs,
		Composing: c.composing,
		UpdatedAt: c.updatedAt,
	}
}

// latestUserText returns the body of the most recent user message, if any.
func (c *conversation) latestUserText() (string, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if m, ok := c.messages[i].(UserMessage); ok {
			return m.Text, true
		}
	}
	return "", false
}
