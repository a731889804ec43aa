// File: internal/session/message.go
package session

import (
	"time"

	"github.com/athenaai/go-tutor/internal/domain"
)

// Message is the tagged variant for conversation content. A message is owned
// exclusively by its parent conversation and is never shared.
type Message interface {
	Role() string
	Body() string
	SentAt() time.Time
}

// UserMessage is a question typed by the student.
type UserMessage struct {
	LocalID string // temporary identity before persistence
	Text    string
	At      time.Time
}

func (m UserMessage) Role() string      { return domain.MessageTypeUser }
func (m UserMessage) Body() string      { return m.Text }
func (m UserMessage) SentAt() time.Time { return m.At }

// AssistantMessage is a post-processed tutor reply, optionally carrying a
// generated-image reference.
type AssistantMessage struct {
	LocalID  string
	Text     string
	ImageURL string
	At       time.Time
}

func (m AssistantMessage) Role() string      { return domain.MessageTypeAssistant }
func (m AssistantMessage) Body() string      { return m.Text }
func (m AssistantMessage) SentAt() time.Time { return m.At }
