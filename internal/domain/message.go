// File: internal/domain/message.go
package domain

import "time"

// Message types stored in doubts_messages.
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "ai"
)

// Message represents a single message within a doubt.
type Message struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	DoubtID     uint      `gorm:"not null;index" json:"doubt_id"`
	MessageType string    `gorm:"not null" json:"message_type"` // "user" or "ai"
	Content     string    `gorm:"not null" json:"message_content"`
	ImageURL    string    `json:"image_url,omitempty"` // assistant messages only
	CreatedAt   time.Time `json:"created_at"`
}

func (Message) TableName() string { return "doubts_messages" }
