// File: internal/domain/doubt.go
package domain

import "time"

// Doubt represents a single persisted tutoring conversation thread.
type Doubt struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Title     string    `json:"title"`   // AI-inferred heading, e.g. "Kinematics Basics"
	Subject   string    `json:"subject"` // fixed at creation, e.g. "Physics"
	Preview   string    `json:"preview"` // truncated latest user question
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table compatible with the original schema.
func (Doubt) TableName() string { return "doubts_history" }
