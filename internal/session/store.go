// File: internal/session/store.go
package session

import (
	"context"
	"time"
)

// Summary is the stored shape of a doubt without its messages.
type Summary struct {
	ID        uint
	Title     string
	Subject   string
	Preview   string
	UpdatedAt time.Time
}

// StoredMessage is a persisted message row.
type StoredMessage struct {
	ID        uint
	Role      string
	Content   string
	ImageURL  string
	CreatedAt time.Time
}

// Record is a doubt together with its ordered messages.
type Record struct {
	Summary
	Messages []StoredMessage
}

// Store is the contract the session manager expects from the persistence
// collaborator. All operations are request/response; deleting a doubt
// cascades to its messages.
type Store interface {
	ListDoubts(ctx context.Context, userID uint) ([]Summary, error)
	GetDoubt(ctx context.Context, userID, doubtID uint) (*Record, error)
	CreateDoubt(ctx context.Context, userID uint, title, subject, preview string) (uint, error)
	UpdateDoubt(ctx context.Context, userID, doubtID uint, title, preview string) error
	DeleteDoubt(ctx context.Context, userID, doubtID uint) error
	AppendMessage(ctx context.Context, doubtID uint, role, content, imageURL string) (uint, error)
}
