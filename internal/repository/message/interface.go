// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/athenaai/go-tutor/internal/domain"
)

// MessageRepository handles doubt message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByDoubtID(ctx context.Context, doubtID uint) ([]domain.Message, error)
	FindByDoubtIDWithPagination(ctx context.Context, doubtID uint, limit, offset int) ([]domain.Message, int64, error)
	CountByDoubtID(ctx context.Context, doubtID uint) (int64, error)
	CountByType(ctx context.Context, doubtID uint, messageType string) (int64, error)
	FindRecent(ctx context.Context, doubtID uint, limit int) ([]domain.Message, error)
	DeleteByDoubtID(ctx context.Context, doubtID uint) error
}
