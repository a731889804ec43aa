// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/athenaai/go-tutor/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

const maxMessageLength = 50000

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(message).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error during message creation for doubt ID %d: %v", message.DoubtID, err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

func (r *gormMessageRepository) FindByDoubtID(ctx context.Context, doubtID uint) ([]domain.Message, error) {
	if doubtID == 0 {
		return nil, errors.New("invalid doubt ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("doubt_id = ?", doubtID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for doubt ID %d: %v", doubtID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

// FindByDoubtIDWithPagination prevents loading unbounded conversations into
// memory.
func (r *gormMessageRepository) FindByDoubtIDWithPagination(ctx context.Context, doubtID uint, limit, offset int) ([]domain.Message, int64, error) {
	if doubtID == 0 {
		return nil, 0, errors.New("invalid doubt ID")
	}
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("doubt_id = ?", doubtID).Count(&total).Error; err != nil {
		log.Printf("[MessageRepository] Database error counting messages for doubt ID %d: %v", doubtID, err)
		return nil, 0, errors.New("database error counting messages")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("doubt_id = ?", doubtID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error in paginated query for doubt ID %d: %v", doubtID, err)
		return nil, 0, errors.New("database error retrieving paginated messages")
	}

	return messages, total, nil
}

func (r *gormMessageRepository) CountByDoubtID(ctx context.Context, doubtID uint) (int64, error) {
	if doubtID == 0 {
		return 0, errors.New("invalid doubt ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("doubt_id = ?", doubtID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for doubt ID %d: %v", doubtID, err)
		return 0, errors.New("database error counting messages")
	}

	return count, nil
}

func (r *gormMessageRepository) CountByType(ctx context.Context, doubtID uint, messageType string) (int64, error) {
	if doubtID == 0 {
		return 0, errors.New("invalid doubt ID")
	}
	if messageType != domain.MessageTypeUser && messageType != domain.MessageTypeAssistant {
		return 0, errors.New("invalid message type")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("doubt_id = ? AND message_type = ?", doubtID, messageType).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting %s messages for doubt ID %d: %v", messageType, doubtID, err)
		return 0, errors.New("database error counting messages by type")
	}

	return count, nil
}

func (r *gormMessageRepository) FindRecent(ctx context.Context, doubtID uint, limit int) ([]domain.Message, error) {
	if doubtID == 0 {
		return nil, errors.New("invalid doubt ID")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("doubt_id = ?", doubtID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for doubt ID %d: %v", doubtID, err)
		return nil, errors.New("database error finding recent messages")
	}

	return messages, nil
}

// DeleteByDoubtID removes every message belonging to a doubt. Callers delete
// messages before the owning doubt so no orphans survive a partial failure.
func (r *gormMessageRepository) DeleteByDoubtID(ctx context.Context, doubtID uint) error {
	if doubtID == 0 {
		return errors.New("invalid doubt ID")
	}

	result := r.db.WithContext(ctx).
		Where("doubt_id = ?", doubtID).
		Delete(&domain.Message{})

	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for doubt ID %d: %v", doubtID, result.Error)
		return errors.New("database error deleting messages")
	}

	log.Printf("[MessageRepository] Deleted %d messages for doubt %d", result.RowsAffected, doubtID)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.DoubtID == 0 {
		return errors.New("doubt ID is required")
	}
	if message.MessageType != domain.MessageTypeUser && message.MessageType != domain.MessageTypeAssistant {
		return fmt.Errorf("invalid message type: %q", message.MessageType)
	}
	if message.Content == "" {
		return errors.New("message content is required")
	}
	if len(message.Content) > maxMessageLength {
		return fmt.Errorf("message content exceeds %d characters", maxMessageLength)
	}
	return nil
}
