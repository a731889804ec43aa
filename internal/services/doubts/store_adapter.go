// File: internal/services/doubts/store_adapter.go

// Package doubts maps the session manager's persistence contract onto the
// doubt and message repositories.
package doubts

import (
	"context"
	"fmt"

	"github.com/athenaai/go-tutor/internal/domain"
	doubtrepo "github.com/athenaai/go-tutor/internal/repository/doubt"
	messagerepo "github.com/athenaai/go-tutor/internal/repository/message"
	"github.com/athenaai/go-tutor/internal/services"
	"github.com/athenaai/go-tutor/internal/session"
)

// StoreAdapter implements session.Store on top of the gorm repositories.
type StoreAdapter struct {
	doubts   doubtrepo.DoubtRepository
	messages messagerepo.MessageRepository
	logger   services.Logger
}

func NewStoreAdapter(doubts doubtrepo.DoubtRepository, messages messagerepo.MessageRepository, logger services.Logger) (*StoreAdapter, error) {
	if doubts == nil {
		return nil, fmt.Errorf("doubt repository is required")
	}
	if messages == nil {
		return nil, fmt.Errorf("message repository is required")
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &StoreAdapter{doubts: doubts, messages: messages, logger: logger}, nil
}

func (a *StoreAdapter) ListDoubts(ctx context.Context, userID uint) ([]session.Summary, error) {
	records, err := a.doubts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]session.Summary, 0, len(records))
	for _, d := range records {
		summaries = append(summaries, session.Summary{
			ID:        d.ID,
			Title:     d.Title,
			Subject:   d.Subject,
			Preview:   d.Preview,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return summaries, nil
}

func (a *StoreAdapter) GetDoubt(ctx context.Context, userID, doubtID uint) (*session.Record, error) {
	d, err := a.doubts.FindByIDAndUserID(ctx, doubtID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := a.messages.FindByDoubtID(ctx, doubtID)
	if err != nil {
		return nil, err
	}

	record := &session.Record{
		Summary: session.Summary{
			ID:        d.ID,
			Title:     d.Title,
			Subject:   d.Subject,
			Preview:   d.Preview,
			UpdatedAt: d.UpdatedAt,
		},
		Messages: make([]session.StoredMessage, 0, len(rows)),
	}
	for _, m := range rows {
		record.Messages = append(record.Messages, session.StoredMessage{
			ID:        m.ID,
			Role:      m.MessageType,
			Content:   m.Content,
			ImageURL:  m.ImageURL,
			CreatedAt: m.CreatedAt,
		})
	}
	return record, nil
}

func (a *StoreAdapter) CreateDoubt(ctx context.Context, userID uint, title, subject, preview string) (uint, error) {
	created, err := a.doubts.Create(ctx, &domain.Doubt{
		UserID:  userID,
		Title:   title,
		Subject: subject,
		Preview: preview,
	})
	if err != nil {
		return 0, err
	}
	a.logger.Info("doubt created", "doubt_id", created.ID, "user_id", userID, "subject", subject)
	return created.ID, nil
}

func (a *StoreAdapter) UpdateDoubt(ctx context.Context, userID, doubtID uint, title, preview string) error {
	return a.doubts.UpdateTitleAndPreview(ctx, doubtID, userID, title, preview)
}

// DeleteDoubt removes the messages first so a partial failure never leaves
// orphaned rows behind a missing doubt.
func (a *StoreAdapter) DeleteDoubt(ctx context.Context, userID, doubtID uint) error {
	owned, err := a.doubts.ExistsByIDAndUserID(ctx, doubtID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return doubtrepo.ErrUnauthorizedAccess
	}

	if err := a.messages.DeleteByDoubtID(ctx, doubtID); err != nil {
		return err
	}
	return a.doubts.Delete(ctx, doubtID, userID)
}

func (a *StoreAdapter) AppendMessage(ctx context.Context, doubtID uint, role, content, imageURL string) (uint, error) {
	created, err := a.messages.Create(ctx, &domain.Message{
		DoubtID:     doubtID,
		MessageType: role,
		Content:     content,
		ImageURL:    imageURL,
	})
	if err != nil {
		return 0, err
	}

	if err := a.doubts.TouchUpdatedAt(ctx, doubtID); err != nil {
		a.logger.Warn("doubt timestamp refresh failed", "doubt_id", doubtID, "error", err.Error())
	}
	return created.ID, nil
}
