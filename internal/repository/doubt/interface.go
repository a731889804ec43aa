// File: internal/repository/doubt/interface.go
package doubt

import (
	"context"

	"github.com/athenaai/go-tutor/internal/domain"
)

// DoubtRepository handles doubt history data operations.
type DoubtRepository interface {
	Create(ctx context.Context, doubt *domain.Doubt) (*domain.Doubt, error)
	FindByID(ctx context.Context, doubtID uint) (*domain.Doubt, error)
	FindByIDAndUserID(ctx context.Context, doubtID, userID uint) (*domain.Doubt, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Doubt, error)
	FindByUserIDWithPagination(ctx context.Context, userID uint, limit, offset int) ([]domain.Doubt, int64, error)
	UpdateTitleAndPreview(ctx context.Context, doubtID, userID uint, title, preview string) error
	TouchUpdatedAt(ctx context.Context, doubtID uint) error
	Delete(ctx context.Context, doubtID, userID uint) error
	ExistsByIDAndUserID(ctx context.Context, doubtID, userID uint) (bool, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	SearchByTitle(ctx context.Context, userID uint, titlePattern string, limit int) ([]domain.Doubt, error)
}
