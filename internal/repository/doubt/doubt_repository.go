// File: internal/repository/doubt/doubt_repository.go
package doubt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/athenaai/go-tutor/internal/domain"
)

var ErrDoubtNotFound = errors.New("doubt not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to doubt")

type gormDoubtRepository struct {
	db *gorm.DB
}

func NewDoubtRepository(db *gorm.DB) DoubtRepository {
	return &gormDoubtRepository{db: db}
}

func (r *gormDoubtRepository) Create(ctx context.Context, doubt *domain.Doubt) (*domain.Doubt, error) {
	if err := r.validateDoubtInput(doubt); err != nil {
		log.Printf("[DoubtRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(doubt).Error
	if err != nil {
		log.Printf("[DoubtRepository] Database error during doubt creation for user ID %d: %v", doubt.UserID, err)
		return nil, errors.New("database error creating doubt")
	}

	log.Printf("[DoubtRepository] Doubt created with ID: %d for user: %d", doubt.ID, doubt.UserID)
	return doubt, nil
}

func (r *gormDoubtRepository) FindByID(ctx context.Context, doubtID uint) (*domain.Doubt, error) {
	if doubtID == 0 {
		return nil, errors.New("invalid doubt ID")
	}

	var doubt domain.Doubt
	err := r.db.WithContext(ctx).First(&doubt, doubtID).Error
	return r.handleFindError(err, &doubt, "FindByID")
}

func (r *gormDoubtRepository) FindByIDAndUserID(ctx context.Context, doubtID, userID uint) (*domain.Doubt, error) {
	if doubtID == 0 || userID == 0 {
		return nil, errors.New("invalid doubt ID or user ID")
	}

	var doubt domain.Doubt
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", doubtID, userID).
		First(&doubt).Error
	return r.handleFindError(err, &doubt, "FindByIDAndUserID")
}

func (r *gormDoubtRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Doubt, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var doubts []domain.Doubt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&doubts).Error

	if err != nil {
		log.Printf("[DoubtRepository] Database error finding doubts for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching doubts")
	}

	return doubts, nil
}

// FindByUserIDWithPagination prevents loading unbounded histories into memory.
func (r *gormDoubtRepository) FindByUserIDWithPagination(ctx context.Context, userID uint, limit, offset int) ([]domain.Doubt, int64, error) {
	if userID == 0 {
		return nil, 0, errors.New("invalid user ID")
	}
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Doubt{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		log.Printf("[DoubtRepository] Database error counting doubts for user ID %d: %v", userID, err)
		return nil, 0, errors.New("database error counting doubts")
	}

	var doubts []domain.Doubt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&doubts).Error

	if err != nil {
		log.Printf("[DoubtRepository] Database error in paginated query for user ID %d: %v", userID, err)
		return nil, 0, errors.New("database error retrieving paginated doubts")
	}

	return doubts, total, nil
}

func (r *gormDoubtRepository) UpdateTitleAndPreview(ctx context.Context, doubtID, userID uint, title, preview string) error {
	if doubtID == 0 || userID == 0 {
		return errors.New("invalid doubt ID or user ID")
	}
	if err := r.validateDoubtTitle(title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Doubt{}).
		Where("id = ? AND user_id = ?", doubtID, userID).
		Updates(map[string]interface{}{
			"title":      title,
			"preview":    preview,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		log.Printf("[DoubtRepository] Database error updating doubt ID %d for user ID %d: %v", doubtID, userID, result.Error)
		return errors.New("database error updating doubt")
	}

	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}

	return nil
}

func (r *gormDoubtRepository) TouchUpdatedAt(ctx context.Context, doubtID uint) error {
	if doubtID == 0 {
		return errors.New("invalid doubt ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Doubt{}).
		Where("id = ?", doubtID).
		Update("updated_at", time.Now())

	if result.Error != nil {
		log.Printf("[DoubtRepository] Database error updating timestamp for doubt ID %d: %v", doubtID, result.Error)
		return errors.New("database error updating doubt timestamp")
	}

	if result.RowsAffected == 0 {
		return ErrDoubtNotFound
	}

	return nil
}

func (r *gormDoubtRepository) Delete(ctx context.Context, doubtID, userID uint) error {
	if doubtID == 0 || userID == 0 {
		return errors.New("invalid doubt ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", doubtID, userID).
		Delete(&domain.Doubt{})

	if result.Error != nil {
		log.Printf("[DoubtRepository] Database error deleting doubt ID %d for user ID %d: %v", doubtID, userID, result.Error)
		return errors.New("database error deleting doubt")
	}

	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}

	log.Printf("[DoubtRepository] Doubt deleted: ID %d for user %d", doubtID, userID)
	return nil
}

// ExistsByIDAndUserID checks ownership without exposing record data.
func (r *gormDoubtRepository) ExistsByIDAndUserID(ctx context.Context, doubtID, userID uint) (bool, error) {
	if doubtID == 0 || userID == 0 {
		return false, errors.New("invalid doubt ID or user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Doubt{}).Where("id = ? AND user_id = ?", doubtID, userID).Count(&count).Error
	if err != nil {
		log.Printf("[DoubtRepository] Database error checking doubt ownership for doubt ID %d, user ID %d: %v", doubtID, userID, err)
		return false, errors.New("database error checking doubt ownership")
	}

	return count > 0, nil
}

func (r *gormDoubtRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Doubt{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		log.Printf("[DoubtRepository] Database error counting doubts for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting user doubts")
	}

	return count, nil
}

func (r *gormDoubtRepository) SearchByTitle(ctx context.Context, userID uint, titlePattern string, limit int) ([]domain.Doubt, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if err := r.validateSearchPattern(titlePattern); err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var doubts []domain.Doubt
	searchPattern := fmt.Sprintf("%%%s%%", titlePattern)

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND title LIKE ?", userID, searchPattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&doubts).Error

	if err != nil {
		log.Printf("[DoubtRepository] Database error searching doubts by title for user ID %d: %v", userID, err)
		return nil, errors.New("database error searching doubts")
	}

	return doubts, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormDoubtRepository) validateDoubtInput(doubt *domain.Doubt) error {
	if doubt == nil {
		return errors.New("doubt cannot be nil")
	}
	if doubt.UserID == 0 {
		return errors.New("user ID is required")
	}
	if err := r.validateDoubtTitle(doubt.Title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}
	return nil
}

func (r *gormDoubtRepository) validateDoubtTitle(title string) error {
	if len(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	if strings.Contains(title, "<script") || strings.Contains(title, "javascript:") {
		return errors.New("invalid characters detected in title")
	}
	return nil
}

func (r *gormDoubtRepository) validateSearchPattern(pattern string) error {
	if len(pattern) > 100 {
		return errors.New("search pattern too long")
	}
	if strings.ContainsAny(pattern, "%_\\") {
		return errors.New("invalid characters in search pattern")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

// handleFindError maps gorm errors to repository errors without leaking
// database details to callers.
func (r *gormDoubtRepository) handleFindError(err error, doubt *domain.Doubt, operation string) (*domain.Doubt, error) {
	if err == nil {
		return doubt, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDoubtNotFound
	}

	log.Printf("[DoubtRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
