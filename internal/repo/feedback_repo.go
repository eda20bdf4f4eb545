package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// CreateFeedback inserts a write-once feedback row. Rating bounds are
// enforced at the service layer.
func CreateFeedback(ctx context.Context, db *gorm.DB, fb *domain.Feedback) error {
	fb.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(fb).Error
}

// ListFeedbacksPage returns a page of feedback entries, most recent first.
func ListFeedbacksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountFeedbacks returns the total number of feedback entries.
func CountFeedbacks(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Feedback{}).Count(&total).Error
	return total, err
}
