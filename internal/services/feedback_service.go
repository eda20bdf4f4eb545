// Package services – FeedbackService
//
// Feedback is write-once: visitors leave a 1–5 rating with a comment,
// optionally tied to a patient; entries are only ever listed afterwards.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/repo"
)

// FeedbackService implements the use-cases around visitor feedback.
type FeedbackService struct {
	DB *gorm.DB
}

// Leave records one feedback entry. The rating must be within 1..5;
// otherwise ErrInvalidRating.
func (s *FeedbackService) Leave(ctx context.Context, patientID *uint, name string, rating int, comment string) (*domain.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	fb := &domain.Feedback{
		PatientID: patientID,
		Name:      name,
		Rating:    rating,
		Comment:   comment,
	}
	if err := repo.CreateFeedback(ctx, s.DB, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// ListPage returns a page of feedback entries (newest first) and the total.
func (s *FeedbackService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Feedback, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountFeedbacks(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Feedback{}, 0, nil
	}
	items, err := repo.ListFeedbacksPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
