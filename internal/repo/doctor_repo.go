package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// ListDoctors returns all doctors in id order.
func ListDoctors(ctx context.Context, db *gorm.DB) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// GetDoctor fetches a doctor by id, or ErrNotFound.
func GetDoctor(ctx context.Context, db *gorm.DB, id uint) (*domain.Doctor, error) {
	var d domain.Doctor
	if err := db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
