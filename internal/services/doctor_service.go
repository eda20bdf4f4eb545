package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/repo"
)

// DoctorService serves the read-only doctor directory.
type DoctorService struct {
	DB *gorm.DB
}

// List returns all doctors in id order.
func (s *DoctorService) List(ctx context.Context) ([]domain.Doctor, error) {
	return repo.ListDoctors(ctx, s.DB)
}
