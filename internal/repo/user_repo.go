package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// CreateUser inserts a new authentication principal. The username unique
// index surfaces duplicates as a raw constraint error; the service layer
// translates it.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.Role == "" {
		u.Role = "doctor"
	}
	u.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(u).Error
}

// GetUserByUsername fetches a user by exact username, or ErrNotFound.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserPasswordHash replaces a user's stored credential. Used by the
// transparent legacy-plaintext upgrade on first successful login.
func UpdateUserPasswordHash(ctx context.Context, db *gorm.DB, id uint, hash string) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
