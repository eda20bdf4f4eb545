package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// CreateAuditLog appends one audit trail row. The audit package wraps this
// with the swallow-all-errors policy; this function itself propagates errors
// normally so tests can assert on them.
func CreateAuditLog(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	entry.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(entry).Error
}
