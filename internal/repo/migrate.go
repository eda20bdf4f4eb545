package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// Migrate applies the full schema. GORM's AutoMigrate is additive and
// idempotent: it creates missing tables, columns, and indexes and never
// drops anything, which replaces the legacy probe-then-alter column checks
// with one declarative pass at startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Patient{},
		&domain.Record{},
		&domain.Doctor{},
		&domain.User{},
		&domain.Feedback{},
		&domain.AuditLog{},
	)
}

// defaultDoctors is the fixed reference data inserted at first boot.
var defaultDoctors = []domain.Doctor{
	{ID: 1, Name: "Dr. Sarah Chen", Email: "sarah.chen@cardioai.com", Specialization: "Cardiology"},
	{ID: 2, Name: "Dr. Emily Ross", Email: "emily.ross@cardioai.com", Specialization: "Internal Medicine"},
	{ID: 3, Name: "Dr. Michael Torres", Email: "michael.torres@cardioai.com", Specialization: "Cardiology"},
}

// SeedDoctors inserts the default doctors when the table is empty. Subsequent
// boots are no-ops, so locally added doctors survive restarts.
func SeedDoctors(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Doctor{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&defaultDoctors).Error
}

// WipeData deletes every row from the patient, record, and feedback tables
// and resets their auto-increment counters. Doctors, users, and audit logs
// survive a wipe. Used for full environment reset only; the HTTP layer gates
// it behind a secondary credential.
func WipeData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tables := []string{"records", "patients", "feedbacks"} // children first
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
			if err := resetSequence(tx, table); err != nil {
				return err
			}
		}
		return nil
	})
}

// resetSequence rewinds a table's auto-increment counter in the engine's own
// dialect. This is one of the two places engine syntax differs (the other is
// month bucketing in stats.go).
func resetSequence(tx *gorm.DB, table string) error {
	if IsPostgres(tx) {
		return tx.Exec("ALTER SEQUENCE " + table + "_id_seq RESTART WITH 1").Error
	}
	// SQLite keeps AUTOINCREMENT state in sqlite_sequence; the row may not
	// exist yet, which DELETE treats as a no-op.
	return tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
}
