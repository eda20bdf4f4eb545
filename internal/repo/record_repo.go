// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Record
// (assessment) model. Records are append-only: nothing here mutates or
// removes an existing row.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// CreateRecord appends one immutable assessment row.
func CreateRecord(ctx context.Context, db *gorm.DB, r *domain.Record) error {
	r.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(r).Error
}

// ListRecordsForPatient returns a patient's assessment history, most recent
// first. The patient must exist; callers translate ErrNotFound.
func ListRecordsForPatient(ctx context.Context, db *gorm.DB, patientID uint) ([]domain.Record, error) {
	if _, err := GetPatient(ctx, db, patientID); err != nil {
		return nil, err
	}
	var out []domain.Record
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountRecords returns the number of visible assessments, optionally
// filtered by owning doctor.
func CountRecords(ctx context.Context, db *gorm.DB, doctorID *uint) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Record{})
	if doctorID != nil {
		q = q.Where("doctor_id = ?", *doctorID)
	}
	err := q.Count(&total).Error
	return total, err
}
