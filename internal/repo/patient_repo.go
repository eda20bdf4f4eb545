// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Patient
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a patient is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Soft deletion: Patient carries gorm.DeletedAt, so every query below
// automatically excludes soft-deleted rows.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// PatientUpsert carries the fields the prediction path overwrites on every
// assessment for a given name.
type PatientUpsert struct {
	Name        string
	Age         int
	Sex         int
	Contact     string
	RiskLevel   string
	SystemNotes string
	DoctorName  string
	DoctorID    *uint
}

// CreatePatient inserts a new patient row. Duplicate names surface the
// database's unique-constraint error untranslated; callers that need
// find-or-create semantics use UpsertPatientByName instead.
func CreatePatient(ctx context.Context, db *gorm.DB, p *domain.Patient) error {
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	if p.RiskLevel == "" {
		p.RiskLevel = "Unknown"
	}
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// UpsertPatientByName finds a patient by exact name and overwrites the
// demographic and risk fields, or inserts a new row when the name is unseen.
// The lookup includes soft-deleted rows: the patients.name unique index
// covers them, so a deleted patient reassessed under the same name is revived
// in place rather than colliding on insert. Runs against whatever handle it
// is given, so wrap it in a transaction together with the record insert.
func UpsertPatientByName(ctx context.Context, db *gorm.DB, up PatientUpsert) (*domain.Patient, error) {
	var p domain.Patient
	err := db.WithContext(ctx).Unscoped().Where("name = ?", up.Name).First(&p).Error
	switch {
	case err == nil:
		return overwritePatient(ctx, db, &p, up)
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, inserted, cerr := insertPatient(ctx, db, up)
		if cerr != nil {
			return nil, cerr
		}
		if inserted {
			return created, nil
		}
		// Lost a concurrent insert race; the row exists now, update it.
		p = domain.Patient{}
		if ferr := db.WithContext(ctx).Unscoped().Where("name = ?", up.Name).First(&p).Error; ferr != nil {
			return nil, ferr
		}
		return overwritePatient(ctx, db, &p, up)
	default:
		return nil, err
	}
}

// insertPatient inserts a fresh patient row. A unique-name conflict is
// reported as inserted=false instead of an error: ON CONFLICT DO NOTHING
// raises nothing, so the surrounding transaction stays usable on engines
// that abort it after a failed statement.
func insertPatient(ctx context.Context, db *gorm.DB, up PatientUpsert) (*domain.Patient, bool, error) {
	p := domain.Patient{Status: domain.StatusActive}
	applyUpsert(&p, up)
	p.CreatedAt = time.Now().UTC()

	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &p, res.RowsAffected > 0, nil
}

// overwritePatient applies the assessment fields to an existing row, clearing
// a soft-delete flag when present.
func overwritePatient(ctx context.Context, db *gorm.DB, p *domain.Patient, up PatientUpsert) (*domain.Patient, error) {
	if p.DeletedAt.Valid {
		p.DeletedAt = gorm.DeletedAt{}
		p.Status = domain.StatusActive
	}
	applyUpsert(p, up)
	if err := db.WithContext(ctx).Unscoped().Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func applyUpsert(p *domain.Patient, up PatientUpsert) {
	p.Name = up.Name
	p.Age = up.Age
	p.Sex = up.Sex
	if up.Contact != "" {
		p.Contact = up.Contact
	}
	p.RiskLevel = up.RiskLevel
	p.SystemNotes = up.SystemNotes
	if up.DoctorName != "" {
		p.DoctorName = up.DoctorName
	}
	if up.DoctorID != nil {
		p.DoctorID = up.DoctorID
	}
}

// GetPatient fetches a single patient by id, or ErrNotFound if missing.
func GetPatient(ctx context.Context, db *gorm.DB, id uint) (*domain.Patient, error) {
	var p domain.Patient
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPatients returns the number of visible patients, optionally filtered
// by owning doctor.
func CountPatients(ctx context.Context, db *gorm.DB, doctorID *uint) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Patient{})
	if doctorID != nil {
		q = q.Where("doctor_id = ?", *doctorID)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListPatientsPage returns a page of patients ordered by creation time
// descending, optionally filtered by owning doctor.
func ListPatientsPage(ctx context.Context, db *gorm.DB, doctorID *uint, offset, limit int) ([]domain.Patient, error) {
	var out []domain.Patient
	q := db.WithContext(ctx)
	if doctorID != nil {
		q = q.Where("doctor_id = ?", *doctorID)
	}
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// UpdatePatientNotes replaces the free-text doctor notes for a patient.
// Returns ErrNotFound when no visible row matched.
func UpdatePatientNotes(ctx context.Context, db *gorm.DB, id uint, notes string) error {
	res := db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("id = ?", id).
		Update("doctor_notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePatientSignature stores the opaque encoded signature blob.
// Returns ErrNotFound when no visible row matched.
func UpdatePatientSignature(ctx context.Context, db *gorm.DB, id uint, signature string) error {
	res := db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("id = ?", id).
		Update("signature", signature)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDeletePatient flags a patient as deleted. The row is retained for
// history but disappears from all reads. Returns ErrNotFound when the
// patient does not exist or is already deleted.
func SoftDeletePatient(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Patient{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
