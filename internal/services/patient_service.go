// Package services – PatientService
//
// This file implements the PatientService, which manages patient rows outside
// the prediction path: direct creation, paginated listing, assessment
// history, and the notes/signature/soft-delete mutations. Mutations are
// audited best-effort.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/audit"
	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/repo"
)

// PatientService provides patient CRUD and history retrieval.
type PatientService struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

// Create inserts a patient directly (without an assessment). The name must
// be non-blank; a duplicate name returns ErrInvalidInput since names key the
// upsert flow.
func (s *PatientService) Create(ctx context.Context, name string, age, sex int, contact string, doctorID *uint) (*domain.Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	p := &domain.Patient{
		Name:     name,
		Age:      age,
		Sex:      sex,
		Contact:  contact,
		DoctorID: doctorID,
	}
	if err := repo.CreatePatient(ctx, s.DB, p); err != nil {
		return nil, err
	}

	s.auditFor(ctx, doctorID, audit.ActionCreatePatient, p.ID, map[string]any{"name": name})
	return p, nil
}

// ListPage returns a page of visible patients plus the total count,
// optionally scoped to one doctor.
func (s *PatientService) ListPage(ctx context.Context, doctorID *uint, page, pageSize int) ([]domain.Patient, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountPatients(ctx, s.DB, doctorID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Patient{}, 0, nil
	}
	items, err := repo.ListPatientsPage(ctx, s.DB, doctorID, offset, pageSize)
	return items, total, err
}

// Records returns a patient's full assessment history, newest first.
func (s *PatientService) Records(ctx context.Context, patientID uint) ([]domain.Record, error) {
	recs, err := repo.ListRecordsForPatient(ctx, s.DB, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return recs, nil
}

// UpdateNotes replaces a patient's free-text doctor notes.
func (s *PatientService) UpdateNotes(ctx context.Context, patientID uint, notes string, doctorID *uint) error {
	if err := repo.UpdatePatientNotes(ctx, s.DB, patientID, notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPatientNotFound
		}
		return err
	}
	s.auditFor(ctx, doctorID, audit.ActionUpdateNotes, patientID, nil)
	return nil
}

// UpdateSignature stores the opaque encoded signature blob on a patient.
func (s *PatientService) UpdateSignature(ctx context.Context, patientID uint, signature string, doctorID *uint) error {
	if strings.TrimSpace(signature) == "" {
		return ErrInvalidInput
	}
	if err := repo.UpdatePatientSignature(ctx, s.DB, patientID, signature); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPatientNotFound
		}
		return err
	}
	s.auditFor(ctx, doctorID, audit.ActionUpdateSignature, patientID, nil)
	return nil
}

// Delete soft-deletes a patient; the row is retained but leaves all reads.
func (s *PatientService) Delete(ctx context.Context, patientID uint, doctorID *uint) error {
	if err := repo.SoftDeletePatient(ctx, s.DB, patientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPatientNotFound
		}
		return err
	}
	s.auditFor(ctx, doctorID, audit.ActionDeletePatient, patientID, nil)
	return nil
}

// auditFor records a patient mutation when a recorder is configured.
func (s *PatientService) auditFor(ctx context.Context, doctorID *uint, action string, patientID uint, details map[string]any) {
	if s.Audit == nil {
		return
	}
	id := fallbackAuditDoctorID
	if doctorID != nil {
		id = *doctorID
	}
	s.Audit.Record(ctx, id, action, audit.EntityPatients, &patientID, details)
}
