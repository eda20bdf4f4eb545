// Package services – AdminService
//
// The environment reset wipes patient, record, and feedback data and rewinds
// the auto-increment counters. It is gated behind a secondary credential that
// is separate from login auth; an unset secret disables the operation
// entirely. Doctors, users, and audit rows survive, and the wipe itself is
// audited.
package services

import (
	"context"
	"crypto/subtle"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/audit"
	"github.com/cardioai/cardioai-backend/internal/repo"
)

// AdminService implements destructive maintenance operations.
type AdminService struct {
	DB          *gorm.DB
	ResetSecret string // empty disables Reset
	Audit       *audit.Recorder
}

// Reset wipes patients, records, and feedback after verifying the secondary
// credential. A missing or wrong secret returns ErrResetForbidden and leaves
// the data untouched.
func (s *AdminService) Reset(ctx context.Context, secret string, doctorID *uint) error {
	if s.ResetSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.ResetSecret)) != 1 {
		return ErrResetForbidden
	}
	if err := repo.WipeData(ctx, s.DB); err != nil {
		return err
	}
	if s.Audit != nil {
		id := fallbackAuditDoctorID
		if doctorID != nil {
			id = *doctorID
		}
		s.Audit.Record(ctx, id, audit.ActionResetSystem, audit.EntitySystem, nil, nil)
	}
	return nil
}
