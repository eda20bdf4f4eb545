// Package audit records doctor actions against entities as append-only trail
// rows. Writes are strictly best-effort: the recorder catches every
// persistence error, logs it, and increments a failure counter, so auditing
// can never block or fail the operation it documents. Operational visibility
// of dropped entries comes from the Prometheus counter, not from errors.
package audit

import (
	"context"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/repo"
)

// Action tags recorded in the trail.
const (
	ActionCreatePatient   = "CREATE_PATIENT"
	ActionDeletePatient   = "DELETE_PATIENT"
	ActionUpdateNotes     = "UPDATE_NOTES"
	ActionUpdateSignature = "UPDATE_SIGNATURE"
	ActionRunAssessment   = "RUN_ASSESSMENT"
	ActionResetSystem     = "RESET_SYSTEM"
)

// Entity types recorded in the trail.
const (
	EntityPatients = "patients"
	EntityRecords  = "records"
	EntitySystem   = "system"
)

// writeFailures counts audit rows that could not be persisted and were
// dropped. This is the only externally visible signal of a failed write.
var writeFailures = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "audit_write_failures_total",
	Help: "Total number of audit log entries dropped due to write errors.",
})

func init() {
	prometheus.MustRegister(writeFailures)
}

// Recorder appends audit rows through a GORM handle.
type Recorder struct {
	DB *gorm.DB
}

// NewRecorder returns a Recorder bound to db.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// Record appends one audit row. entityID may be nil for system-wide actions;
// details, when non-nil, is JSON-encoded into the row. Any failure —
// marshaling or persistence — is logged and counted, never returned, so the
// call is safe to make from any code path without error handling.
func (r *Recorder) Record(ctx context.Context, doctorID uint, action, entity string, entityID *uint, details map[string]any) {
	entry := &domain.AuditLog{
		DoctorID: doctorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			writeFailures.Inc()
			log.Error().Err(err).Str("action", action).Msg("audit details marshal failed")
			return
		}
		entry.Details = string(b)
	}

	if err := repo.CreateAuditLog(ctx, r.DB, entry); err != nil {
		writeFailures.Inc()
		log.Error().Err(err).
			Uint("doctor_id", doctorID).
			Str("action", action).
			Str("entity", entity).
			Msg("audit write failed")
		return
	}

	log.Debug().
		Uint("doctor_id", doctorID).
		Str("action", action).
		Str("entity", entity).
		Msg("audit recorded")
}
