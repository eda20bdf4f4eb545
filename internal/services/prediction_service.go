// Package services – PredictionService
//
// This file implements the PredictionService, the orchestrator of the
// prediction path. One call runs the full pipeline for a request:
// validate → infer → classify → narrate → persist → audit → result.
// Inference is a black box behind the inference.Predictor interface; risk
// classification and narrative generation are pure functions from the risk
// package. Persistence (patient upsert + record append) happens inside one
// transaction so a failure cannot leave a patient updated without its
// assessment row. Auditing is fire-and-forget and can never fail the call.
package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cardioai/cardioai-backend/internal/audit"
	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/inference"
	"github.com/cardioai/cardioai-backend/internal/repo"
	"github.com/cardioai/cardioai-backend/internal/risk"
)

// fallbackAuditDoctorID labels audit rows for assessments that arrive
// without an authenticated doctor (the public prediction form).
const fallbackAuditDoctorID uint = 1

// AssessmentRequest carries a validated prediction payload: who the patient
// is, who ran the assessment, and the 13 clinical measurements.
type AssessmentRequest struct {
	Name       string
	Contact    string
	DoctorName string
	DoctorID   *uint
	Input      domain.ClinicalInput
}

// AssessmentResult is the structured outcome returned to the client.
type AssessmentResult struct {
	Prediction  int        `json:"prediction"`
	RiskScore   float64    `json:"risk_score"`
	RiskLevel   risk.Level `json:"risk_level"`
	PatientID   uint       `json:"patient_id"`
	RecordID    uint       `json:"record_id"`
	Explanation string     `json:"explanation"`
}

// PredictionService coordinates inference, classification, narrative
// generation, and persistence for one assessment.
type PredictionService struct {
	DB *gorm.DB
	// Predictor is nil when the artifacts failed to load at startup; every
	// assessment then fails with ErrModelUnavailable.
	Predictor inference.Predictor
	Audit     *audit.Recorder
}

// Assess runs the prediction pipeline.
//
// Validation: the patient name must be non-blank and every clinical field
// finite; violations return ErrInvalidInput. A nil Predictor returns
// ErrModelUnavailable. Persistence runs in one transaction: the patient row
// is found-or-created by exact name (demographics, risk level, and system
// notes overwritten), then the immutable record row is appended with the
// serialized input snapshot. The audit write happens after commit and is
// best-effort.
func (s *PredictionService) Assess(ctx context.Context, req AssessmentRequest) (*AssessmentResult, error) {
	tr := otel.Tracer("services/PredictionService")
	ctx, span := tr.Start(ctx, "Assess",
		trace.WithAttributes(attribute.String("patient.name", req.Name)),
	)
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || !req.Input.Finite() {
		return nil, ErrInvalidInput
	}
	if s.Predictor == nil {
		return nil, ErrModelUnavailable
	}

	class, prob := s.Predictor.Predict(req.Input.Features())
	level := risk.Classify(prob)
	notes := risk.SystemNotes(level, prob, req.Input)

	snapshot, err := json.Marshal(req.Input)
	if err != nil {
		return nil, err
	}

	var (
		patient *domain.Patient
		record  *domain.Record
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.UpsertPatientByName(ctx, tx, repo.PatientUpsert{
			Name:        req.Name,
			Age:         int(req.Input.Age),
			Sex:         int(req.Input.Sex),
			Contact:     req.Contact,
			RiskLevel:   string(level),
			SystemNotes: notes,
			DoctorName:  req.DoctorName,
			DoctorID:    req.DoctorID,
		})
		if err != nil {
			return err
		}
		patient = p

		r := &domain.Record{
			PatientID:  p.ID,
			InputData:  string(snapshot),
			Prediction: class,
			RiskScore:  prob,
			RiskLevel:  string(level),
			DoctorName: req.DoctorName,
			DoctorID:   req.DoctorID,
		}
		if err := repo.CreateRecord(ctx, tx, r); err != nil {
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("risk.score", prob),
		attribute.String("risk.level", string(level)),
	)

	if s.Audit != nil {
		doctorID := fallbackAuditDoctorID
		if req.DoctorID != nil {
			doctorID = *req.DoctorID
		}
		recID := record.ID
		s.Audit.Record(ctx, doctorID, audit.ActionRunAssessment, audit.EntityRecords, &recID, map[string]any{
			"patient_id": patient.ID,
			"risk_level": string(level),
		})
	}

	return &AssessmentResult{
		Prediction:  class,
		RiskScore:   prob,
		RiskLevel:   level,
		PatientID:   patient.ID,
		RecordID:    record.ID,
		Explanation: notes,
	}, nil
}
