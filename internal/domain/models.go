// Package domain defines the persistence models for patients, assessment
// records, doctors, users, feedback, and audit logs. These types are mapped
// with GORM and form the core data layer of the clinical decision-support
// application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Patient status values stored in Patient.Status.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Patient represents one person under assessment. Patients are keyed by an
// auto-incrementing surrogate id, but the prediction flow matches them by
// exact name equality (a deliberate weak key inherited from the clinical
// intake workflow), so Name carries a unique index to keep concurrent first
// assessments from creating duplicates.
//
// Fields:
//   - Name: display name, unique, used by upsert-by-name.
//   - Age / Sex / Contact: demographic snapshot, overwritten on every
//     assessment for the same name.
//   - Status: workflow status, defaults to "Active".
//   - DoctorNotes: free text written by clinicians.
//   - SystemNotes: generated narrative from the last assessment.
//   - RiskLevel: last computed risk level ("High"/"Medium"/"Low"/"Unknown").
//   - DoctorName / DoctorID: owning doctor label and optional principal link.
//   - Signature: opaque encoded signature blob (data URL from the frontend).
//   - DeletedAt: soft deletion marker; deleted rows are retained but
//     excluded from reads.
type Patient struct {
	ID          uint           `json:"id"           gorm:"primaryKey"`
	Name        string         `json:"name"         gorm:"type:varchar(255);not null;uniqueIndex:ux_patients_name"`
	Age         int            `json:"age"`
	Sex         int            `json:"sex"` // 1 = male, 0 = female (dataset coding)
	Contact     string         `json:"contact"      gorm:"type:varchar(64)"`
	Status      string         `json:"status"       gorm:"type:varchar(32);not null;default:'Active'"`
	DoctorNotes string         `json:"doctor_notes" gorm:"type:text"`
	SystemNotes string         `json:"system_notes" gorm:"type:text"`
	RiskLevel   string         `json:"risk_level"   gorm:"type:varchar(16);not null;default:'Unknown'"`
	DoctorName  string         `json:"doctor_name"  gorm:"type:varchar(255)"`
	DoctorID    *uint          `json:"doctor_id,omitempty" gorm:"index:idx_patients_doctor_id"`
	Signature   string         `json:"doctor_signature,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"   gorm:"index:idx_patients_created_at"`
	LastUpdated time.Time      `json:"last_updated" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Patient.
func (Patient) TableName() string { return "patients" }

// Record is one immutable assessment: the serialized 13-field clinical input
// snapshot plus the model output computed at assessment time. Records are
// append-only; they are never updated by any code path.
//
// InputData holds the JSON-serialized clinical fields so that a stored
// assessment reproduces exactly what the model saw. RiskLevel is derived from
// RiskScore with the thresholds active at write time.
type Record struct {
	ID         uint           `json:"id"          gorm:"primaryKey"`
	PatientID  uint           `json:"patient_id"  gorm:"not null;index:idx_records_patient_id"`
	InputData  string         `json:"input_data"  gorm:"type:text;not null"`
	Prediction int            `json:"prediction_result"`
	RiskScore  float64        `json:"risk_score"`
	RiskLevel  string         `json:"risk_level"  gorm:"type:varchar(16);index:idx_records_risk_level"`
	DoctorName string         `json:"doctor_name" gorm:"type:varchar(255)"`
	DoctorID   *uint          `json:"doctor_id,omitempty" gorm:"index:idx_records_doctor_id"`
	CreatedAt  time.Time      `json:"created_at"  gorm:"index:idx_records_created_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// Patient is the owning patient. Records are cascade-deleted only if the
	// patient row is ever hard-removed (which normal flow never does).
	Patient Patient `json:"-" gorm:"foreignKey:PatientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Record.
func (Record) TableName() string { return "records" }

// Doctor is static clinical reference data used to label patients and
// records. Seeded with fixed defaults at first boot.
type Doctor struct {
	ID             uint      `json:"id"             gorm:"primaryKey"`
	Name           string    `json:"name"           gorm:"type:varchar(255);not null"`
	Email          string    `json:"email"          gorm:"type:varchar(255);uniqueIndex:ux_doctors_email"`
	Specialization string    `json:"specialization" gorm:"type:varchar(128);not null;default:'Cardiology'"`
	SignaturePath  string    `json:"signature_path,omitempty" gorm:"type:varchar(512)"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the database table name for Doctor.
func (Doctor) TableName() string { return "doctors" }

// User is an authentication principal. Distinct from Doctor: a user logs in,
// a doctor labels clinical rows; the two are only loosely joined.
//
// PasswordHash normally holds a bcrypt hash. Legacy rows may still hold
// plaintext; those are upgraded in place on first successful login.
type User struct {
	ID           uint      `json:"id"       gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	PasswordHash string    `json:"-"        gorm:"type:varchar(255);not null"`
	Role         string    `json:"role"     gorm:"type:varchar(32);not null;default:'doctor'"`
	Email        string    `json:"email"    gorm:"type:varchar(255)"`
	DoctorID     *uint     `json:"doctor_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Feedback is a write-once rating left by a patient or visitor.
type Feedback struct {
	ID        uint      `json:"id"      gorm:"primaryKey"`
	PatientID *uint     `json:"patient_id,omitempty"`
	Name      string    `json:"name"    gorm:"type:varchar(255)"`
	Rating    int       `json:"rating"  gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedbacks" }

// AuditLog is one append-only trail entry describing a doctor action against
// an entity. Writes are best-effort: a failed audit insert is logged and
// dropped, never surfaced to the operation being audited.
type AuditLog struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	DoctorID  uint      `json:"doctor_id" gorm:"not null;index:idx_audit_doctor_id"`
	Action    string    `json:"action"    gorm:"type:varchar(64);not null"`
	Entity    string    `json:"entity"    gorm:"type:varchar(64);not null"`
	EntityID  *uint     `json:"entity_id,omitempty"`
	Details   string    `json:"details,omitempty" gorm:"type:text"` // JSON-encoded context
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for AuditLog.
func (AuditLog) TableName() string { return "audit_logs" }
