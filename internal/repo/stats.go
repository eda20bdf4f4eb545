// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate queries behind the
// dashboard and analytics endpoints. Each function is context-aware, filters
// soft-deleted rows (via the models' DeletedAt), and optionally scopes to one
// doctor. Month bucketing is the only place the two engine dialects differ;
// monthExpr isolates that.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

// DashboardStats is the headline tile data for the clinician dashboard.
type DashboardStats struct {
	TotalPatients    int64   `json:"total_patients"`
	TotalAssessments int64   `json:"total_assessments"`
	HighRisk         int64   `json:"high_risk"`
	MediumRisk       int64   `json:"medium_risk"`
	LowRisk          int64   `json:"low_risk"`
	AvgRiskScore     float64 `json:"avg_risk_score"`
}

// RiskBucket is one slice of the risk-level distribution.
type RiskBucket struct {
	RiskLevel string `json:"risk_level"`
	Count     int64  `json:"count"`
}

// MonthlyTrend aggregates assessments for one calendar month.
type MonthlyTrend struct {
	Month        string  `json:"month"` // "YYYY-MM"
	Assessments  int64   `json:"assessments"`
	AvgRiskScore float64 `json:"avg_risk_score"`
	HighRisk     int64   `json:"high_risk"`
}

// DoctorPerformance aggregates assessment activity per doctor label.
type DoctorPerformance struct {
	DoctorName   string  `json:"doctor_name"`
	Assessments  int64   `json:"assessments"`
	HighRisk     int64   `json:"high_risk"`
	AvgRiskScore float64 `json:"avg_risk_score"`
}

// recordsScope applies the optional doctor filter to the records table.
func recordsScope(ctx context.Context, db *gorm.DB, doctorID *uint) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Record{})
	if doctorID != nil {
		q = q.Where("doctor_id = ?", *doctorID)
	}
	return q
}

// GetDashboardStats computes the headline counts and the average risk score
// over visible records, optionally filtered by doctor.
func GetDashboardStats(ctx context.Context, db *gorm.DB, doctorID *uint) (*DashboardStats, error) {
	var s DashboardStats
	var err error

	if s.TotalPatients, err = CountPatients(ctx, db, doctorID); err != nil {
		return nil, err
	}
	if err = recordsScope(ctx, db, doctorID).Count(&s.TotalAssessments).Error; err != nil {
		return nil, err
	}
	for level, dst := range map[string]*int64{
		"High":   &s.HighRisk,
		"Medium": &s.MediumRisk,
		"Low":    &s.LowRisk,
	} {
		if err = recordsScope(ctx, db, doctorID).Where("risk_level = ?", level).Count(dst).Error; err != nil {
			return nil, err
		}
	}
	if s.TotalAssessments > 0 {
		row := struct{ Avg float64 }{}
		if err = recordsScope(ctx, db, doctorID).
			Select("AVG(risk_score) as avg").
			Scan(&row).Error; err != nil {
			return nil, err
		}
		s.AvgRiskScore = row.Avg
	}
	return &s, nil
}

// GetRiskDistribution returns record counts grouped by risk level,
// most severe first, optionally filtered by doctor.
func GetRiskDistribution(ctx context.Context, db *gorm.DB, doctorID *uint) ([]RiskBucket, error) {
	var out []RiskBucket
	err := recordsScope(ctx, db, doctorID).
		Select("risk_level, COUNT(*) as count").
		Group("risk_level").
		Order("CASE risk_level WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 ELSE 2 END").
		Scan(&out).Error
	return out, err
}

// GetMonthlyTrends returns per-month assessment aggregates for the most
// recent months (newest first), optionally filtered by doctor.
func GetMonthlyTrends(ctx context.Context, db *gorm.DB, doctorID *uint, months int) ([]MonthlyTrend, error) {
	if months < 1 {
		months = 12
	}
	var out []MonthlyTrend
	err := recordsScope(ctx, db, doctorID).
		Select(monthExpr(db) + ` as month,
			COUNT(*) as assessments,
			AVG(risk_score) as avg_risk_score,
			SUM(CASE WHEN risk_level = 'High' THEN 1 ELSE 0 END) as high_risk`).
		Group("month").
		Order("month desc").
		Limit(months).
		Scan(&out).Error
	return out, err
}

// GetDoctorPerformance returns per-doctor assessment aggregates ordered by
// volume.
func GetDoctorPerformance(ctx context.Context, db *gorm.DB) ([]DoctorPerformance, error) {
	var out []DoctorPerformance
	err := db.WithContext(ctx).Model(&domain.Record{}).
		Select(`doctor_name,
			COUNT(*) as assessments,
			SUM(CASE WHEN risk_level = 'High' THEN 1 ELSE 0 END) as high_risk,
			AVG(risk_score) as avg_risk_score`).
		Where("doctor_name <> ''").
		Group("doctor_name").
		Order("assessments desc").
		Scan(&out).Error
	return out, err
}

// monthExpr renders a "YYYY-MM" bucket for created_at in the connected
// engine's dialect.
func monthExpr(db *gorm.DB) string {
	if IsPostgres(db) {
		return "to_char(created_at, 'YYYY-MM')"
	}
	return "strftime('%Y-%m', created_at)"
}
