// Package services – AnalyticsService
//
// Read-only aggregates over visible (non-deleted) assessment data. The
// heavy lifting lives in repo's SQL; this layer adds the doctor scoping
// contract and tracing.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"

	"github.com/cardioai/cardioai-backend/internal/repo"
)

// AnalyticsService serves the dashboard and analytics read models.
type AnalyticsService struct {
	DB *gorm.DB
}

// Dashboard returns the headline tile counts, optionally scoped to a doctor.
func (s *AnalyticsService) Dashboard(ctx context.Context, doctorID *uint) (*repo.DashboardStats, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Dashboard")
	defer span.End()

	return repo.GetDashboardStats(ctx, s.DB, doctorID)
}

// RiskDistribution returns assessment counts per risk level, most severe
// first.
func (s *AnalyticsService) RiskDistribution(ctx context.Context, doctorID *uint) ([]repo.RiskBucket, error) {
	return repo.GetRiskDistribution(ctx, s.DB, doctorID)
}

// MonthlyTrends returns per-month assessment aggregates for the most recent
// months.
func (s *AnalyticsService) MonthlyTrends(ctx context.Context, doctorID *uint, months int) ([]repo.MonthlyTrend, error) {
	return repo.GetMonthlyTrends(ctx, s.DB, doctorID, months)
}

// DoctorPerformance returns per-doctor assessment aggregates ordered by
// volume.
func (s *AnalyticsService) DoctorPerformance(ctx context.Context) ([]repo.DoctorPerformance, error) {
	return repo.GetDoctorPerformance(ctx, s.DB)
}
