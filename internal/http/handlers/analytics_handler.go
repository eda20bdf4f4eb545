// Analytics and dashboard HTTP handlers.
//
//   - GET /dashboard/stats               (headline tiles)
//   - GET /analytics/summary             (tiles + risk distribution)
//   - GET /analytics/risk-distribution
//   - GET /analytics/monthly-trends      (?months=N, default 12)
//   - GET /analytics/doctor-performance
//   - GET /doctors                       (directory for form dropdowns)
//
// All read models accept an optional doctor_id query filter where the
// underlying aggregate supports it.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/repo"
	"github.com/cardioai/cardioai-backend/internal/utils"
)

// AnalyticsSummaryResponse combines the headline tiles with the risk-level
// distribution for the analytics landing view.
type AnalyticsSummaryResponse struct {
	Stats            *repo.DashboardStats `json:"stats"`
	RiskDistribution []repo.RiskBucket    `json:"risk_distribution"`
}

// DashboardStats handles GET /dashboard/stats.
func (h *Handlers) DashboardStats(c *gin.Context) {
	stats, err := h.analyticsSvc.Dashboard(c.Request.Context(), doctorFilter(c))
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, stats)
}

// AnalyticsSummary handles GET /analytics/summary.
func (h *Handlers) AnalyticsSummary(c *gin.Context) {
	ctx := c.Request.Context()
	doctorID := doctorFilter(c)

	stats, err := h.analyticsSvc.Dashboard(ctx, doctorID)
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	dist, err := h.analyticsSvc.RiskDistribution(ctx, doctorID)
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, AnalyticsSummaryResponse{Stats: stats, RiskDistribution: dist})
}

// RiskDistribution handles GET /analytics/risk-distribution.
func (h *Handlers) RiskDistribution(c *gin.Context) {
	dist, err := h.analyticsSvc.RiskDistribution(c.Request.Context(), doctorFilter(c))
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"risk_distribution": dist})
}

// MonthlyTrends handles GET /analytics/monthly-trends.
func (h *Handlers) MonthlyTrends(c *gin.Context) {
	months := utils.AtoiDefault(c.Query("months"), 12)

	trends, err := h.analyticsSvc.MonthlyTrends(c.Request.Context(), doctorFilter(c), months)
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"monthly_trends": trends})
}

// DoctorPerformance handles GET /analytics/doctor-performance.
func (h *Handlers) DoctorPerformance(c *gin.Context) {
	perf, err := h.analyticsSvc.DoctorPerformance(c.Request.Context())
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"doctor_performance": perf})
}

// ListDoctors handles GET /doctors.
func (h *Handlers) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorSvc.List(c.Request.Context())
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"doctors": doctors})
}
