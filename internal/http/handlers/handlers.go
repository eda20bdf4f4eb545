// Package handlers provides HTTP handler implementations for the public API.
//
// This file declares the service interfaces the handlers depend on, the
// Handlers aggregate, and shared request helpers. Handlers stay
// transport-thin: bind and validate input, delegate to a service, translate
// sentinel errors into envelope responses. Service interfaces are declared
// here (consumer side) so tests can substitute stubs without touching the
// services package.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/repo"
	"github.com/cardioai/cardioai-backend/internal/services"
	"github.com/cardioai/cardioai-backend/internal/utils"
)

// PredictionService runs the full assessment pipeline.
type PredictionService interface {
	Assess(ctx context.Context, req services.AssessmentRequest) (*services.AssessmentResult, error)
}

// PatientService manages patient rows outside the prediction path.
type PatientService interface {
	Create(ctx context.Context, name string, age, sex int, contact string, doctorID *uint) (*domain.Patient, error)
	ListPage(ctx context.Context, doctorID *uint, page, pageSize int) ([]domain.Patient, int64, error)
	Records(ctx context.Context, patientID uint) ([]domain.Record, error)
	UpdateNotes(ctx context.Context, patientID uint, notes string, doctorID *uint) error
	UpdateSignature(ctx context.Context, patientID uint, signature string, doctorID *uint) error
	Delete(ctx context.Context, patientID uint, doctorID *uint) error
}

// FeedbackService records and lists visitor feedback.
type FeedbackService interface {
	Leave(ctx context.Context, patientID *uint, name string, rating int, comment string) (*domain.Feedback, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Feedback, int64, error)
}

// AuthService implements registration and both login paths.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	Login(ctx context.Context, username, password, callerKey string) (string, *domain.User, error)
	LoginWithPIN(ctx context.Context, pin, callerKey string) (string, error)
}

// AnalyticsService serves the dashboard and analytics read models.
type AnalyticsService interface {
	Dashboard(ctx context.Context, doctorID *uint) (*repo.DashboardStats, error)
	RiskDistribution(ctx context.Context, doctorID *uint) ([]repo.RiskBucket, error)
	MonthlyTrends(ctx context.Context, doctorID *uint, months int) ([]repo.MonthlyTrend, error)
	DoctorPerformance(ctx context.Context) ([]repo.DoctorPerformance, error)
}

// DoctorService serves the doctor directory.
type DoctorService interface {
	List(ctx context.Context) ([]domain.Doctor, error)
}

// AdminService implements the guarded environment reset.
type AdminService interface {
	Reset(ctx context.Context, secret string, doctorID *uint) error
}

// ContactService forwards contact-form submissions.
type ContactService interface {
	Submit(ctx context.Context, msg services.ContactMessage)
}

// Handlers aggregates all endpoint implementations over injected services.
type Handlers struct {
	predictSvc   PredictionService
	patientSvc   PatientService
	feedbackSvc  FeedbackService
	authSvc      AuthService
	analyticsSvc AnalyticsService
	doctorSvc    DoctorService
	adminSvc     AdminService
	contactSvc   ContactService
}

// New constructs a Handlers instance bound to the given services.
func New(
	predictSvc PredictionService,
	patientSvc PatientService,
	feedbackSvc FeedbackService,
	authSvc AuthService,
	analyticsSvc AnalyticsService,
	doctorSvc DoctorService,
	adminSvc AdminService,
	contactSvc ContactService,
) *Handlers {
	return &Handlers{
		predictSvc:   predictSvc,
		patientSvc:   patientSvc,
		feedbackSvc:  feedbackSvc,
		authSvc:      authSvc,
		analyticsSvc: analyticsSvc,
		doctorSvc:    doctorSvc,
		adminSvc:     adminSvc,
		contactSvc:   contactSvc,
	}
}

// Pagination is the standard page metadata attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// paginate derives the standard metadata from inputs and a total count.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses page/page_size query params, applying defaults and
// an upper cap on page size.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// doctorFilter reads the optional doctor_id query parameter used to scope
// analytics and patient listings. Invalid values are treated as absent.
func doctorFilter(c *gin.Context) *uint {
	raw := c.Query("doctor_id")
	if raw == "" {
		return nil
	}
	id, ok := utils.UintParam(raw)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// pathID parses the :id route parameter, failing the request with a 400 when
// it is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, ok := utils.UintParam(c.Param("id"))
	if !ok || id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
