package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/repo"
	"github.com/cardioai/cardioai-backend/internal/services"
)

// stubSvc implements every handler-facing service interface with overridable
// function fields; nil fields return zero values. One stub serves all tests.
type stubSvc struct {
	assess          func(ctx context.Context, req services.AssessmentRequest) (*services.AssessmentResult, error)
	createPatient   func(ctx context.Context, name string, age, sex int, contact string, doctorID *uint) (*domain.Patient, error)
	listPatients    func(ctx context.Context, doctorID *uint, page, pageSize int) ([]domain.Patient, int64, error)
	records         func(ctx context.Context, patientID uint) ([]domain.Record, error)
	updateNotes     func(ctx context.Context, patientID uint, notes string, doctorID *uint) error
	updateSignature func(ctx context.Context, patientID uint, signature string, doctorID *uint) error
	deletePatient   func(ctx context.Context, patientID uint, doctorID *uint) error
	leaveFeedback   func(ctx context.Context, patientID *uint, name string, rating int, comment string) (*domain.Feedback, error)
	listFeedbacks   func(ctx context.Context, page, pageSize int) ([]domain.Feedback, int64, error)
	register        func(ctx context.Context, username, password, email string) (*domain.User, error)
	login           func(ctx context.Context, username, password, callerKey string) (string, *domain.User, error)
	pinLogin        func(ctx context.Context, pin, callerKey string) (string, error)
	dashboard       func(ctx context.Context, doctorID *uint) (*repo.DashboardStats, error)
	distribution    func(ctx context.Context, doctorID *uint) ([]repo.RiskBucket, error)
	trends          func(ctx context.Context, doctorID *uint, months int) ([]repo.MonthlyTrend, error)
	performance     func(ctx context.Context) ([]repo.DoctorPerformance, error)
	listDoctors     func(ctx context.Context) ([]domain.Doctor, error)
	reset           func(ctx context.Context, secret string, doctorID *uint) error
	contact         func(ctx context.Context, msg services.ContactMessage)
}

func (s *stubSvc) Assess(ctx context.Context, req services.AssessmentRequest) (*services.AssessmentResult, error) {
	if s.assess != nil {
		return s.assess(ctx, req)
	}
	return &services.AssessmentResult{}, nil
}

func (s *stubSvc) Create(ctx context.Context, name string, age, sex int, contact string, doctorID *uint) (*domain.Patient, error) {
	if s.createPatient != nil {
		return s.createPatient(ctx, name, age, sex, contact, doctorID)
	}
	return &domain.Patient{Name: name}, nil
}

func (s *stubSvc) ListPage(ctx context.Context, doctorID *uint, page, pageSize int) ([]domain.Patient, int64, error) {
	if s.listPatients != nil {
		return s.listPatients(ctx, doctorID, page, pageSize)
	}
	return nil, 0, nil
}

func (s *stubSvc) Records(ctx context.Context, patientID uint) ([]domain.Record, error) {
	if s.records != nil {
		return s.records(ctx, patientID)
	}
	return nil, nil
}

func (s *stubSvc) UpdateNotes(ctx context.Context, patientID uint, notes string, doctorID *uint) error {
	if s.updateNotes != nil {
		return s.updateNotes(ctx, patientID, notes, doctorID)
	}
	return nil
}

func (s *stubSvc) UpdateSignature(ctx context.Context, patientID uint, signature string, doctorID *uint) error {
	if s.updateSignature != nil {
		return s.updateSignature(ctx, patientID, signature, doctorID)
	}
	return nil
}

func (s *stubSvc) Delete(ctx context.Context, patientID uint, doctorID *uint) error {
	if s.deletePatient != nil {
		return s.deletePatient(ctx, patientID, doctorID)
	}
	return nil
}

func (s *stubSvc) Leave(ctx context.Context, patientID *uint, name string, rating int, comment string) (*domain.Feedback, error) {
	if s.leaveFeedback != nil {
		return s.leaveFeedback(ctx, patientID, name, rating, comment)
	}
	return &domain.Feedback{Rating: rating}, nil
}

func (s *stubSvc) ListFeedbackPage(ctx context.Context, page, pageSize int) ([]domain.Feedback, int64, error) {
	if s.listFeedbacks != nil {
		return s.listFeedbacks(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (s *stubSvc) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	if s.register != nil {
		return s.register(ctx, username, password, email)
	}
	return &domain.User{Username: username, Role: "doctor"}, nil
}

func (s *stubSvc) Login(ctx context.Context, username, password, callerKey string) (string, *domain.User, error) {
	if s.login != nil {
		return s.login(ctx, username, password, callerKey)
	}
	return "tok", &domain.User{Username: username, Role: "doctor"}, nil
}

func (s *stubSvc) LoginWithPIN(ctx context.Context, pin, callerKey string) (string, error) {
	if s.pinLogin != nil {
		return s.pinLogin(ctx, pin, callerKey)
	}
	return "tok", nil
}

func (s *stubSvc) Dashboard(ctx context.Context, doctorID *uint) (*repo.DashboardStats, error) {
	if s.dashboard != nil {
		return s.dashboard(ctx, doctorID)
	}
	return &repo.DashboardStats{}, nil
}

func (s *stubSvc) RiskDistribution(ctx context.Context, doctorID *uint) ([]repo.RiskBucket, error) {
	if s.distribution != nil {
		return s.distribution(ctx, doctorID)
	}
	return nil, nil
}

func (s *stubSvc) MonthlyTrends(ctx context.Context, doctorID *uint, months int) ([]repo.MonthlyTrend, error) {
	if s.trends != nil {
		return s.trends(ctx, doctorID, months)
	}
	return nil, nil
}

func (s *stubSvc) DoctorPerformance(ctx context.Context) ([]repo.DoctorPerformance, error) {
	if s.performance != nil {
		return s.performance(ctx)
	}
	return nil, nil
}

func (s *stubSvc) List(ctx context.Context) ([]domain.Doctor, error) {
	if s.listDoctors != nil {
		return s.listDoctors(ctx)
	}
	return nil, nil
}

func (s *stubSvc) Reset(ctx context.Context, secret string, doctorID *uint) error {
	if s.reset != nil {
		return s.reset(ctx, secret, doctorID)
	}
	return nil
}

func (s *stubSvc) Submit(ctx context.Context, msg services.ContactMessage) {
	if s.contact != nil {
		s.contact(ctx, msg)
	}
}

// newTestRouter mounts all handler routes over one stub, unauthenticated.
func newTestRouter(s *stubSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(s, s, feedbackShim{s}, s, s, s, s, s)

	r := gin.New()
	r.POST("/predict", h.Predict)
	r.POST("/patients", h.CreatePatient)
	r.GET("/patients", h.ListPatients)
	r.GET("/patients/:id/records", h.PatientRecords)
	r.PUT("/patients/:id/notes", h.UpdatePatientNotes)
	r.PUT("/patients/:id/signature", h.UpdatePatientSignature)
	r.DELETE("/patients/:id", h.DeletePatient)
	r.POST("/feedbacks", h.LeaveFeedback)
	r.GET("/feedbacks", h.ListFeedbacks)
	r.POST("/register", h.Register)
	r.POST("/doctor/login", h.DoctorLogin)
	r.POST("/pin-login", h.PINLogin)
	r.GET("/dashboard/stats", h.DashboardStats)
	r.GET("/analytics/summary", h.AnalyticsSummary)
	r.GET("/doctors", h.ListDoctors)
	r.POST("/reset", h.Reset)
	r.POST("/contact", h.Contact)
	return r
}

// feedbackShim renames the stub's feedback listing method to the interface's
// ListPage without colliding with the patient listing method.
type feedbackShim struct{ s *stubSvc }

func (f feedbackShim) Leave(ctx context.Context, patientID *uint, name string, rating int, comment string) (*domain.Feedback, error) {
	return f.s.Leave(ctx, patientID, name, rating, comment)
}

func (f feedbackShim) ListPage(ctx context.Context, page, pageSize int) ([]domain.Feedback, int64, error) {
	return f.s.ListFeedbackPage(ctx, page, pageSize)
}
