// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, and rate limiting.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per subject/IP)
//  9. CORS and security headers
//
// Routes carrying clinical data require a bearer token; the public surface
// (prediction form, feedback, contact, logins) does not.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/audit"
	"github.com/cardioai/cardioai-backend/internal/config"
	"github.com/cardioai/cardioai-backend/internal/http/handlers"
	"github.com/cardioai/cardioai-backend/internal/http/middleware"
	"github.com/cardioai/cardioai-backend/internal/inference"
	"github.com/cardioai/cardioai-backend/internal/mail"
	"github.com/cardioai/cardioai-backend/internal/services"
)

// RegisterRoutes attaches all middleware and endpoints to the Gin engine.
// predictor may be nil (artifacts missing); /predict then answers 503.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, predictor inference.Predictor, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	handlers.SetDebugErrors(cfg.DebugErrors)

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per subject/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySubjectOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (allow all when none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Reset-Secret"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Reset-Secret"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db/predictor/config
	recorder := audit.NewRecorder(db)
	limiter := services.NewMemoryLoginLimiter(cfg.Auth.MaxAttempts, cfg.Auth.LockoutWindow)

	predictSvc := &services.PredictionService{DB: db, Predictor: predictor, Audit: recorder}
	patientSvc := &services.PatientService{DB: db, Audit: recorder}
	feedbackSvc := &services.FeedbackService{DB: db}
	authSvc := services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL,
		cfg.Auth.PIN, cfg.Auth.PINTokenTTL, limiter)
	analyticsSvc := &services.AnalyticsService{DB: db}
	doctorSvc := &services.DoctorService{DB: db}
	adminSvc := &services.AdminService{DB: db, ResetSecret: cfg.Auth.ResetSecret, Audit: recorder}
	contactSvc := &services.ContactService{
		Sender: mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, ""),
		To:     cfg.Mail.To,
	}

	h := handlers.New(predictSvc, patientSvc, feedbackSvc, authSvc, analyticsSvc, doctorSvc, adminSvc, contactSvc)

	guard := middleware.AuthRequired(func(token string) (string, string, error) {
		claims, err := authSvc.VerifyToken(token)
		if err != nil {
			return "", "", err
		}
		return claims.Subject, claims.Role, nil
	})

	// Public surface
	r.POST("/predict", h.Predict)
	r.POST("/feedbacks", h.LeaveFeedback)
	r.GET("/feedbacks", h.ListFeedbacks)
	r.POST("/register", h.Register)
	r.POST("/doctor/login", h.DoctorLogin)
	r.POST("/pin-login", h.PINLogin)
	r.POST("/contact", h.Contact)
	r.GET("/doctors", h.ListDoctors)
	r.POST("/reset", h.Reset) // guarded by its own secondary credential

	// Clinical surface (bearer token required)
	auth := r.Group("", guard)
	{
		auth.POST("/patients", h.CreatePatient)
		auth.GET("/patients", h.ListPatients)
		auth.GET("/patients/:id/records", h.PatientRecords)
		auth.PUT("/patients/:id/notes", h.UpdatePatientNotes)
		auth.PUT("/patients/:id/signature", h.UpdatePatientSignature)
		auth.DELETE("/patients/:id", h.DeletePatient)

		auth.GET("/dashboard/stats", h.DashboardStats)
		auth.GET("/analytics/summary", h.AnalyticsSummary)
		auth.GET("/analytics/risk-distribution", h.RiskDistribution)
		auth.GET("/analytics/monthly-trends", h.MonthlyTrends)
		auth.GET("/analytics/doctor-performance", h.DoctorPerformance)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
