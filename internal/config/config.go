// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, storage backend selection, inference
// artifact paths, authentication secrets, rate limiting, mail relay, and
// observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backend identifiers accepted by DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// AuthConfig holds token and login-protection settings.
type AuthConfig struct {
	JWTSecret     string        // JWT_SECRET (HS256 signing key)
	TokenTTL      time.Duration // TOKEN_TTL for password logins
	PIN           string        // ACCESS_PIN for the shared-PIN fast path
	PINTokenTTL   time.Duration // PIN_TOKEN_TTL (longer-lived than TokenTTL)
	MaxAttempts   int           // LOGIN_MAX_ATTEMPTS before lockout
	LockoutWindow time.Duration // LOGIN_LOCKOUT_WINDOW
	ResetSecret   string        // RESET_SECRET guarding POST /reset
}

// MailConfig holds outbound SMTP relay settings for the contact form.
type MailConfig struct {
	Host     string // MAIL_SERVER
	Port     int    // MAIL_PORT
	Username string // MAIL_USERNAME (also the From address)
	Password string // MAIL_PASSWORD; empty disables actual sends
	To       string // MAIL_TO (admin inbox)
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "cardioai-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	DebugErrors bool   // include internal error detail in 5xx bodies

	// Storage
	DBDriver    string // sqlite|postgres
	DBPath      string // SQLite file path (sqlite driver)
	DatabaseURL string // DSN for the networked engine (postgres driver)

	// Inference artifacts (exported offline; absence disables /predict)
	ModelPath  string // MODEL_PATH
	ScalerPath string // SCALER_PATH

	// Auth
	Auth AuthConfig

	// Rate limiting (whole-API token bucket)
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Mail
	Mail MailConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		DebugErrors: getbool("DEBUG_ERRORS", false),

		// Storage
		DBDriver:    strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBPath:      getenv("DB_PATH", "cardioai.db"),
		DatabaseURL: getenv("DATABASE_URL", ""),

		// Inference artifacts
		ModelPath:  getenv("MODEL_PATH", "models/heart_model.json"),
		ScalerPath: getenv("SCALER_PATH", "models/scaler.json"),

		// Auth
		Auth: AuthConfig{
			JWTSecret:     getenv("JWT_SECRET", ""),
			TokenTTL:      getdur("TOKEN_TTL", 8*time.Hour),
			PIN:           getenv("ACCESS_PIN", ""),
			PINTokenTTL:   getdur("PIN_TOKEN_TTL", 30*24*time.Hour),
			MaxAttempts:   getint("LOGIN_MAX_ATTEMPTS", 3),
			LockoutWindow: getdur("LOGIN_LOCKOUT_WINDOW", 60*time.Second),
			ResetSecret:   getenv("RESET_SECRET", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 10.0),
		RateBurst: getint("RATE_BURST", 20),

		// Mail
		Mail: MailConfig{
			Host:     getenv("MAIL_SERVER", "smtp.gmail.com"),
			Port:     getint("MAIL_PORT", 587),
			Username: getenv("MAIL_USERNAME", "noreply@cardioai.com"),
			Password: getenv("MAIL_PASSWORD", ""),
			To:       getenv("MAIL_TO", "admin@cardioai.com"),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "cardioai-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty when DB_DRIVER=sqlite")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return cfg, errors.New("DATABASE_URL must not be empty when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if strings.TrimSpace(cfg.ModelPath) == "" || strings.TrimSpace(cfg.ScalerPath) == "" {
		return cfg, errors.New("MODEL_PATH and SCALER_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return cfg, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.Auth.TokenTTL <= 0 || cfg.Auth.PINTokenTTL <= 0 {
		return cfg, errors.New("token TTLs must be positive durations")
	}
	if cfg.Auth.MaxAttempts < 1 {
		return cfg, errors.New("LOGIN_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.Auth.LockoutWindow <= 0 {
		return cfg, errors.New("LOGIN_LOCKOUT_WINDOW must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Mail.Port <= 0 || cfg.Mail.Port > 65535 {
		return cfg, errors.New("MAIL_PORT must be a valid TCP port")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
