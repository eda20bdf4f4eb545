package config

import (
	"strings"
	"testing"
	"time"
)

// withBaseEnv sets the minimum required environment for a valid Load.
func withBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	withBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("server defaults wrong: %+v", cfg)
	}
	if cfg.DBDriver != DriverSQLite || cfg.DBPath != "cardioai.db" {
		t.Fatalf("storage defaults wrong: %q/%q", cfg.DBDriver, cfg.DBPath)
	}
	if cfg.Auth.TokenTTL != 8*time.Hour || cfg.Auth.PINTokenTTL != 30*24*time.Hour {
		t.Fatalf("token ttl defaults wrong: %v/%v", cfg.Auth.TokenTTL, cfg.Auth.PINTokenTTL)
	}
	if cfg.Auth.MaxAttempts != 3 || cfg.Auth.LockoutWindow != 60*time.Second {
		t.Fatalf("lockout defaults wrong: %d/%v", cfg.Auth.MaxAttempts, cfg.Auth.LockoutWindow)
	}
	if cfg.RateRPS != 10.0 || cfg.RateBurst != 20 {
		t.Fatalf("rate defaults wrong: %v/%d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.OTEL.Enabled {
		t.Fatal("otel must default to disabled")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	withBaseEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/cardioai")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with url: %v", err)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Fatalf("driver: %q", cfg.DBDriver)
	}
}

func TestLoad_UnknownDriverRejected(t *testing.T) {
	withBaseEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Fatalf("expected DB_DRIVER error, got %v", err)
	}
}

func TestLoad_Normalization(t *testing.T) {
	withBaseEnv(t)
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("warning alias not normalized: %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("unknown gin mode not coerced: %q", cfg.GinMode)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	withBaseEnv(t)
	t.Setenv("READ_TIMEOUT", "not-a-duration")
	t.Setenv("RATE_BURST", "many")
	t.Setenv("LOG_PRETTY", "sure")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ReadTimeout != 15*time.Second || cfg.RateBurst != 20 || cfg.LogPretty {
		t.Fatalf("unparsable values must fall back to defaults: %+v", cfg)
	}
}

func TestLoad_CORSSplitting(t *testing.T) {
	withBaseEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORS.AllowedOrigins) != len(want) {
		t.Fatalf("origins: %v", cfg.CORS.AllowedOrigins)
	}
	for i, o := range want {
		if cfg.CORS.AllowedOrigins[i] != o {
			t.Fatalf("origin %d: want %q, got %q", i, o, cfg.CORS.AllowedOrigins[i])
		}
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		key, val, wantSubstr string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"MAX_HEADER_BYTES", "-1", "MAX_HEADER_BYTES"},
		{"LOGIN_MAX_ATTEMPTS", "0", "LOGIN_MAX_ATTEMPTS"},
		{"RATE_BURST", "0", "RATE_BURST"},
		{"MAIL_PORT", "70000", "MAIL_PORT"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			withBaseEnv(t)
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Fatalf("%s=%s: expected error mentioning %s, got %v", tc.key, tc.val, tc.wantSubstr, err)
			}
		})
	}
}
