package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/services"
)

func TestRegister_Created(t *testing.T) {
	stub := &stubSvc{
		register: func(_ context.Context, username, password, email string) (*domain.User, error) {
			u := &domain.User{Username: username, Email: email, Role: "doctor"}
			u.ID = 12
			return u, nil
		},
	}
	r := newTestRouter(stub)

	w := doJSON(r, http.MethodPost, "/register", []byte(`{"username":"drwho","password":"pw","email":"d@h.org"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}

	var res RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ID != 12 || res.Username != "drwho" || res.Role != "doctor" {
		t.Fatalf("unexpected response: %+v", res)
	}
	if containsKey(t, w.Body.Bytes(), "password") {
		t.Fatal("response must not echo the password")
	}
}

func containsKey(t *testing.T, body []byte, key string) bool {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	_, ok := m[key]
	return ok
}

func TestRegister_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"duplicate", services.ErrDuplicateUsername, http.StatusConflict},
		{"blank", services.ErrInvalidCredentials, http.StatusBadRequest},
	}

	for _, tc := range cases {
		stub := &stubSvc{
			register: func(context.Context, string, string, string) (*domain.User, error) {
				return nil, tc.err
			},
		}
		w := doJSON(newTestRouter(stub), http.MethodPost, "/register", []byte(`{"username":"x","password":"y"}`))
		if w.Code != tc.wantStatus {
			t.Fatalf("%s: want %d, got %d", tc.name, tc.wantStatus, w.Code)
		}
	}
}

func TestDoctorLogin_Success(t *testing.T) {
	stub := &stubSvc{
		login: func(_ context.Context, username, password, callerKey string) (string, *domain.User, error) {
			if callerKey == "" {
				t.Fatal("caller key must be populated from the client address")
			}
			return "jwt-token", &domain.User{Username: username, Role: "doctor"}, nil
		},
	}
	w := doJSON(newTestRouter(stub), http.MethodPost, "/doctor/login", []byte(`{"username":"drwho","password":"pw"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}

	var res TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Token != "jwt-token" || res.Role != "doctor" {
		t.Fatalf("unexpected token response: %+v", res)
	}
}

func TestDoctorLogin_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"locked out", services.ErrLoginLocked, http.StatusTooManyRequests, ErrCodeLocked},
	}

	for _, tc := range cases {
		stub := &stubSvc{
			login: func(context.Context, string, string, string) (string, *domain.User, error) {
				return "", nil, tc.err
			},
		}
		w := doJSON(newTestRouter(stub), http.MethodPost, "/doctor/login", []byte(`{"username":"x","password":"y"}`))
		if w.Code != tc.wantStatus {
			t.Fatalf("%s: want %d, got %d", tc.name, tc.wantStatus, w.Code)
		}
		var res ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("%s: unmarshal envelope: %v", tc.name, err)
		}
		if res.Code != tc.wantCode {
			t.Fatalf("%s: want code %q, got %q", tc.name, tc.wantCode, res.Code)
		}
	}
}

func TestDoctorLogin_MissingFields(t *testing.T) {
	w := doJSON(newTestRouter(&stubSvc{}), http.MethodPost, "/doctor/login", []byte(`{"username":"x"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestPINLogin(t *testing.T) {
	stub := &stubSvc{
		pinLogin: func(_ context.Context, pin, _ string) (string, error) {
			if pin != "4321" {
				return "", services.ErrInvalidCredentials
			}
			return "pin-token", nil
		},
	}
	r := newTestRouter(stub)

	w := doJSON(r, http.MethodPost, "/pin-login", []byte(`{"pin":"4321"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/pin-login", []byte(`{"pin":"0000"}`))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong pin: want 401, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/pin-login", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing pin: want 400, got %d", w.Code)
	}
}
