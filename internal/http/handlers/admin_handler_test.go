package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardioai/cardioai-backend/internal/services"
)

func TestReset_RequiresSecretHeader(t *testing.T) {
	stub := &stubSvc{
		reset: func(_ context.Context, secret string, _ *uint) error {
			if secret != "topsecret" {
				return services.ErrResetForbidden
			}
			return nil
		},
	}
	r := newTestRouter(stub)

	w := doJSON(r, http.MethodPost, "/reset", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no secret: want 401, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/reset", nil)
	req.Header.Set("X-Reset-Secret", "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: want 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/reset", nil)
	req.Header.Set("X-Reset-Secret", "topsecret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid secret: want 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "reset complete") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestContact_AlwaysAccepts(t *testing.T) {
	var got services.ContactMessage
	stub := &stubSvc{
		contact: func(_ context.Context, msg services.ContactMessage) { got = msg },
	}
	r := newTestRouter(stub)

	w := doJSON(r, http.MethodPost, "/contact",
		[]byte(`{"name":"V","email":"v@h.org","subject":"Hi","message":"Hello"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.Email != "v@h.org" || got.Message != "Hello" {
		t.Fatalf("message not forwarded: %+v", got)
	}

	w = doJSON(r, http.MethodPost, "/contact", []byte(`{"name":"V"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: want 400, got %d", w.Code)
	}
}

func TestErrorEnvelope_Shape(t *testing.T) {
	w := doJSON(newTestRouter(&stubSvc{}), http.MethodPost, "/contact", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// request_id is omitted here because the test router skips the request-id
	// middleware; code and message are always present.
	for _, key := range []string{"code", "message"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("envelope missing %q: %v", key, m)
		}
	}
}
