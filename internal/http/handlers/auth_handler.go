// Authentication HTTP handlers.
//
//   - POST /register      (create a doctor account)
//   - POST /doctor/login  (username/password → token)
//   - POST /pin-login     (shared PIN → longer-lived token)
//
// Both login paths feed the lockout limiter keyed by client IP; a locked
// caller gets 429 before credentials are examined. Failed credentials return
// a deliberately generic 401.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/services"
)

// RegisterRequest is the JSON payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

// RegisterResponse confirms the created account without echoing credentials.
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest is the JSON payload for password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PINLoginRequest is the JSON payload for PIN login.
type PINLoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Register handles POST /register.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password required")
		return
	}

	u, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateUsername):
			fail(c, http.StatusConflict, ErrCodeConflict, "username already taken")
		case errors.Is(err, services.ErrInvalidCredentials):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password must not be blank")
		default:
			failInternal(c, ErrCodeCreateFailed, err)
		}
		return
	}
	ok(c, http.StatusCreated, RegisterResponse{ID: u.ID, Username: u.Username, Role: u.Role})
}

// DoctorLogin handles POST /doctor/login.
func (h *Handlers) DoctorLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password required")
		return
	}

	token, u, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		failAuth(c, err)
		return
	}
	ok(c, http.StatusOK, TokenResponse{Token: token, Role: u.Role})
}

// PINLogin handles POST /pin-login.
func (h *Handlers) PINLogin(c *gin.Context) {
	var req PINLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pin required")
		return
	}

	token, err := h.authSvc.LoginWithPIN(c.Request.Context(), req.PIN, c.ClientIP())
	if err != nil {
		failAuth(c, err)
		return
	}
	ok(c, http.StatusOK, TokenResponse{Token: token, Role: "doctor"})
}

// failAuth maps login errors onto the envelope: lockout → 429, bad
// credentials → generic 401, anything else → 500.
func failAuth(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLoginLocked):
		fail(c, http.StatusTooManyRequests, ErrCodeLocked, "too many failed attempts, try again later")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	default:
		failInternal(c, ErrCodeInternal, err)
	}
}
