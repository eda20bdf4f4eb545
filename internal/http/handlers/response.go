// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by every endpoint: the
// structured error envelope, the fail/ok helpers, and the debug-mode switch
// that controls whether internal error detail leaks into 5xx bodies.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "patient not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/http/middleware"
)

// debugErrors controls whether internal error text is included in 5xx
// responses. Off by default; the router enables it per config.
var debugErrors bool

// SetDebugErrors toggles internal error detail in 5xx bodies. Call once at
// startup, before serving.
func SetDebugErrors(v bool) { debugErrors = v }

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// RequestID correlates server logs and client errors.
	RequestID string `json:"request_id,omitempty"`
	// Code is a stable, machine-readable code (see errors.go constants).
	Code string `json:"code"`
	// Message is a human-readable message safe to show to users.
	Message string `json:"message"`
}

// fail aborts the request with a structured error envelope. Server errors
// (>= 500) are logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for use by router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failInternal writes a 500 with a generic message, substituting the real
// error text only when debug errors are enabled.
func failInternal(c *gin.Context, code string, err error) {
	msg := "internal server error"
	if debugErrors && err != nil {
		msg = err.Error()
	}
	fail(c, http.StatusInternalServerError, code, msg)
}

// ok writes a success JSON response with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
