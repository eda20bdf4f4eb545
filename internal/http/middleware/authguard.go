// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token enforcement. The middleware is decoupled
// from the token implementation through VerifyFunc, so the HTTP layer does
// not depend on the signing library; the router adapts the auth service into
// this shape.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ctxKeySubject is the Gin context key for the authenticated subject.
	ctxKeySubject = "subject"
	// ctxKeyRole is the Gin context key for the authenticated role.
	ctxKeyRole = "role"
)

// VerifyFunc validates a bearer token and returns its subject and role.
type VerifyFunc func(token string) (subject, role string, err error)

// AuthRequired returns a middleware that rejects requests lacking a valid
// "Authorization: Bearer <token>" header with a 401 envelope. On success the
// subject and role are stored in the Gin context for handlers and the rate
// limiter.
func AuthRequired(verify VerifyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}
		subject, role, err := verify(token)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ctxKeySubject, subject)
		c.Set(ctxKeyRole, role)
		c.Next()
	}
}

// Subject returns the authenticated subject set by AuthRequired, empty when
// the request is unauthenticated.
func Subject(c *gin.Context) string {
	v, _ := c.Get(ctxKeySubject)
	return asString(v)
}

// bearerToken extracts the token from an Authorization header value,
// returning "" when the scheme is not Bearer.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
