// Administrative HTTP handlers.
//
//   - POST /reset    (wipe patients/records/feedback; X-Reset-Secret header)
//   - POST /contact  (forward a contact-form message by email)
//
// The contact endpoint always reports acceptance; delivery failures are
// logged server-side only, so the public form never leaks mail
// infrastructure state.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/services"
)

// resetSecretHeader carries the secondary credential for POST /reset.
const resetSecretHeader = "X-Reset-Secret"

// ContactRequest is the JSON payload from the public contact form.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// Reset handles POST /reset.
func (h *Handlers) Reset(c *gin.Context) {
	secret := c.GetHeader(resetSecretHeader)

	if err := h.adminSvc.Reset(c.Request.Context(), secret, doctorFilter(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrResetForbidden):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "reset not authorized")
		default:
			failInternal(c, ErrCodeInternal, err)
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "reset complete"})
}

// Contact handles POST /contact.
func (h *Handlers) Contact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email, and message required")
		return
	}

	h.contactSvc.Submit(c.Request.Context(), services.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	ok(c, http.StatusOK, gin.H{"status": "message sent"})
}
