// Package services – ContactService
//
// Contact-form submissions are forwarded by email. Delivery is deliberately
// best-effort: an unreachable or unconfigured mail server is logged but the
// caller still gets success, so the public form never exposes mail
// infrastructure problems.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cardioai/cardioai-backend/internal/mail"
)

// ContactMessage is one submission from the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService forwards contact-form submissions to the configured inbox.
type ContactService struct {
	Sender mail.Sender // nil when mail is not configured
	To     string      // destination inbox
}

// Submit forwards one message. It never returns a delivery error; failures
// are logged and the submission is reported as accepted.
func (s *ContactService) Submit(ctx context.Context, msg ContactMessage) {
	if s.Sender == nil || s.To == "" {
		log.Warn().Str("from", msg.Email).Msg("contact message dropped: mail not configured")
		return
	}

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = "Contact form message"
	}
	body := fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", msg.Name, msg.Email, msg.Message)

	if err := s.Sender.Send([]string{s.To}, subject, body); err != nil {
		log.Error().Err(err).Str("from", msg.Email).Msg("contact mail delivery failed")
	}
}
