// Package mail sends plain-text notification email over SMTP.
//
// The Sender interface keeps the transport swappable; services depend on it
// rather than on net/smtp so tests can capture messages instead of opening
// sockets.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers one plain-text message.
type Sender interface {
	Send(to []string, subject, body string) error
}

// SMTPSender is the production Sender backed by net/smtp with PLAIN auth.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPSender builds a sender for the given server. From defaults to the
// username when empty.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	if from == "" {
		from = username
	}
	return &SMTPSender{Host: host, Port: port, Username: username, Password: password, From: from}
}

// Send delivers one message. The body is sent as UTF-8 text/plain.
func (s *SMTPSender) Send(to []string, subject, body string) error {
	if s.Host == "" || len(to) == 0 {
		return fmt.Errorf("mail: sender not configured")
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, s.From, to, []byte(msg))
}
