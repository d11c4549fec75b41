// Package mailer sends the site's outbound email over SMTP: contact reply
// messages and the unread-inbox digest. Bodies are built by the template
// helpers in templates.go; Send wraps them into a multipart message when an
// HTML variant is present.
package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Config holds the SMTP settings for a Mailer.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Mailer sends email through one SMTP endpoint.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New creates a Mailer. Blank User/Pass sends without authentication,
// which suits a local relay or a dev catcher like MailHog.
func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// FromName returns the configured sender display name. Templates use it as
// the site name.
func (m *Mailer) FromName() string {
	return m.cfg.FromName
}

// Email is one outbound message. TextBody is required; a non-empty HTMLBody
// upgrades the message to multipart/alternative.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Send delivers the email. Failures are logged and returned; the caller
// decides whether the send was load-bearing.
func (m *Mailer) Send(email Email) error {
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	part := func(contentType, body string) {
		header("Content-Type", contentType)
		b.WriteString("\r\n")
		b.WriteString(body)
		b.WriteString("\r\n")
	}

	header("From", from)
	header("To", email.To)
	header("Subject", email.Subject)
	header("MIME-Version", "1.0")

	if email.HTMLBody != "" {
		boundary := randomBoundary()
		header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
		b.WriteString("\r\n")
		b.WriteString("--" + boundary + "\r\n")
		part("text/plain; charset=UTF-8", email.TextBody)
		b.WriteString("--" + boundary + "\r\n")
		part("text/html; charset=UTF-8", email.HTMLBody)
		b.WriteString("--" + boundary + "--\r\n")
	} else {
		part("text/plain; charset=UTF-8", email.TextBody)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{email.To}, []byte(b.String())); err != nil {
		m.log.Error("email send failed",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))
	return nil
}

func randomBoundary() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return "=_stratacms_" + hex.EncodeToString(buf)
}
