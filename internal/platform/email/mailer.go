// Copyright (c) 2026 Odara. All rights reserved.

/*
Package email delivers transactional mail for the auth flows.

It currently covers two message types: the account verification OTP sent
after signup and the password reset OTP. Both are short-lived six digit
codes, so delivery is plain text over SMTP.

When no SMTP host is configured (local development, CI) the package falls
back to a logging mailer that writes the would-be message to the structured
log instead of the network.
*/
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer sends transactional messages to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// # SMTP Mailer

// SMTPMailer sends mail through a plain SMTP relay with AUTH PLAIN.
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	sender string
	logger *slog.Logger
}

// NewSMTPMailer builds a mailer for the given relay.
//
// # Parameters
//   - host: SMTP relay hostname.
//   - port: SMTP relay port (usually 587).
//   - username, password: AUTH PLAIN credentials. Empty username disables auth.
//   - sender: From address for all outgoing mail.
func NewSMTPMailer(host string, port int, username, password, sender string, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		auth:   auth,
		sender: sender,
		logger: logger,
	}
}

// Send delivers a single plain-text message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("email_send_cancelled: %w", err)
	}

	message := buildMessage(m.sender, to, subject, body)

	if err := smtp.SendMail(m.addr, m.auth, m.sender, []string{to}, message); err != nil {
		return fmt.Errorf("email_send_failed: %w", err)
	}

	m.logger.Info("email_sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)

	return nil
}

// buildMessage assembles a minimal RFC 5322 plain-text message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// # Logging Mailer

// LogMailer writes outgoing mail to the log instead of the network.
//
// Used when SMTP_HOST is not configured so local signup flows still work
// and the OTP is visible in the server log.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer builds a log-only mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("email_logged_not_sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
