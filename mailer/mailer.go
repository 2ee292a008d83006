// Package mailer sends transactional mail. Handlers depend on the Sender
// interface so tests can capture outgoing messages.
package mailer

import (
	"fmt"
	"net/smtp"

	"roamly/globals"
	"roamly/logger"
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTP sends through a plain SMTP relay (mailtrap or similar in dev).
type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// FromEnv builds the relay client from EMAIL_* variables.
func FromEnv() *SMTP {
	return &SMTP{
		Host: globals.Env("EMAIL_HOST", ""),
		Port: globals.Env("EMAIL_PORT", "2525"),
		User: globals.Env("EMAIL_USERNAME", ""),
		Pass: globals.Env("EMAIL_PASSWORD", ""),
		From: globals.Env("EMAIL_FROM", "Roamly <hello@roamly.io>"),
	}
}

func (m *SMTP) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.From, to, subject, body)

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// Default is the process-wide sender; swapped out in tests.
var Default Sender = FromEnv()

// SendWelcome greets a new account. Failures are logged only, signup
// never fails on mail.
func SendWelcome(to, name string) {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Roamly, we're glad to have you!\n", name)
	if err := Default.Send(to, "Welcome to the Roamly family!", body); err != nil {
		logger.Log.Warn().Err(err).Str("to", to).Msg("welcome mail failed")
	}
}

// SendPasswordReset mails the reset link. The caller handles failure,
// because a lost reset token must be cleared from the account.
func SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to:\n%s\n\nIf you didn't forget your password, please ignore this email. The link is valid for 10 minutes.\n",
		resetURL)
	return Default.Send(to, "Your password reset token (valid for 10 min)", body)
}
