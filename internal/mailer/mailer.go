// Package mailer sends notification email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"html"
	"net/url"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer is a Mailer backed by gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send dials the relay and sends the message. Transport errors are returned to
// the caller unchanged apart from wrapping.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// ResetLink builds the front end link carrying token as a query parameter.
func ResetLink(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid reset base url: %w", err)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

const (
	ResetRequestedSubject  = "Reset your password"
	PasswordChangedSubject = "Your password has been changed"
)

// ResetRequestedBody renders the password reset request email.
func ResetRequestedBody(firstName, link string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>We received a request to reset your password. Click <a href=\"%s\">here</a> to choose a new one.</p>"+
			"<p>This link expires in one hour. If you did not ask for a reset, you can ignore this email.</p>",
		html.EscapeString(firstName), html.EscapeString(link),
	)
}

// PasswordChangedBody renders the reset confirmation email.
func PasswordChangedBody(firstName string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>The password for your account was just changed.</p>"+
			"<p>If this was not you, reset your password again right away.</p>",
		html.EscapeString(firstName),
	)
}
