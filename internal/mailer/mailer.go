// Package mailer is the outbound email collaborator. The surface is a
// single message type, delivered through a plain SMTP relay or, in
// development, the application log.
package mailer

import (
	"fmt"
	"net/smtp"

	log "github.com/sirupsen/logrus"
)

// Mailer delivers one-time codes to an address. Delivery is best-effort;
// the caller surfaces failures but never retries.
type Mailer interface {
	SendOTP(to, code string) error
}

// SMTP sends codes through a plain SMTP relay.
type SMTP struct {
	Addr string // host:port
	From string
	Auth smtp.Auth
}

func (m *SMTP) SendOTP(to, code string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\nYour code is %s. It expires in 10 minutes.\r\n",
		m.From, to, code,
	)
	if err := smtp.SendMail(m.Addr, m.Auth, m.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Log writes codes to the application log instead of sending mail.
// Used in development and whenever SMTP is not configured.
type Log struct{}

func (Log) SendOTP(to, code string) error {
	log.WithFields(log.Fields{"to": to, "code": code}).Info("otp code issued (log mailer)")
	return nil
}
