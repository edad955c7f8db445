// Delivers the status line by email. Sending to a carrier's
// email-to-SMS gateway address turns the report into a text message.
package mailer

import (
	"fmt"

	"github.com/solarwatch/solar_notifier/pkg/config"
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(subject, body string) error {
	if m.cfg.Host == "" || m.cfg.To == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", subject)
	// SMS gateways want plain text, short
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}
