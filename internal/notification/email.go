package notification

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	log "github.com/sirupsen/logrus"
	"github.com/pkg/errors"
)

// EmailConfig carries the SMTP settings for the email transport. An app
// password is expected, not the account password.
type EmailConfig struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// EmailSender delivers notifications over SMTP.
type EmailSender struct {
	cfg EmailConfig
}

func NewEmailSender(cfg EmailConfig) (*EmailSender, error) {
	if cfg.Sender == "" || cfg.Recipient == "" {
		return nil, errors.New("email sender and recipient are required")
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	log.Infof("email notifications configured: from=%v, to=%v", cfg.Sender, cfg.Recipient)
	return &EmailSender{cfg: cfg}, nil
}

func (s *EmailSender) Send(subject, body string) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("EasySlot <%s>", s.cfg.Sender)
	mail.To = []string{s.cfg.Recipient}
	mail.Subject = subject
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Sender, s.cfg.Password, s.cfg.Host)
	if err := mail.Send(addr, auth); err != nil {
		return errors.Wrap(err, "smtp send failed")
	}
	log.Infof("email notification sent: %v", subject)
	return nil
}
