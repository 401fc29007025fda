package notify

import (
	"bytes"
	"io"

	"github.com/craftline/wardrobe/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a message with optional attachments. Implemented over
// SMTP in production and faked in tests.
type Mailer interface {
	Send(to, subject, body string, attachments map[string]*bytes.Buffer) error
}

type smtpMailer struct {
	cfg config.SmtpConfig
}

func NewSmtpMailer(cfg config.SmtpConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string, attachments map[string]*bytes.Buffer) error {
	msg := gomail.NewMessage()
	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	for name, buf := range attachments {
		content := buf.Bytes()
		msg.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
