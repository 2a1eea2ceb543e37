package notifier

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"YahooPrices/internal/config"
	"YahooPrices/internal/logging"
)

// Notifier sends a notification message.
type Notifier interface {
	Send(subject, body string) error
}

// EmailNotifier sends plain-text notification emails over SMTP. When email
// is disabled in config every Send is a logged no-op.
type EmailNotifier struct {
	cfg  config.EmailConfig
	log  *logging.Logger
	send func(m *gomail.Message) error
}

// NewEmailNotifier creates a notifier from the email config section.
func NewEmailNotifier(cfg config.EmailConfig, log *logging.Logger) *EmailNotifier {
	n := &EmailNotifier{cfg: cfg, log: log}
	n.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		return d.DialAndSend(m)
	}
	return n
}

// Send delivers one email to the configured recipient.
func (n *EmailNotifier) Send(subject, body string) error {
	if !n.cfg.EnableEmail {
		n.log.Logf(logging.LevelDebug, "Email sending disabled. Skipping the email %q.", subject)
		return nil
	}

	if n.cfg.SubjectPrefix != "" {
		subject = n.cfg.SubjectPrefix + subject
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.SMTPUsername)
	m.SetHeader("To", n.cfg.SendEmailsTo)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.send(m); err != nil {
		return fmt.Errorf("send email %q: %w", subject, err)
	}
	return nil
}
