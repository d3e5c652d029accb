package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// SMTPNotifier sends invite emails through a plain SMTP relay.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

// NewNotifierFromEnv builds a Notifier from SMTP_* environment variables.
// Without SMTP_HOST configured it returns a notifier that only logs, so
// invites still work in development.
func NewNotifierFromEnv() Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		logrus.Info("SMTP_HOST not set, invite emails will be logged only")
		return &LogNotifier{}
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	var auth smtp.Auth
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@wayplan.app"
	}

	return &SMTPNotifier{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

// Send delivers a single plain-text email.
func (n *SMTPNotifier) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// LogNotifier writes would-be emails to the log instead of sending them.
type LogNotifier struct{}

func (n *LogNotifier) Send(to, subject, body string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("invite email (delivery disabled)")
	return nil
}
