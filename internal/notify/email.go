package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/crestwatch/surfcast/pkg/config"
)

const smtpTimeout = 10 * time.Second

// Email delivers notifications over SMTP
type Email struct {
	cfg  *config.SMTPData
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmail creates an SMTP notifier
func NewEmail(cfg *config.SMTPData) *Email {
	return &Email{
		cfg:  cfg,
		send: smtp.SendMail,
	}
}

// Notify sends msg as an email to the alert's contact address
func (e *Email) Notify(ctx context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", msg.ContactInfo)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("\r\n")
	body.WriteString(msg.Body)
	body.WriteString("\r\n")

	// net/smtp has no context support, so bound the call with a timer
	// rather than letting a stuck server hang a processing cycle.
	done := make(chan error, 1)
	go func() {
		done <- e.send(addr, auth, e.cfg.From, []string{msg.ContactInfo}, []byte(body.String()))
	}()

	timeout := time.NewTimer(smtpTimeout)
	defer timeout.Stop()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout.C:
		return fmt.Errorf("smtp send to %s timed out after %s", addr, smtpTimeout)
	}
}
