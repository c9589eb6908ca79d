package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/billkeeper/billkeeper/internal/config"
	"github.com/billkeeper/billkeeper/internal/i18n"
	"github.com/billkeeper/billkeeper/internal/models"
)

// SMTPNotifier delivers reminders by email over plain SMTP.
type SMTPNotifier struct {
	cfg config.SMTPConfig

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier returns a notifier delivering through the configured
// SMTP relay.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// SendReminder implements Notifier.
func (n *SMTPNotifier) SendReminder(_ context.Context, rcpt Recipient, kind Kind, inv *models.Invoice, locale string) error {
	subject, body := RenderReminder(rcpt, kind, inv, locale)
	msg := buildMessage(n.cfg.From, rcpt.Email, subject, body)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	if err := n.send(n.cfg.Addr(), auth, n.cfg.From, []string{rcpt.Email}, msg); err != nil {
		return fmt.Errorf("send reminder %s for invoice %s to %s: %w", kind, inv.Number, rcpt.Email, err)
	}
	return nil
}

// RenderReminder produces the localized subject and body for a reminder.
// Exposed so transports and tests share one rendering path.
func RenderReminder(rcpt Recipient, kind Kind, inv *models.Invoice, locale string) (subject, body string) {
	due := inv.DueDate().Format("2006-01-02")
	subject = fmt.Sprintf(i18n.T(locale, "reminder."+string(kind)+".subject"), inv.Number)
	body = fmt.Sprintf(i18n.T(locale, "reminder."+string(kind)+".body"),
		inv.Number, inv.Amount.StringFixed(2), inv.Currency, due)
	return subject, body
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
