// Package notify delivers payment-reminder notifications. It decides how a
// reminder is rendered and transported; whether and to whom a reminder is
// sent is decided by the reminder package.
package notify

import (
	"context"

	"github.com/billkeeper/billkeeper/internal/models"
	"github.com/rs/zerolog"
)

// Kind identifies the reminder being delivered.
type Kind string

const (
	KindUpcoming Kind = "upcoming"
	KindDueToday Kind = "due_today"
	KindOverdue  Kind = "overdue"
)

// Recipient is the party a reminder is addressed to.
type Recipient struct {
	Name  string
	Email string
	// Role is "supplier" or "client"; informational only.
	Role string
}

// Notifier delivers a localized reminder for one invoice to one recipient.
type Notifier interface {
	SendReminder(ctx context.Context, rcpt Recipient, kind Kind, inv *models.Invoice, locale string) error
}

// LogNotifier writes reminders to the log instead of delivering them.
// Used by dry runs and local development.
type LogNotifier struct {
	Log zerolog.Logger
}

// SendReminder implements Notifier.
func (n *LogNotifier) SendReminder(_ context.Context, rcpt Recipient, kind Kind, inv *models.Invoice, locale string) error {
	n.Log.Info().
		Str("invoice", inv.Number).
		Str("kind", string(kind)).
		Str("recipient", rcpt.Email).
		Str("role", rcpt.Role).
		Str("locale", locale).
		Msg("reminder (not delivered)")
	return nil
}
