package reminder

import (
	"context"
	"fmt"

	"github.com/billkeeper/billkeeper/internal/models"
	"github.com/billkeeper/billkeeper/internal/notify"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dispatcher delivers one reminder kind for one invoice to its supplier
// and client, and applies the overdue status transition.
type Dispatcher struct {
	db       *gorm.DB
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewDispatcher returns a dispatcher sending through notifier.
func NewDispatcher(db *gorm.DB, notifier notify.Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{db: db, notifier: notifier, log: log}
}

// DispatchResult counts the delivery attempts of a single Dispatch call.
type DispatchResult struct {
	Sent    int // deliveries handed to the transport
	Skipped int // recipients without an email address
	Failed  int // transport errors
}

// Dispatch attempts supplier and client delivery independently: a missing
// email or a transport failure on one side never blocks the other. For
// overdue reminders the invoice's payment status is transitioned to
// "overdue" afterwards; only a failure of that update is returned as an
// error, since notification failures must not abort the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *models.Invoice, kind notify.Kind) (DispatchResult, error) {
	var res DispatchResult

	if inv.Supplier != nil && inv.Supplier.HasEmail() {
		d.deliver(ctx, inv, kind, notify.Recipient{
			Name:  inv.Supplier.Name,
			Email: inv.Supplier.Email,
			Role:  "supplier",
		}, inv.Supplier.PreferredLocale(), &res)
	} else {
		res.Skipped++
		d.log.Info().Str("invoice", inv.Number).Msg("supplier has no email, skipping")
	}

	if inv.Client != nil && inv.Client.HasEmail() {
		d.deliver(ctx, inv, kind, notify.Recipient{
			Name:  inv.Client.Name,
			Email: inv.Client.Email,
			Role:  "client",
		}, inv.Client.PreferredLocale(), &res)
	} else {
		res.Skipped++
		d.log.Info().Str("invoice", inv.Number).Msg("client has no email, skipping")
	}

	if kind == notify.KindOverdue {
		if err := d.markOverdue(ctx, inv); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (d *Dispatcher) deliver(ctx context.Context, inv *models.Invoice, kind notify.Kind, rcpt notify.Recipient, locale string, res *DispatchResult) {
	if err := d.notifier.SendReminder(ctx, rcpt, kind, inv, locale); err != nil {
		res.Failed++
		d.log.Error().Err(err).
			Str("invoice", inv.Number).
			Str("recipient", rcpt.Email).
			Str("kind", string(kind)).
			Msg("reminder delivery failed")
		return
	}
	res.Sent++
}

// markOverdue transitions the invoice's payment status to "overdue" if it
// is not already. The transition is one-way and idempotent; nothing in
// this job ever reverses it.
func (d *Dispatcher) markOverdue(ctx context.Context, inv *models.Invoice) error {
	if inv.PaymentStatus != nil && inv.PaymentStatus.Slug == models.StatusOverdue {
		return nil
	}

	var overdue models.Status
	err := d.db.WithContext(ctx).
		Where("slug = ? AND kind = ?", models.StatusOverdue, models.StatusKindInvoice).
		First(&overdue).Error
	if err != nil {
		return fmt.Errorf("load overdue status: %w", err)
	}
	if inv.PaymentStatusID == overdue.ID {
		return nil
	}

	err = d.db.WithContext(ctx).Model(inv).Update("payment_status_id", overdue.ID).Error
	if err != nil {
		return fmt.Errorf("mark invoice %s overdue: %w", inv.Number, err)
	}
	inv.PaymentStatus = &overdue
	d.log.Info().Str("invoice", inv.Number).Msg("payment status set to overdue")
	return nil
}
