// Package reminder classifies unpaid invoices against their due dates and
// fans localized notifications out to suppliers and clients. It is a
// synchronous batch job meant to be invoked once a day by an external
// scheduler; it keeps no record of what it already sent, so re-running it
// on the same day re-sends every matching reminder.
package reminder

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/billkeeper/billkeeper/internal/models"
	"github.com/billkeeper/billkeeper/internal/notify"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Window selects how due dates are matched against the reminder offsets.
type Window string

const (
	// WindowExactDay notifies only invoices whose due date falls exactly
	// on today+DaysBefore, today, or today-DaysAfter. An invoice is
	// silently skipped on every other day, and changing the offsets
	// between runs can notify the same invoice more than once.
	WindowExactDay Window = "exact"
	// WindowRange notifies invoices due anywhere inside
	// (today, today+DaysBefore] and [today-DaysAfter, today).
	WindowRange Window = "range"
)

// Options configures a scheduler run.
type Options struct {
	DaysBefore  int      `validate:"gt=0"`
	DaysAfter   int      `validate:"gt=0"`
	UnpaidSlugs []string `validate:"min=1,dive,required"`
	Window      Window   `validate:"oneof=exact range"`
}

// DefaultOptions returns the standard offsets (3 days before, 1 day
// after), the seeded unpaid slug set, and exact-day matching.
func DefaultOptions() Options {
	return Options{
		DaysBefore:  3,
		DaysAfter:   1,
		UnpaidSlugs: models.UnpaidStatusSlugs(),
		Window:      WindowExactDay,
	}
}

var validate = validator.New()

// Validate checks the option constraints.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid reminder options: %w", err)
	}
	return nil
}

// Summary reports one scheduler run.
type Summary struct {
	RunID    string
	Date     time.Time
	Upcoming int // invoices due in DaysBefore days
	DueToday int // invoices due today
	Overdue  int // invoices DaysAfter days past due
	Sent     int
	Skipped  int
	Failed   int
}

// String renders the human-readable run summary.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "reminder run %s for %s: ", s.RunID, s.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "%d upcoming, %d due today, %d overdue; ", s.Upcoming, s.DueToday, s.Overdue)
	fmt.Fprintf(&b, "%d sent, %d skipped (no email), %d failed", s.Sent, s.Skipped, s.Failed)
	return b.String()
}

// Scheduler partitions unpaid invoices into the three reminder buckets and
// hands each bucket to the dispatcher.
type Scheduler struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	opts       Options
	log        zerolog.Logger
}

// NewScheduler validates opts and builds a scheduler sending through
// notifier.
func NewScheduler(db *gorm.DB, notifier notify.Notifier, opts Options, log zerolog.Logger) (*Scheduler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		db:         db,
		dispatcher: NewDispatcher(db, notifier, log),
		opts:       opts,
		log:        log,
	}, nil
}

// Run executes one reminder batch for the given date. Query failures and
// status-update failures abort the run; notifications dispatched before
// the failure stand (no rollback). The returned summary is valid in both
// cases and reflects the partial progress.
func (s *Scheduler) Run(ctx context.Context, today time.Time) (Summary, error) {
	summary := Summary{
		RunID: uuid.NewString(),
		Date:  today,
	}
	log := s.log.With().Str("run_id", summary.RunID).Logger()

	invoices, err := s.unpaidInvoices(ctx)
	if err != nil {
		log.Error().Err(err).Msg("loading unpaid invoices failed")
		return summary, err
	}

	day := truncateToDay(today)
	upcoming, dueToday, overdue := s.bucket(invoices, day)
	summary.Upcoming = len(upcoming)
	summary.DueToday = len(dueToday)
	summary.Overdue = len(overdue)

	log.Info().
		Int("upcoming", summary.Upcoming).
		Int("due_today", summary.DueToday).
		Int("overdue", summary.Overdue).
		Msg("unpaid invoices bucketed")

	for _, batch := range []struct {
		kind     notify.Kind
		invoices []*models.Invoice
	}{
		{notify.KindUpcoming, upcoming},
		{notify.KindDueToday, dueToday},
		{notify.KindOverdue, overdue},
	} {
		for _, inv := range batch.invoices {
			res, err := s.dispatcher.Dispatch(ctx, inv, batch.kind)
			summary.Sent += res.Sent
			summary.Skipped += res.Skipped
			summary.Failed += res.Failed
			if err != nil {
				log.Error().Err(err).Str("invoice", inv.Number).Msg("reminder batch aborted")
				return summary, err
			}
		}
	}
	return summary, nil
}

// unpaidInvoices loads every invoice whose payment status slug is in the
// configured unpaid set, with the relations dispatch needs.
func (s *Scheduler) unpaidInvoices(ctx context.Context) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := s.db.WithContext(ctx).
		Joins("JOIN statuses ON statuses.id = invoices.payment_status_id").
		Where("statuses.slug IN ? AND statuses.kind = ?", s.opts.UnpaidSlugs, models.StatusKindInvoice).
		Preload("PaymentStatus").
		Preload("Client").
		Preload("Supplier").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("query unpaid invoices: %w", err)
	}
	return invoices, nil
}

// bucket partitions invoices by due date relative to day. The buckets are
// disjoint for any positive offsets under both window policies.
func (s *Scheduler) bucket(invoices []*models.Invoice, day time.Time) (upcoming, dueToday, overdue []*models.Invoice) {
	for _, inv := range invoices {
		due := truncateToDay(inv.DueDate())
		switch diff := daysBetween(day, due); {
		case diff == 0:
			dueToday = append(dueToday, inv)
		case s.matchesBefore(diff):
			upcoming = append(upcoming, inv)
		case s.matchesAfter(diff):
			overdue = append(overdue, inv)
		}
	}
	return upcoming, dueToday, overdue
}

// matchesBefore reports whether an invoice due in diff days gets an
// upcoming reminder.
func (s *Scheduler) matchesBefore(diff int) bool {
	if s.opts.Window == WindowRange {
		return diff > 0 && diff <= s.opts.DaysBefore
	}
	return diff == s.opts.DaysBefore
}

// matchesAfter reports whether an invoice diff days past due (diff < 0)
// gets an overdue reminder.
func (s *Scheduler) matchesAfter(diff int) bool {
	if s.opts.Window == WindowRange {
		return diff < 0 && diff >= -s.opts.DaysAfter
	}
	return diff == -s.opts.DaysAfter
}

// truncateToDay drops the time-of-day component; reminder windowing works
// on calendar days.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole days from a to b (positive when b is
// later). Both arguments must already be day-truncated; rounding absorbs
// DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
