package models

import (
	"time"

	"gorm.io/gorm"
)

// Status slug values seeded by default. The slug is the stable identifier;
// Name is the display label and may be edited.
const (
	StatusPending       = "pending"
	StatusPartiallyPaid = "partially_paid"
	StatusOverdue       = "overdue"
	StatusPaid          = "paid"
	StatusCancelled     = "cancelled"
)

// Status kinds. The same slug set is shared by invoices and expenses,
// distinguished by Kind.
const (
	StatusKindInvoice = "invoice"
	StatusKindExpense = "expense"
)

// Status is a named, sluggable category used for invoice payment state and
// expense state.
type Status struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;not null;uniqueIndex:idx_status_slug_kind" json:"slug"`
	Kind string `gorm:"size:20;not null;default:'invoice';uniqueIndex:idx_status_slug_kind" json:"kind"`
}

// UnpaidStatusSlugs is the default set of payment-status slugs considered
// unpaid and therefore eligible for reminders. Callers may substitute their
// own set; this is the seeded default, not a hard requirement.
func UnpaidStatusSlugs() []string {
	return []string{StatusPending, StatusOverdue, StatusPartiallyPaid}
}

// IsUnpaid reports whether the status slug belongs to the given unpaid set.
func (s *Status) IsUnpaid(unpaidSlugs []string) bool {
	for _, slug := range unpaidSlugs {
		if s.Slug == slug {
			return true
		}
	}
	return false
}
