package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents a billing document issued by a supplier to a client.
// Implements the Ownable interface for ownership-based isolation.
type Invoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of this invoice (for multi-tenant isolation)
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Invoice identification
	Number    string `gorm:"size:50;uniqueIndex" json:"number"`
	Reference string `gorm:"size:100" json:"reference,omitempty"`

	// Counterparties
	ClientID   uint      `gorm:"index;not null" json:"client_id"`
	Client     *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	SupplierID uint      `gorm:"index;not null" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	// Dates. DueIn is the payment term in days counted from IssueDate.
	// DraftDueDate is the explicit due date used when DueIn is not set.
	IssueDate    time.Time  `gorm:"not null" json:"issue_date"`
	DueIn        *int       `json:"due_in,omitempty"`
	DraftDueDate *time.Time `json:"draft_due_date,omitempty"`

	// Payment state
	PaymentStatusID uint            `gorm:"index;not null" json:"payment_status_id"`
	PaymentStatus   *Status         `gorm:"foreignKey:PaymentStatusID" json:"payment_status,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string          `gorm:"size:3;default:'EUR'" json:"currency"`

	// InvoiceText holds the denormalized JSON item list submitted with the
	// invoice. The invoice_products rows are derived from it by productsync.
	InvoiceText string `gorm:"type:text" json:"invoice_text,omitempty"`

	// Relations
	Products []InvoiceProduct `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

// GetUserID implements the Ownable interface.
func (i *Invoice) GetUserID() uint {
	return i.UserID
}

// DueDate returns IssueDate + DueIn days, or DraftDueDate when no payment
// term is set. With neither present the invoice is due on its issue date.
func (i *Invoice) DueDate() time.Time {
	if i.DueIn != nil {
		return i.IssueDate.AddDate(0, 0, *i.DueIn)
	}
	if i.DraftDueDate != nil {
		return *i.DraftDueDate
	}
	return i.IssueDate
}

// IsUnpaid reports whether the invoice's payment status belongs to the
// given unpaid slug set. An invoice without a loaded status is not unpaid.
func (i *Invoice) IsUnpaid(unpaidSlugs []string) bool {
	if i.PaymentStatus == nil {
		return false
	}
	return i.PaymentStatus.IsUnpaid(unpaidSlugs)
}

// Total sums the total price of all line items.
func (i *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Products {
		total = total.Add(p.TotalPrice)
	}
	return total
}

// InvoiceProduct is a line item belonging to exactly one invoice,
// optionally referencing a catalog product. A nil ProductID marks a custom
// free-text line.
type InvoiceProduct struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Parent invoice
	InvoiceID uint     `gorm:"index;not null" json:"invoice_id"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID" json:"-"`

	// Optional catalog reference
	ProductID *uint    `gorm:"index" json:"product_id,omitempty"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Description string          `gorm:"size:500" json:"description,omitempty"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,3);not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`

	// Tax rate stored as a percentage (21 = 21%)
	TaxRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`

	// Derived amounts, recomputed from quantity/price/rate on every save.
	// Never authoritative on their own.
	TaxAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

// Recalculate recomputes the derived TaxAmount and TotalPrice from
// quantity, unit price and tax rate. It is applied before every save and
// may be called directly when the derived values are needed without
// persisting.
func (ip *InvoiceProduct) Recalculate() {
	net := ip.UnitPrice.Mul(ip.Quantity)
	ip.TaxAmount = net.Mul(ip.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	ip.TotalPrice = net.Add(ip.TaxAmount)
}

// BeforeSave keeps the derived amounts consistent on every create/update.
func (ip *InvoiceProduct) BeforeSave(*gorm.DB) error {
	ip.Recalculate()
	return nil
}
