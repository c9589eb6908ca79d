package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog product or service.
// Implements the Ownable interface for ownership-based isolation.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of this product (for multi-tenant isolation)
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Product information
	Code        string          `gorm:"size:50;not null;uniqueIndex:idx_product_user_code" json:"code"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Unit        string          `gorm:"size:50;default:'unit'" json:"unit"` // unit, hour, day, kg, etc.

	// Tax rate stored as a percentage (21 = 21%)
	TaxRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"tax_rate"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// GetUserID implements the Ownable interface.
func (p *Product) GetUserID() uint {
	return p.UserID
}

// PriceWithTax returns the unit price including tax.
func (p *Product) PriceWithTax() decimal.Decimal {
	return p.UnitPrice.Add(p.TaxAmount())
}

// TaxAmount returns the tax amount for one unit.
func (p *Product) TaxAmount() decimal.Decimal {
	return p.UnitPrice.Mul(p.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
}
