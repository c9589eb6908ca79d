package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense represents a cost recorded against a supplier.
// Implements the Ownable interface for ownership-based isolation.
type Expense struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of this expense (for multi-tenant isolation)
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	SupplierID *uint     `gorm:"index" json:"supplier_id,omitempty"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	Description string          `gorm:"size:500;not null" json:"description"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string          `gorm:"size:3;default:'EUR'" json:"currency"`

	StatusID uint    `gorm:"index;not null" json:"status_id"`
	Status   *Status `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}

// GetUserID implements the Ownable interface.
func (e *Expense) GetUserID() uint {
	return e.UserID
}
