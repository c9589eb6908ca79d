package models

import (
	"time"

	"github.com/billkeeper/billkeeper/internal/i18n"
	"gorm.io/gorm"
)

// Client represents a customer being billed.
// Implements the Ownable interface for ownership-based isolation.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of this client (for multi-tenant isolation)
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Client information
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Company string `gorm:"size:255" json:"company,omitempty"`

	// Address
	Address     string `gorm:"size:500" json:"address,omitempty"`
	City        string `gorm:"size:100" json:"city,omitempty"`
	PostalCode  string `gorm:"size:20" json:"postal_code,omitempty"`
	CountryCode string `gorm:"size:2" json:"country_code,omitempty"`

	// Relations
	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}

// GetUserID implements the Ownable interface.
func (c *Client) GetUserID() uint {
	return c.UserID
}

// HasEmail reports whether the client can receive email notifications.
func (c *Client) HasEmail() bool {
	return c.Email != ""
}

// PreferredLocale returns the notification locale derived from the
// client's country code.
func (c *Client) PreferredLocale() string {
	return i18n.LocaleForCountry(c.CountryCode)
}
