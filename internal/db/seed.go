package db

import (
	"os"

	"github.com/billkeeper/billkeeper/internal/models"
	"gorm.io/gorm"
)

// Seed initializes the database with required default data.
// It is idempotent and safe to run on every startup.
func Seed(db *gorm.DB) error {
	if err := SeedStatuses(db); err != nil {
		return err
	}
	return SeedAdmin(db)
}

// SeedStatuses creates the default invoice and expense statuses.
func SeedStatuses(db *gorm.DB) error {
	statuses := []struct {
		Name string
		Slug string
	}{
		{"Pending", models.StatusPending},
		{"Partially paid", models.StatusPartiallyPaid},
		{"Overdue", models.StatusOverdue},
		{"Paid", models.StatusPaid},
		{"Cancelled", models.StatusCancelled},
	}

	for _, kind := range []string{models.StatusKindInvoice, models.StatusKindExpense} {
		for _, s := range statuses {
			status := models.Status{Name: s.Name, Slug: s.Slug, Kind: kind}
			// Use FirstOrCreate to avoid duplicates
			result := db.Where("slug = ? AND kind = ?", s.Slug, kind).
				FirstOrCreate(&status)
			if result.Error != nil {
				return result.Error
			}
		}
	}
	return nil
}

// SeedAdmin creates the bootstrap admin user when none exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD with local defaults.
func SeedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@localhost"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{Email: email, Name: "Admin"}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	return db.Create(&admin).Error
}
