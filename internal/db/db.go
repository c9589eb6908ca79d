// Package db handles database connection, schema migration and seeding.
package db

import (
	"fmt"
	"time"

	"github.com/billkeeper/billkeeper/internal/config"
	"github.com/billkeeper/billkeeper/internal/logger"
	"github.com/billkeeper/billkeeper/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL connection described by cfg.
// It retries a few times to let the database finish starting.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		logger.Log.Warn().Err(err).Int("attempt", i+1).Msg("database connection failed, retrying")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate applies the GORM auto-migrations for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Status{},
		&models.Client{},
		&models.Supplier{},
		&models.Product{},
		&models.Invoice{},
		&models.InvoiceProduct{},
		&models.Expense{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
