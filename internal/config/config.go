// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/billkeeper/billkeeper/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Reminder ReminderConfig
	SMTP     SMTPConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// ReminderConfig holds the payment-reminder job defaults.
type ReminderConfig struct {
	// DaysBefore is the offset for "upcoming" reminders: invoices due
	// exactly this many days from today are notified.
	DaysBefore int
	// DaysAfter is the offset for "overdue" reminders: invoices whose due
	// date was exactly this many days ago are notified.
	DaysAfter int
	// UnpaidStatuses is the set of payment-status slugs eligible for
	// reminders.
	UnpaidStatuses []string
}

// SMTPConfig holds outbound mail settings. With Enabled false the reminder
// job logs notifications instead of sending them.
type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// Addr returns the host:port the SMTP client dials.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "billkeeper"),
			Password: getEnv("DB_PASSWORD", "billkeeper123"),
			DBName:   getEnv("DB_NAME", "billkeeper"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnvBool("LOG_JSON", false),
		},
		Reminder: ReminderConfig{
			DaysBefore:     getEnvInt("REMINDER_DAYS_BEFORE", 3),
			DaysAfter:      getEnvInt("REMINDER_DAYS_AFTER", 1),
			UnpaidStatuses: getEnvList("REMINDER_UNPAID_STATUSES", models.UnpaidStatusSlugs()),
		},
		SMTP: SMTPConfig{
			Enabled:  getEnvBool("SMTP_ENABLED", false),
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 25),
			From:     getEnv("SMTP_FROM", "billing@localhost"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList returns the comma-separated values of an environment variable
// or a default. Blank entries are dropped.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
