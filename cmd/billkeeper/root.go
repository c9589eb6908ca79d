package main

import (
	"github.com/billkeeper/billkeeper/internal/config"
	"github.com/billkeeper/billkeeper/internal/db"
	"github.com/billkeeper/billkeeper/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "billkeeper",
	Short: "Invoicing back office maintenance jobs",
	Long: `billkeeper runs the maintenance jobs of the invoicing back office:
database migration and seeding, payment reminders, and invoice line-item
synchronization. The remind and sync-products commands are designed to be
invoked periodically from cron.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load environment variables from .env file
		_ = godotenv.Load()
		cfg = config.Load()
		logger.SetLevel(cfg.Log.Level)
		if cfg.Log.JSON {
			logger.SetJSON()
		}
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(syncProductsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// openDB connects to the configured database for a subcommand.
func openDB() (*gorm.DB, error) {
	return db.Connect(cfg.Database)
}
