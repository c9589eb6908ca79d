package main

import (
	"github.com/billkeeper/billkeeper/internal/db"
	"github.com/billkeeper/billkeeper/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		if err := db.Migrate(conn); err != nil {
			return err
		}
		logger.Log.Info().Msg("migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default statuses and the bootstrap admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		if err := db.Seed(conn); err != nil {
			return err
		}
		logger.Log.Info().Msg("seeding completed")
		return nil
	},
}
