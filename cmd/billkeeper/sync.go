package main

import (
	"fmt"

	"github.com/billkeeper/billkeeper/internal/logger"
	"github.com/billkeeper/billkeeper/internal/models"
	"github.com/billkeeper/billkeeper/internal/productsync"
	"github.com/spf13/cobra"
)

var (
	syncInvoiceID uint
	syncAll       bool
)

var syncProductsCmd = &cobra.Command{
	Use:   "sync-products",
	Short: "Rebuild invoice line items from the invoice JSON item lists",
	Long: `Rebuild the invoice_products rows from each invoice's JSON item list.

After the sync the rows mirror exactly the valid items of the JSON: stale
rows are removed, missing ones inserted, changed ones updated. Invalid
JSON and items without a known product are skipped without failing.`,
	RunE: runSyncProducts,
}

func init() {
	syncProductsCmd.Flags().UintVar(&syncInvoiceID, "invoice", 0, "sync a single invoice by id")
	syncProductsCmd.Flags().BoolVar(&syncAll, "all", false, "sync every invoice")
	syncProductsCmd.MarkFlagsMutuallyExclusive("invoice", "all")
	syncProductsCmd.MarkFlagsOneRequired("invoice", "all")
}

func runSyncProducts(cmd *cobra.Command, args []string) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	syncer := productsync.NewSyncer(conn, logger.Log)

	if syncAll {
		n, err := syncer.SyncAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("synced %d invoices\n", n)
		return nil
	}

	var inv models.Invoice
	if err := conn.WithContext(cmd.Context()).First(&inv, syncInvoiceID).Error; err != nil {
		return fmt.Errorf("load invoice %d: %w", syncInvoiceID, err)
	}
	if err := syncer.Sync(cmd.Context(), &inv); err != nil {
		return err
	}
	fmt.Printf("synced invoice %d\n", inv.ID)
	return nil
}
