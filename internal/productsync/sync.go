// Package productsync keeps the invoice_products rows consistent with the
// denormalized JSON item list stored on each invoice. Synchronization is
// upsert-and-prune: after a sync the rows mirror exactly the items in the
// JSON, and re-running with unchanged JSON is a no-op.
package productsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/billkeeper/billkeeper/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// item is one entry of the invoice_text "items" array.
type item struct {
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Tax       decimal.Decimal `json:"tax"`
}

type itemList struct {
	Items []item `json:"items"`
}

// Syncer synchronizes invoice line items from the invoice JSON blob.
type Syncer struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewSyncer returns a syncer over db.
func NewSyncer(db *gorm.DB, log zerolog.Logger) *Syncer {
	return &Syncer{db: db, log: log}
}

// Sync parses inv.InvoiceText and reconciles the invoice's product rows
// with it. Malformed JSON, a missing items array, items without a
// product_id, and items referencing unknown products are all non-fatal:
// the offending input degrades to a no-op. Only database errors are
// returned.
func (s *Syncer) Sync(ctx context.Context, inv *models.Invoice) error {
	desired, ok := s.parseItems(inv)
	if !ok {
		return nil
	}

	var current []models.InvoiceProduct
	err := s.db.WithContext(ctx).
		Where("invoice_id = ?", inv.ID).
		Find(&current).Error
	if err != nil {
		return fmt.Errorf("load line items for invoice %d: %w", inv.ID, err)
	}

	currentByProduct := make(map[uint]*models.InvoiceProduct, len(current))
	for i := range current {
		row := &current[i]
		if row.ProductID != nil {
			currentByProduct[*row.ProductID] = row
		}
	}

	// Prune rows whose product is no longer in the JSON. Custom lines
	// (nil ProductID) are not managed by the JSON and stay untouched.
	for productID, row := range currentByProduct {
		if _, keep := desired[productID]; keep {
			continue
		}
		if err := s.db.WithContext(ctx).Delete(&models.InvoiceProduct{}, row.ID).Error; err != nil {
			return fmt.Errorf("prune line item %d: %w", row.ID, err)
		}
	}

	// Upsert the rest.
	for productID, it := range desired {
		if err := s.upsert(ctx, inv, productID, it, currentByProduct[productID]); err != nil {
			return err
		}
	}
	return nil
}

// parseItems reduces the JSON blob to a map keyed by product ID, last
// entry winning on duplicates. The boolean is false when there is nothing
// to synchronize.
func (s *Syncer) parseItems(inv *models.Invoice) (map[uint]item, bool) {
	if strings.TrimSpace(inv.InvoiceText) == "" {
		return nil, false
	}

	var list itemList
	if err := json.Unmarshal([]byte(inv.InvoiceText), &list); err != nil {
		s.log.Debug().Err(err).Uint("invoice_id", inv.ID).Msg("invoice text is not valid item JSON, skipping sync")
		return nil, false
	}
	if list.Items == nil {
		return nil, false
	}

	desired := make(map[uint]item, len(list.Items))
	for _, it := range list.Items {
		// Items without a product reference are skipped entirely; they
		// are not treated as custom lines.
		if it.ProductID == 0 {
			continue
		}
		desired[it.ProductID] = it
	}
	return desired, true
}

// upsert creates or updates the row for one product. Items referencing a
// nonexistent product are skipped. Unchanged rows are left alone so
// repeated syncs do not touch the table.
func (s *Syncer) upsert(ctx context.Context, inv *models.Invoice, productID uint, it item, existing *models.InvoiceProduct) error {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Debug().Uint("invoice_id", inv.ID).Uint("product_id", productID).Msg("unknown product in invoice text, skipping item")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load product %d: %w", productID, err)
	}

	if existing != nil {
		if existing.Quantity.Equal(it.Quantity) &&
			existing.UnitPrice.Equal(it.Price) &&
			existing.TaxRate.Equal(it.Tax) {
			return nil
		}
		existing.Quantity = it.Quantity
		existing.UnitPrice = it.Price
		existing.TaxRate = it.Tax
		if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
			return fmt.Errorf("update line item %d: %w", existing.ID, err)
		}
		return nil
	}

	row := models.InvoiceProduct{
		InvoiceID:   inv.ID,
		ProductID:   &product.ID,
		Description: product.Name,
		Quantity:    it.Quantity,
		UnitPrice:   it.Price,
		TaxRate:     it.Tax,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create line item for product %d: %w", productID, err)
	}
	return nil
}

// SyncAll runs Sync over every invoice. Intended as the cron entry point
// after bulk imports or schema repairs.
func (s *Syncer) SyncAll(ctx context.Context) (int, error) {
	var scanned int
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).FindInBatches(&invoices, 100, func(tx *gorm.DB, _ int) error {
		for i := range invoices {
			if err := s.Sync(ctx, &invoices[i]); err != nil {
				return err
			}
			scanned++
		}
		return nil
	}).Error
	if err != nil {
		return scanned, fmt.Errorf("sync all invoices: %w", err)
	}
	return scanned, nil
}
