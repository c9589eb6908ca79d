package productsync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/billkeeper/billkeeper/internal/db"
	"github.com/billkeeper/billkeeper/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSyncTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Status{}, &models.Client{}, &models.Supplier{}, &models.Product{}, &models.Invoice{}, &models.InvoiceProduct{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedStatuses(conn); err != nil {
		t.Fatalf("seed statuses: %v", err)
	}
	return conn
}

// seedSyncFixtures creates an invoice plus two catalog products and
// returns them. The invoice starts with an empty item list.
func seedSyncFixtures(t *testing.T, conn *gorm.DB) (*models.Invoice, models.Product, models.Product) {
	t.Helper()

	user := models.User{Email: "owner@test", Password: "x"}
	require.NoError(t, conn.Create(&user).Error)
	client := models.Client{UserID: user.ID, Name: "ClientCo"}
	require.NoError(t, conn.Create(&client).Error)
	supplier := models.Supplier{UserID: user.ID, Name: "SupplyCo"}
	require.NoError(t, conn.Create(&supplier).Error)

	var pending models.Status
	require.NoError(t, conn.Where("slug = ? AND kind = ?", models.StatusPending, models.StatusKindInvoice).First(&pending).Error)

	p1 := models.Product{UserID: user.ID, Code: "SKU1", Name: "Consulting", UnitPrice: decimal.NewFromInt(10), TaxRate: decimal.NewFromInt(21)}
	require.NoError(t, conn.Create(&p1).Error)
	p2 := models.Product{UserID: user.ID, Code: "SKU2", Name: "Hosting", UnitPrice: decimal.NewFromInt(25), TaxRate: decimal.NewFromInt(21)}
	require.NoError(t, conn.Create(&p2).Error)

	inv := &models.Invoice{
		UserID:          user.ID,
		Number:          "INV-1",
		ClientID:        client.ID,
		SupplierID:      supplier.ID,
		IssueDate:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PaymentStatusID: pending.ID,
		Amount:          decimal.NewFromInt(100),
	}
	require.NoError(t, conn.Create(inv).Error)
	return inv, p1, p2
}

func loadRows(t *testing.T, conn *gorm.DB, invoiceID uint) []models.InvoiceProduct {
	t.Helper()
	var rows []models.InvoiceProduct
	require.NoError(t, conn.Where("invoice_id = ?", invoiceID).Order("id").Find(&rows).Error)
	return rows
}

func TestSyncer_CreatesRowsFromJSON(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	rows := loadRows(t, conn, inv.ID)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Equal(t, p1.ID, *row.ProductID)
	require.Equal(t, "2", row.Quantity.String())
	require.Equal(t, "10", row.UnitPrice.String())
	require.Equal(t, "21", row.TaxRate.String())
	// Derived fields recomputed on save.
	require.Equal(t, "4.20", row.TaxAmount.StringFixed(2))
	require.Equal(t, "24.20", row.TotalPrice.StringFixed(2))
}

func TestSyncer_IsIdempotent(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))
	before := loadRows(t, conn, inv.ID)

	require.NoError(t, s.Sync(context.Background(), inv))
	after := loadRows(t, conn, inv.ID)

	require.Len(t, after, 1)
	require.Equal(t, before[0].ID, after[0].ID)
	require.True(t, before[0].UpdatedAt.Equal(after[0].UpdatedAt), "unchanged JSON must not rewrite rows")
}

func TestSyncer_PrunesAndReplaces(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, p2 := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	// Replace the item set: product 1 disappears, product 2 appears.
	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1,"price":25,"tax":21}]}`, p2.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	rows := loadRows(t, conn, inv.ID)
	require.Len(t, rows, 1)
	require.Equal(t, p2.ID, *rows[0].ProductID)
}

func TestSyncer_UpdatesChangedItems(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))
	first := loadRows(t, conn, inv.ID)

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":5,"price":12,"tax":10}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	rows := loadRows(t, conn, inv.ID)
	require.Len(t, rows, 1)
	require.Equal(t, first[0].ID, rows[0].ID, "existing row updated, not recreated")
	require.Equal(t, "5", rows[0].Quantity.String())
	require.Equal(t, "12", rows[0].UnitPrice.String())
	require.Equal(t, "10", rows[0].TaxRate.String())
	require.Equal(t, "6.00", rows[0].TaxAmount.StringFixed(2))
	require.Equal(t, "66.00", rows[0].TotalPrice.StringFixed(2))
}

func TestSyncer_InvalidInputIsNoOp(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	// Establish one row so later no-ops can be distinguished from prunes.
	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	for name, text := range map[string]string{
		"invalid json":    `{"items":[`,
		"items not array": `{"items":"nope"}`,
		"no items key":    `{"lines":[]}`,
		"empty text":      "",
		"null items":      `{"items":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			inv.InvoiceText = text
			require.NoError(t, s.Sync(context.Background(), inv))
			require.Len(t, loadRows(t, conn, inv.ID), 1, "no mutation expected")
		})
	}
}

func TestSyncer_SkipsItemsWithoutProductID(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, _, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = `{"items":[{"name":"no id","quantity":1,"price":5}]}`
	require.NoError(t, s.Sync(context.Background(), inv))
	require.Empty(t, loadRows(t, conn, inv.ID))
}

func TestSyncer_SkipsUnknownProducts(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1,"price":10,"tax":21},{"product_id":99999,"quantity":1,"price":1,"tax":0}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	rows := loadRows(t, conn, inv.ID)
	require.Len(t, rows, 1)
	require.Equal(t, p1.ID, *rows[0].ProductID)
}

func TestSyncer_LeavesCustomLinesAlone(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	custom := models.InvoiceProduct{
		InvoiceID:   inv.ID,
		Description: "Rush fee",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(40),
		TaxRate:     decimal.Zero,
	}
	require.NoError(t, conn.Create(&custom).Error)

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	rows := loadRows(t, conn, inv.ID)
	require.Len(t, rows, 2)
	require.Nil(t, rows[0].ProductID)
	require.Equal(t, "Rush fee", rows[0].Description)
}

func TestSyncer_DuplicateProductLastWins(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1,"price":10,"tax":21},{"product_id":%d,"quantity":7,"price":11,"tax":21}]}`, p1.ID, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	rows := loadRows(t, conn, inv.ID)
	require.Len(t, rows, 1)
	require.Equal(t, "7", rows[0].Quantity.String())
}

func TestSyncer_EmptyItemsArrayPrunesEverything(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, s.Sync(context.Background(), inv))

	inv.InvoiceText = `{"items":[]}`
	require.NoError(t, s.Sync(context.Background(), inv))
	require.Empty(t, loadRows(t, conn, inv.ID))
}

func TestSyncer_SyncAll(t *testing.T) {
	conn := setupSyncTestDB(t)
	inv, p1, _ := seedSyncFixtures(t, conn)
	s := NewSyncer(conn, zerolog.Nop())

	inv.InvoiceText = fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"price":10,"tax":21}]}`, p1.ID)
	require.NoError(t, conn.Save(inv).Error)

	n, err := s.SyncAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, loadRows(t, conn, inv.ID), 1)
}
