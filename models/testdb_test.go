package models

import (
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDBOnce sync.Once
	testDBConn *gorm.DB
	testDBErr  error
)

// testDB connects to the postgres instance named by TEST_DATABASE_DSN, runs
// migrations once, and truncates all tables so each test starts clean. Tests
// that need it are skipped when the variable is unset.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping database test")
	}

	testDBOnce.Do(func() {
		testDBConn, testDBErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if testDBErr != nil {
			return
		}
		testDBErr = testDBConn.AutoMigrate(
			&User{},
			&Product{}, &ProductMedia{},
			&OrderCard{}, &OrderPart{},
			&Invoice{},
			&IdempotencyKey{},
		)
	})
	require.NoError(t, testDBErr)

	err := testDBConn.Exec(
		`TRUNCATE TABLE invoices, order_parts, order_cards, product_media, products, idempotency_keys RESTART IDENTITY CASCADE`,
	).Error
	require.NoError(t, err)

	return testDBConn
}

func seedOrder(t *testing.T, db *gorm.DB) *OrderCard {
	t.Helper()
	order := OrderCard{
		CustomerName:    "Test Customer",
		CustomerAddress: "12 Workshop Lane",
		CustomerPhone:   "9876543210",
		Status:          StatusPending,
		ProgressStatus:  ProgressSaved,
	}
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}))
	return &order
}

func seedProduct(t *testing.T, db *gorm.DB, name string, quantity int, mrp, cgst, sgst string) *Product {
	t.Helper()
	m := decimal.RequireFromString(mrp)
	c := decimal.RequireFromString(cgst)
	s := decimal.RequireFromString(sgst)
	gst := c.Add(s)
	sku := "SKU-" + name
	product := Product{
		Name:     name,
		Sku:      &sku,
		Quantity: quantity,
		Price:    m,
		Mrp:      &m,
		Gst:      &gst,
		Cgst:     &c,
		Sgst:     &s,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}
