package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func finalize(t *testing.T, db *gorm.DB, order *OrderCard) error {
	t.Helper()
	return db.Transaction(func(tx *gorm.DB) error {
		return FinalizeOrder(tx, order)
	})
}

func productQuantity(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var product Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Quantity
}

func TestFinalizeDeductsStockAndFlipsStatus(t *testing.T) {
	db := testDB(t)
	order := seedOrder(t, db)
	product := seedProduct(t, db, "Fuel Pump", 5, "100", "9", "9")

	_, err := reconcile(t, db, order, []PartLine{{PartID: product.Id, Quantity: 5}})
	require.NoError(t, err)

	require.NoError(t, finalize(t, db, order))

	// demand equal to stock is allowed, down to zero
	require.Equal(t, 0, productQuantity(t, db, product.Id))

	var reloaded OrderCard
	require.NoError(t, db.First(&reloaded, "id = ?", order.Id).Error)
	require.Equal(t, StatusFinalized, reloaded.Status)
}

func TestFinalizeInsufficientStockAbortsWholeOrder(t *testing.T) {
	db := testDB(t)
	order := seedOrder(t, db)
	plenty := seedProduct(t, db, "Chain Sprocket", 50, "100", "9", "9")
	short := seedProduct(t, db, "Timing Belt", 5, "200", "9", "9")

	_, err := reconcile(t, db, order, []PartLine{
		{PartID: plenty.Id, Quantity: 2},
		{PartID: short.Id, Quantity: 6},
	})
	require.NoError(t, err)

	err = finalize(t, db, order)
	var insufficient *ErrInsufficientStock
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "Timing Belt", insufficient.ProductName)
	require.Equal(t, 5, insufficient.Available)
	require.Equal(t, 6, insufficient.Requested)

	// nothing was deducted, not even for the line that had stock
	require.Equal(t, 50, productQuantity(t, db, plenty.Id))
	require.Equal(t, 5, productQuantity(t, db, short.Id))

	var reloaded OrderCard
	require.NoError(t, db.First(&reloaded, "id = ?", order.Id).Error)
	require.Equal(t, StatusPending, reloaded.Status)
}

func TestFinalizeSharedStockIsSerialized(t *testing.T) {
	db := testDB(t)
	product := seedProduct(t, db, "Radiator Cap", 8, "100", "9", "9")

	first := seedOrder(t, db)
	_, err := reconcile(t, db, first, []PartLine{{PartID: product.Id, Quantity: 5}})
	require.NoError(t, err)

	second := seedOrder(t, db)
	_, err = reconcile(t, db, second, []PartLine{{PartID: product.Id, Quantity: 5}})
	require.NoError(t, err)

	require.NoError(t, finalize(t, db, first))

	err = finalize(t, db, second)
	var insufficient *ErrInsufficientStock
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, 3, insufficient.Available)
	require.Equal(t, 3, productQuantity(t, db, product.Id))
}
