package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderNumberStartsAtConfiguredValue(t *testing.T) {
	db := testDB(t)
	t.Setenv("ORDER_NUMBER_START", "100")

	first := seedOrder(t, db)
	require.Equal(t, 100, first.OrderNumber)

	second := seedOrder(t, db)
	require.Equal(t, 101, second.OrderNumber)
}

func TestOrderNumberNeverReassignedOnUpdate(t *testing.T) {
	db := testDB(t)
	t.Setenv("ORDER_NUMBER_START", "1")

	order := seedOrder(t, db)
	assigned := order.OrderNumber

	require.NoError(t, db.Model(order).Update("customer_name", "Renamed").Error)

	var reloaded OrderCard
	require.NoError(t, db.First(&reloaded, "id = ?", order.Id).Error)
	require.Equal(t, assigned, reloaded.OrderNumber)
}

func TestOrderNumbersUniqueAndGaplessUnderConcurrency(t *testing.T) {
	db := testDB(t)
	t.Setenv("ORDER_NUMBER_START", "1")

	const n = 16
	var wg sync.WaitGroup
	numbers := make(chan int, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order := OrderCard{
				CustomerName:    "Concurrent Customer",
				CustomerAddress: "Somewhere",
				CustomerPhone:   "0000000000",
				Status:          StatusPending,
				ProgressStatus:  ProgressSaved,
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&order).Error
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- order.OrderNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create failed: %v", err)
	}

	seen := make(map[int]bool, n)
	for number := range numbers {
		require.False(t, seen[number], "duplicate order number %d", number)
		seen[number] = true
	}
	// exactly {1..n}: no duplicates, no gaps
	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		require.True(t, seen[i], "missing order number %d", i)
	}
}

func TestInvoiceNumberAllocationAndReuse(t *testing.T) {
	db := testDB(t)
	orderA := seedOrder(t, db)
	orderB := seedOrder(t, db)

	issue := func(order *OrderCard, invoiceType string) int {
		var number int
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			var err error
			number, err = InvoiceNumberFor(tx, order.Id, invoiceType)
			if err != nil {
				return err
			}
			return tx.Create(&Invoice{
				OrderCardID:   order.Id,
				InvoiceType:   invoiceType,
				InvoiceNumber: number,
				InvoiceURL:    "https://docs.example.com/" + invoiceType,
			}).Error
		}))
		return number
	}

	require.Equal(t, 1, issue(orderA, "Quote"))
	require.Equal(t, 2, issue(orderA, "Tax Invoice"))
	// global sequence continues across orders
	require.Equal(t, 3, issue(orderB, "Quote"))

	// same (order, type) reuses its number instead of allocating
	var number int
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = InvoiceNumberFor(tx, orderA.Id, "Quote")
		return err
	}))
	require.Equal(t, 1, number)
}

func TestInvoiceNumberSharedUnderConcurrency(t *testing.T) {
	db := testDB(t)
	order := seedOrder(t, db)
	other := seedOrder(t, db)

	// a pre-existing invoice for another order so the max scan has data
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		n, err := InvoiceNumberFor(tx, other.Id, "Quote")
		if err != nil {
			return err
		}
		return tx.Create(&Invoice{
			OrderCardID: other.Id, InvoiceType: "Quote", InvoiceNumber: n,
			InvoiceURL: "https://docs.example.com/seed",
		}).Error
	}))

	const n = 8
	var wg sync.WaitGroup
	numbers := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var number int
			err := db.Transaction(func(tx *gorm.DB) error {
				var err error
				number, err = InvoiceNumberFor(tx, order.Id, "Tax Invoice")
				if err != nil {
					return err
				}
				return tx.Create(&Invoice{
					OrderCardID: order.Id, InvoiceType: "Tax Invoice", InvoiceNumber: number,
					InvoiceURL: "https://docs.example.com/concurrent",
				}).Error
			})
			// losers of the unique-index race are allowed to fail; winners
			// must all have been handed one shared number
			if err == nil {
				numbers <- number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	distinct := make(map[int]bool)
	total := 0
	for number := range numbers {
		distinct[number] = true
		total++
	}
	require.GreaterOrEqual(t, total, 1)
	require.Len(t, distinct, 1, "concurrent issuers for one (order, type) got different numbers")
}
