package models

import (
	"errors"
	"os"
	"strconv"

	"gorm.io/gorm"
)

// orderNumberStart is the number handed to the very first order. Configurable
// because deployed schemas started at different values.
func orderNumberStart() int {
	if v := os.Getenv("ORDER_NUMBER_START"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// nextOrderNumber allocates the next order number inside tx. The table is
// locked in EXCLUSIVE mode for the remainder of the transaction, so concurrent
// creates serialize on the lock and each sees every previously committed row
// when it reads the maximum. A plain SELECT ... FOR UPDATE on the max row is
// not enough here: a waiter woken after the lock holder commits re-reads the
// old row, not the newly inserted one, and would allocate a duplicate.
// Gaps are possible when a transaction rolls back, duplicates are not.
func nextOrderNumber(tx *gorm.DB) (int, error) {
	if err := tx.Exec("LOCK TABLE order_cards IN EXCLUSIVE MODE").Error; err != nil {
		return 0, err
	}
	var max int
	err := tx.Model(&OrderCard{}).
		Select("COALESCE(MAX(order_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == 0 {
		return orderNumberStart(), nil
	}
	return max + 1, nil
}

// InvoiceNumberFor returns the number invoices of the given order and type
// must carry: the existing one when such an invoice was already issued,
// otherwise the next value of the global sequence shared across all orders
// and types.
//
// The table lock is taken before the reuse check, so concurrent issuers for
// the same (order, type) serialize and the later one observes the earlier
// one's committed row instead of allocating a second number. Callers must run
// this inside a transaction; the lock is released with it.
func InvoiceNumberFor(tx *gorm.DB, orderCardID, invoiceType string) (int, error) {
	if err := tx.Exec("LOCK TABLE invoices IN EXCLUSIVE MODE").Error; err != nil {
		return 0, err
	}

	var existing Invoice
	err := tx.Where("order_card_id = ? AND invoice_type = ?", orderCardID, invoiceType).
		First(&existing).Error
	if err == nil {
		return existing.InvoiceNumber, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	var max int
	err = tx.Model(&Invoice{}).
		Select("COALESCE(MAX(invoice_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
