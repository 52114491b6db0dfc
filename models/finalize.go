package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinalizeOrder checks stock for every line of the order and deducts it, then
// flips the order to Finalized. All-or-nothing: one short line aborts the whole
// operation with ErrInsufficientStock and nothing deducted.
//
// Every referenced product row is locked FOR UPDATE before any quantity is
// read, and the rows are locked in id order so two finalizes touching the same
// products cannot deadlock. Runs inside the caller's transaction; a concurrent
// finalize for shared products waits on the row locks and then sees the
// already-deducted quantities.
func FinalizeOrder(tx *gorm.DB, order *OrderCard) error {
	var parts []OrderPart
	if err := tx.Where("order_card_id = ?", order.Id).Find(&parts).Error; err != nil {
		return err
	}

	productIDs := make([]string, 0, len(parts))
	for _, part := range parts {
		productIDs = append(productIDs, part.PartID)
	}

	productsByID := make(map[string]Product, len(parts))
	if len(productIDs) > 0 {
		var products []Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", productIDs).
			Order("id").
			Find(&products).Error
		if err != nil {
			return err
		}
		for _, product := range products {
			productsByID[product.Id] = product
		}
	}

	for _, part := range parts {
		product, ok := productsByID[part.PartID]
		if !ok {
			return &ErrProductsNotFound{IDs: []string{part.PartID}}
		}
		if product.Quantity < part.Quantity {
			return &ErrInsufficientStock{
				ProductID:   product.Id,
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   part.Quantity,
			}
		}
	}

	for _, part := range parts {
		err := tx.Model(&Product{}).
			Where("id = ?", part.PartID).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", part.Quantity)).Error
		if err != nil {
			return err
		}
	}

	order.Status = StatusFinalized
	return tx.Model(order).Update("status", StatusFinalized).Error
}
