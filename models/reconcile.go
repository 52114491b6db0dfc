package models

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartLine is one requested order line. Mrp and Discount override the catalog
// values when present; omitted, the snapshot takes the product's MRP and a
// zero discount.
type PartLine struct {
	PartID   string           `json:"part_id" validate:"required"`
	Quantity int              `json:"quantity" validate:"gte=0"`
	Mrp      *decimal.Decimal `json:"mrp,omitempty"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
}

type ReconcileResult struct {
	Upserted []OrderPart
	Deleted  []string
	Created  bool
}

// ReconcileOrderParts brings the order's persisted lines in sync with the
// requested set: persisted lines absent from the request are deleted, a
// zero-quantity line deletes its row, and every other line is created or
// updated with a fresh pricing snapshot and recomputed totals. The header
// rollups are refreshed afterwards.
//
// All requested products are resolved before anything is written; when any id
// is unknown the whole batch fails with ErrProductsNotFound listing every bad
// id and no row is touched. Runs inside the caller's transaction.
func ReconcileOrderParts(tx *gorm.DB, order *OrderCard, lines []PartLine) (*ReconcileResult, error) {
	var lookupIDs []string
	for _, line := range lines {
		if line.Quantity > 0 {
			lookupIDs = append(lookupIDs, line.PartID)
		}
	}

	productsByID := make(map[string]Product, len(lookupIDs))
	if len(lookupIDs) > 0 {
		var products []Product
		if err := tx.Where("id IN ?", lookupIDs).Find(&products).Error; err != nil {
			return nil, err
		}
		for _, product := range products {
			productsByID[product.Id] = product
		}
	}

	var missing []string
	for _, line := range lines {
		if line.Quantity > 0 {
			if _, ok := productsByID[line.PartID]; !ok {
				missing = append(missing, line.PartID)
			}
		}
	}
	if len(missing) > 0 {
		return nil, &ErrProductsNotFound{IDs: missing}
	}

	requested := make(map[string]bool, len(lines))
	for _, line := range lines {
		requested[line.PartID] = true
	}

	var current []OrderPart
	if err := tx.Where("order_card_id = ?", order.Id).Find(&current).Error; err != nil {
		return nil, err
	}
	currentByPartID := make(map[string]OrderPart, len(current))
	for _, part := range current {
		currentByPartID[part.PartID] = part
	}

	res := &ReconcileResult{}

	// Drop persisted lines the request no longer mentions.
	for _, part := range current {
		if !requested[part.PartID] {
			if err := tx.Delete(&OrderPart{}, "id = ?", part.Id).Error; err != nil {
				return nil, err
			}
			res.Deleted = append(res.Deleted, part.PartID)
		}
	}

	for _, line := range lines {
		existing, exists := currentByPartID[line.PartID]

		if line.Quantity == 0 {
			if exists {
				if err := tx.Delete(&OrderPart{}, "id = ?", existing.Id).Error; err != nil {
					return nil, err
				}
				res.Deleted = append(res.Deleted, line.PartID)
			}
			continue
		}

		product := productsByID[line.PartID]

		mrp := product.EffectiveMrp()
		if line.Mrp != nil {
			mrp = *line.Mrp
		}
		discount := decimal.Zero
		if line.Discount != nil {
			discount = *line.Discount
		}

		part := existing
		if !exists {
			part = OrderPart{
				OrderCardID: order.Id,
				PartID:      product.Id,
			}
		}
		part.PartName = product.Name
		if product.Sku != nil {
			part.PartNumber = *product.Sku
		}
		if product.Hsn != nil {
			part.Hsn = *product.Hsn
		}
		part.Quantity = line.Quantity
		part.Mrp = mrp
		part.Discount = discount
		part.Gst = derefOrZero(product.Gst)
		part.Cgst = derefOrZero(product.Cgst)
		part.Sgst = derefOrZero(product.Sgst)
		part.CalculateTotals()

		if exists {
			if err := tx.Save(&part).Error; err != nil {
				return nil, err
			}
		} else {
			if err := tx.Create(&part).Error; err != nil {
				return nil, err
			}
			res.Created = true
		}
		res.Upserted = append(res.Upserted, part)
	}

	// Refresh the header rollups from what actually remains.
	var remaining []OrderPart
	if err := tx.Where("order_card_id = ?", order.Id).Find(&remaining).Error; err != nil {
		return nil, err
	}
	order.RefreshTotals(remaining)
	if err := tx.Model(order).Select(
		"discount_amount", "sub_total", "cgst_amount", "sgst_amount", "total_tax", "total_amount",
	).Updates(order).Error; err != nil {
		return nil, err
	}

	return res, nil
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ErrOrderFinalized rejects line changes once an order left the Pending state.
var ErrOrderFinalized = errors.New("order is finalized and no longer accepts part changes")

func (order *OrderCard) EnsureEditable() error {
	if order.Status != StatusPending {
		return ErrOrderFinalized
	}
	return nil
}
