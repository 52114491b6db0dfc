package models

import (
	"time"

	"inventory-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderPart is one line of an order. It stores a full snapshot of the product's
// name, number and pricing taken when the line was added, so historical orders
// stay unchanged when the catalog is edited or a product is deleted. PartID is
// deliberately not a foreign key for the same reason.
type OrderPart struct {
	Id          string `json:"id" gorm:"primaryKey"`
	OrderCardID string `json:"order" gorm:"not null;index:idx_order_parts_order_part,unique,priority:1"`
	PartID      string `json:"part_id" gorm:"size:100;not null;index:idx_order_parts_order_part,unique,priority:2"`
	PartName    string `json:"part_name" gorm:"size:255"`
	PartNumber  string `json:"part_number" gorm:"size:50"`
	Hsn         string `json:"hsn" gorm:"size:20"`
	Quantity    int    `json:"quantity" gorm:"not null;default:1"`

	Mrp            decimal.Decimal `json:"mrp" gorm:"type:numeric(12,2);not null"`
	Discount       decimal.Decimal `json:"discount" gorm:"type:numeric(5,2);not null;default:0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2);not null;default:0"`
	SubTotal       decimal.Decimal `json:"sub_total" gorm:"type:numeric(12,2);not null"`
	Gst            decimal.Decimal `json:"gst" gorm:"type:numeric(5,2)"`
	Cgst           decimal.Decimal `json:"cgst" gorm:"type:numeric(5,2)"`
	Sgst           decimal.Decimal `json:"sgst" gorm:"type:numeric(5,2)"`
	CgstAmount     decimal.Decimal `json:"cgst_amount" gorm:"type:numeric(12,2)"`
	SgstAmount     decimal.Decimal `json:"sgst_amount" gorm:"type:numeric(12,2)"`
	TotalTax       decimal.Decimal `json:"total_tax" gorm:"type:numeric(12,2);not null"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (part *OrderPart) BeforeCreate(tx *gorm.DB) (err error) {
	if part.Id == "" {
		part.Id = uuid.NewString()
	}
	return
}

// CalculateTotals recomputes every derived money field from quantity, mrp,
// discount and the snapshotted tax rates. Intermediates keep full precision;
// only the stored outputs are rounded to 2 decimal places. Must be called
// whenever quantity, mrp or discount changes.
func (part *OrderPart) CalculateTotals() {
	qty := decimal.NewFromInt(int64(part.Quantity))
	mrpSubTotal := part.Mrp.Mul(qty)
	discountAmount := utils.Percent(mrpSubTotal, part.Discount)
	subTotal := mrpSubTotal.Sub(discountAmount)
	cgstAmount := utils.Percent(subTotal, part.Cgst)
	sgstAmount := utils.Percent(subTotal, part.Sgst)
	totalTax := cgstAmount.Add(sgstAmount)
	totalAmount := subTotal.Add(totalTax)

	part.DiscountAmount = utils.Round2(discountAmount)
	part.SubTotal = utils.Round2(subTotal)
	part.CgstAmount = utils.Round2(cgstAmount)
	part.SgstAmount = utils.Round2(sgstAmount)
	part.TotalTax = utils.Round2(totalTax)
	part.TotalAmount = utils.Round2(totalAmount)
}
