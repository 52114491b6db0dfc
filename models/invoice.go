package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice records a numbered document issued for an order. The document itself
// is generated externally; InvoiceURL points at it and is the only field that
// may change after creation. The composite unique index enforces that one
// (order, type) pair carries exactly one number.
type Invoice struct {
	Id            string    `json:"id" gorm:"primaryKey"`
	OrderCardID   string    `json:"order_card" gorm:"not null;index:idx_invoices_order_type_number,unique,priority:1"`
	OrderCard     OrderCard `json:"-" gorm:"foreignKey:OrderCardID;constraint:OnDelete:CASCADE"`
	InvoiceType   string    `json:"invoice_type" gorm:"size:50;not null;index:idx_invoices_order_type_number,unique,priority:2"`
	InvoiceNumber int       `json:"invoice_number" gorm:"not null;index:idx_invoices_order_type_number,unique,priority:3"`
	InvoiceURL    string    `json:"invoice_url" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if invoice.Id == "" {
		invoice.Id = uuid.NewString()
	}
	return
}
