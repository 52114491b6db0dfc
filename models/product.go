package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MobisStatusMobis    = "Mobis"
	MobisStatusNonMobis = "Non-Mobis"
)

// Product is the catalog entity. Order processing only reads the pricing/tax
// fields and deducts Quantity on finalize; everything else is plain CRUD.
type Product struct {
	Id               string           `json:"id" gorm:"primaryKey"`
	Name             string           `json:"name" gorm:"size:100;not null"`
	ItemCode         *string          `json:"item_code" gorm:"size:50"`
	Sku              *string          `json:"sku" gorm:"size:50;unique"`
	Hsn              *string          `json:"hsn" gorm:"size:50;unique"`
	Category         *string          `json:"category" gorm:"size:50"`
	Quantity         int              `json:"quantity" gorm:"not null;default:0"`
	ItemLocation     *string          `json:"item_location" gorm:"size:500"`
	Description      *string          `json:"description"`
	Price            decimal.Decimal  `json:"price" gorm:"type:numeric(12,2);not null"`
	Msp              *decimal.Decimal `json:"msp" gorm:"type:numeric(12,2)"`
	Mrp              *decimal.Decimal `json:"mrp" gorm:"type:numeric(12,2)"`
	Gst              *decimal.Decimal `json:"gst" gorm:"type:numeric(5,2)"`
	Cgst             *decimal.Decimal `json:"cgst" gorm:"type:numeric(5,2)"`
	Sgst             *decimal.Decimal `json:"sgst" gorm:"type:numeric(5,2)"`
	Igst             *decimal.Decimal `json:"igst" gorm:"type:numeric(5,2)"`
	VendorCode       *string          `json:"vendor_code" gorm:"size:50"`
	VendorName       *string          `json:"vendor_name" gorm:"size:100"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price" gorm:"type:numeric(12,2)"`
	PurchaseLocation *string          `json:"purchase_location" gorm:"size:500"`
	PurchaseOrderId  *string          `json:"purchase_order_id" gorm:"size:50"`
	WarrantyPeriod   *string          `json:"warranty_period" gorm:"size:50"`
	MobisStatus      string           `json:"mobis_status" gorm:"size:10;not null;default:Non-Mobis"`

	Media []ProductMedia `json:"media" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if product.Id == "" {
		product.Id = uuid.NewString()
	}
	return
}

// EffectiveMrp is the list price used for order snapshots: the MRP when the
// catalog carries one, otherwise the plain price.
func (product *Product) EffectiveMrp() decimal.Decimal {
	if product.Mrp != nil {
		return *product.Mrp
	}
	return product.Price
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// ProductMedia points at files held in external storage; only ids/URLs live here.
type ProductMedia struct {
	Id             string    `json:"id" gorm:"primaryKey"`
	ProductID      string    `json:"product" gorm:"not null;index"`
	MediaType      string    `json:"media_type" gorm:"size:10;not null"`
	StorageFileId  *string   `json:"storage_file_id" gorm:"size:255"`
	PreviewUrl     *string   `json:"preview_url" gorm:"size:255"`
	ThumbnailUrl   *string   `json:"thumbnail_url" gorm:"size:255"`
	CreatedAt      time.Time `json:"created_at"`
}

func (media *ProductMedia) BeforeCreate(tx *gorm.DB) (err error) {
	if media.Id == "" {
		media.Id = uuid.NewString()
	}
	return
}
