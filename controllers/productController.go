package controllers

import (
	"errors"

	"inventory-backend/database"
	"inventory-backend/middlewares"
	"inventory-backend/models"
	"inventory-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCreateInput struct {
	Name             string           `json:"name" validate:"required,max=100"`
	ItemCode         *string          `json:"item_code"`
	Sku              *string          `json:"sku"`
	Hsn              *string          `json:"hsn"`
	Category         *string          `json:"category"`
	Quantity         int              `json:"quantity" validate:"gte=0"`
	ItemLocation     *string          `json:"item_location"`
	Description      *string          `json:"description"`
	Price            decimal.Decimal  `json:"price" validate:"required"`
	Msp              *decimal.Decimal `json:"msp"`
	Mrp              *decimal.Decimal `json:"mrp"`
	Gst              *decimal.Decimal `json:"gst"`
	Cgst             *decimal.Decimal `json:"cgst"`
	Sgst             *decimal.Decimal `json:"sgst"`
	Igst             *decimal.Decimal `json:"igst"`
	VendorCode       *string          `json:"vendor_code"`
	VendorName       *string          `json:"vendor_name"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price"`
	PurchaseLocation *string          `json:"purchase_location"`
	PurchaseOrderId  *string          `json:"purchase_order_id"`
	WarrantyPeriod   *string          `json:"warranty_period"`
	MobisStatus      *string          `json:"mobis_status" validate:"omitempty,oneof=Mobis Non-Mobis"`
}

type ProductUpdateInput struct {
	Name             *string          `json:"name" validate:"omitempty,max=100"`
	ItemCode         *string          `json:"item_code"`
	Sku              *string          `json:"sku"`
	Hsn              *string          `json:"hsn"`
	Category         *string          `json:"category"`
	Quantity         *int             `json:"quantity" validate:"omitempty,gte=0"`
	ItemLocation     *string          `json:"item_location"`
	Description      *string          `json:"description"`
	Price            *decimal.Decimal `json:"price"`
	Msp              *decimal.Decimal `json:"msp"`
	Mrp              *decimal.Decimal `json:"mrp"`
	Gst              *decimal.Decimal `json:"gst"`
	Cgst             *decimal.Decimal `json:"cgst"`
	Sgst             *decimal.Decimal `json:"sgst"`
	Igst             *decimal.Decimal `json:"igst"`
	VendorCode       *string          `json:"vendor_code"`
	VendorName       *string          `json:"vendor_name"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price"`
	PurchaseLocation *string          `json:"purchase_location"`
	PurchaseOrderId  *string          `json:"purchase_order_id"`
	WarrantyPeriod   *string          `json:"warranty_period"`
	MobisStatus      *string          `json:"mobis_status" validate:"omitempty,oneof=Mobis Non-Mobis"`
}

func CreateProduct(c *fiber.Ctx) error {
	var input ProductCreateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)
	utils.NormalizePtrDTO(&input)

	product := models.Product{
		Name:             input.Name,
		ItemCode:         input.ItemCode,
		Sku:              input.Sku,
		Hsn:              input.Hsn,
		Category:         input.Category,
		Quantity:         input.Quantity,
		ItemLocation:     input.ItemLocation,
		Description:      input.Description,
		Price:            input.Price,
		Msp:              input.Msp,
		Mrp:              input.Mrp,
		Gst:              input.Gst,
		Cgst:             input.Cgst,
		Sgst:             input.Sgst,
		Igst:             input.Igst,
		VendorCode:       input.VendorCode,
		VendorName:       input.VendorName,
		PurchasePrice:    input.PurchasePrice,
		PurchaseLocation: input.PurchaseLocation,
		PurchaseOrderId:  input.PurchaseOrderId,
		WarrantyPeriod:   input.WarrantyPeriod,
		MobisStatus:      models.MobisStatusNonMobis,
	}
	if input.MobisStatus != nil {
		product.MobisStatus = *input.MobisStatus
	}

	tx := database.DB.Begin()
	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	tx.Commit()

	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetProducts lists the catalog with optional substring filters on name and
// sku and an exact category filter.
func GetProducts(c *fiber.Ctx) error {
	q := database.DB.Preload("Media").Order("created_at DESC")
	if name := c.Query("name"); name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}
	if sku := c.Query("sku"); sku != "" {
		q = q.Where("sku ILIKE ?", "%"+sku+"%")
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if limit := utils.ParseIntDefault(c.Query("limit"), 0); limit > 0 {
		q = q.Limit(limit).Offset(utils.ParseIntDefault(c.Query("offset"), 0))
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(products)
}

func GetProduct(c *fiber.Ctx) error {
	var product models.Product
	err := database.DB.Preload("Media").Where("id = ?", c.Params("product_id")).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}
	return c.JSON(product)
}

func UpdateProduct(c *fiber.Ctx) error {
	var input ProductUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	var product models.Product
	if err := database.DB.Where("id = ?", c.Params("product_id")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		tx := database.DB.Begin()
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not update product",
				"error":   err.Error(),
			})
		}
		tx.Commit()
	}

	return c.JSON(product)
}

func DeleteProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := database.DB.Where("id = ?", c.Params("product_id")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}

	if err := database.DB.Select("Media").Delete(&product).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).JSON(fiber.Map{"message": "Product deleted successfully"})
}

type ProductMediaInput struct {
	MediaType     string  `json:"media_type" validate:"required,oneof=image video"`
	StorageFileId *string `json:"storage_file_id"`
	PreviewUrl    *string `json:"preview_url" validate:"omitempty,url"`
	ThumbnailUrl  *string `json:"thumbnail_url" validate:"omitempty,url"`
}

func AddProductMedia(c *fiber.Ctx) error {
	var input ProductMediaInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var product models.Product
	if err := database.DB.Where("id = ?", c.Params("product_id")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}

	media := models.ProductMedia{
		ProductID:     product.Id,
		MediaType:     input.MediaType,
		StorageFileId: input.StorageFileId,
		PreviewUrl:    input.PreviewUrl,
		ThumbnailUrl:  input.ThumbnailUrl,
	}
	if err := database.DB.Create(&media).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not attach media",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}

func DeleteProductMedia(c *fiber.Ctx) error {
	var media models.ProductMedia
	if err := database.DB.Where("id = ?", c.Params("media_id")).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Media not found"})
		}
		return err
	}

	if err := database.DB.Delete(&media).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).JSON(fiber.Map{"message": "Media deleted successfully"})
}
