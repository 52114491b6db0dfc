package controllers

import (
	"errors"

	"inventory-backend/database"
	"inventory-backend/middlewares"
	"inventory-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InvoiceCreateInput struct {
	OrderCard   string `json:"order_card" validate:"required,uuid4"`
	InvoiceType string `json:"invoice_type" validate:"required,max=50"`
	InvoiceURL  string `json:"invoice_url" validate:"required,url"`
}

type InvoiceUpdateInput struct {
	InvoiceURL string `json:"invoice_url" validate:"required,url"`
}

// GetNextInvoiceNumber returns the number an invoice of the given type for the
// given order will carry: the existing shared number when one was already
// issued, otherwise the next value of the global sequence. The frontend calls
// this before generating the document.
func GetNextInvoiceNumber(c *fiber.Ctx) error {
	var number int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := findOrder(tx, c.Params("order_id")); err != nil {
			return err
		}
		var err error
		number, err = models.InvoiceNumberFor(tx, c.Params("order_id"), c.Params("invoice_type"))
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return err
	}
	return c.JSON(fiber.Map{"invoice_number": number})
}

// CreateInvoice persists an invoice pointing at an already-generated document.
// Number assignment and the insert run in one transaction so concurrent
// requests for the same (order, type) cannot end up with different numbers.
func CreateInvoice(c *fiber.Ctx) error {
	var input InvoiceCreateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	invoice := models.Invoice{
		OrderCardID: input.OrderCard,
		InvoiceType: input.InvoiceType,
		InvoiceURL:  input.InvoiceURL,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := findOrder(tx, input.OrderCard); err != nil {
			return err
		}
		number, err := models.InvoiceNumberFor(tx, input.OrderCard, input.InvoiceType)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
		return tx.Create(&invoice).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The (order, type, number) unique index: another request claimed
			// the number first. The client can simply retry.
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "An integrity error occurred. Please try again.",
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetInvoicesOrDetail serves GET /invoices/:id. The path is ambiguous by
// contract: an order id lists that order's invoices ordered by number, any
// other id is treated as an invoice id and returns the single record.
func GetInvoicesOrDetail(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := findOrder(database.DB, id); err == nil {
		var invoices []models.Invoice
		if err := database.DB.Where("order_card_id = ?", id).
			Order("invoice_number ASC").Find(&invoices).Error; err != nil {
			return err
		}
		return c.JSON(invoices)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var invoice models.Invoice
	if err := database.DB.Where("id = ?", id).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
		}
		return err
	}
	return c.JSON(invoice)
}

// UpdateInvoice accepts only invoice_url; everything else on an issued invoice
// is immutable.
func UpdateInvoice(c *fiber.Ctx) error {
	var input InvoiceUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var invoice models.Invoice
	if err := database.DB.Where("id = ?", c.Params("invoice_id")).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
		}
		return err
	}

	tx := database.DB.Begin()
	if err := tx.Model(&invoice).Update("invoice_url", input.InvoiceURL).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update invoice",
			"error":   err.Error(),
		})
	}
	tx.Commit()

	return c.JSON(invoice)
}

func DeleteInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.Where("id = ?", c.Params("invoice_id")).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
		}
		return err
	}

	if err := database.DB.Delete(&invoice).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).JSON(fiber.Map{"message": "Invoice deleted successfully"})
}
