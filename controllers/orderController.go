package controllers

import (
	"errors"
	"fmt"

	"inventory-backend/database"
	"inventory-backend/middlewares"
	"inventory-backend/models"
	"inventory-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderCardCreateInput struct {
	CustomerName               string  `json:"customer_name" validate:"required,max=255"`
	CustomerAddress            string  `json:"customer_address" validate:"required"`
	CustomerPhone              string  `json:"customer_phone" validate:"required,max=15"`
	CustomerGst                *string `json:"customer_gst" validate:"omitempty,max=20"`
	CustomerEmail              *string `json:"customer_email" validate:"omitempty,email"`
	CustomerChassisOrEngineNum *string `json:"customer_chassis_or_engine_num" validate:"omitempty,max=100"`
}

type OrderCardUpdateInput struct {
	CustomerName               *string `json:"customer_name" validate:"omitempty,max=255"`
	CustomerAddress            *string `json:"customer_address"`
	CustomerPhone              *string `json:"customer_phone" validate:"omitempty,max=15"`
	CustomerGst                *string `json:"customer_gst" validate:"omitempty,max=20"`
	CustomerEmail              *string `json:"customer_email" validate:"omitempty,email"`
	CustomerChassisOrEngineNum *string `json:"customer_chassis_or_engine_num" validate:"omitempty,max=100"`
	ProgressStatus             *int    `json:"progress_status" validate:"omitempty,min=1,max=3"`
}

func findOrder(db *gorm.DB, id string) (*models.OrderCard, error) {
	var order models.OrderCard
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func GetOrders(c *fiber.Ctx) error {
	var orders []models.OrderCard
	if err := database.DB.Preload("Parts").Order("created_at DESC").Find(&orders).Error; err != nil {
		return err
	}
	return c.JSON(orders)
}

func CreateOrder(c *fiber.Ctx) error {
	var input OrderCardCreateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	order := models.OrderCard{
		CustomerName:               input.CustomerName,
		CustomerAddress:            input.CustomerAddress,
		CustomerPhone:              input.CustomerPhone,
		CustomerGst:                input.CustomerGst,
		CustomerEmail:              input.CustomerEmail,
		CustomerChassisOrEngineNum: input.CustomerChassisOrEngineNum,
		Status:                     models.StatusPending,
		ProgressStatus:             models.ProgressSaved,
	}

	// The order number is allocated in BeforeCreate under this transaction's
	// lock; a failed create releases the number's transaction without a gapless
	// guarantee, which is fine. Duplicate-key and unexpected errors get their
	// statuses from the central ErrorHandler.
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func GetOrder(c *fiber.Ctx) error {
	var order models.OrderCard
	err := database.DB.Preload("Parts").Where("id = ?", c.Params("order_id")).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return err
	}
	return c.JSON(order)
}

func UpdateOrder(c *fiber.Ctx) error {
	var input OrderCardUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	order, err := findOrder(database.DB, c.Params("order_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return err
	}

	// Only customer fields and the advisory progress stage are updatable here;
	// order_number and status have their own flows.
	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		tx := database.DB.Begin()
		if err := tx.Model(order).Updates(updates).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not update order",
				"error":   err.Error(),
			})
		}
		tx.Commit()
	}

	return c.Status(fiber.StatusNoContent).JSON(order)
}

func DeleteOrder(c *fiber.Ctx) error {
	order, err := findOrder(database.DB, c.Params("order_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return err
	}

	if err := database.DB.Select("Parts").Delete(order).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).JSON(fiber.Map{"message": "Order deleted successfully"})
}

type addPartsInput struct {
	Parts []models.PartLine `json:"parts" validate:"required"`
}

// AddPartsToOrder reconciles the order's lines against the requested set.
// 201 when the request created at least one new line, 204 when it only updated
// or deleted. One unknown product id fails the whole batch with no changes.
func AddPartsToOrder(c *fiber.Ctx) error {
	var input addPartsInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	// validator does not descend into slice elements without dive, so each
	// line is checked on its own
	for _, line := range input.Parts {
		if err := middlewares.ValidateStruct(line); err != nil {
			return err
		}
	}

	var res *models.ReconcileResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, c.Params("order_id"))
		if err != nil {
			return err
		}
		if err := order.EnsureEditable(); err != nil {
			return err
		}
		res, err = models.ReconcileOrderParts(tx, order, input.Parts)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		var notFound *models.ErrProductsNotFound
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
		}
		if errors.Is(err, models.ErrOrderFinalized) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}

	code := fiber.StatusNoContent
	if res.Created {
		code = fiber.StatusCreated
	}
	upserted := res.Upserted
	if upserted == nil {
		upserted = []models.OrderPart{}
	}
	deleted := res.Deleted
	if deleted == nil {
		deleted = []string{}
	}
	return c.Status(code).JSON(fiber.Map{
		"added_or_updated_parts": upserted,
		"deleted_parts":          deleted,
	})
}

// FinalizeOrder deducts stock for every line and closes the order for further
// part changes. All-or-nothing across lines.
func FinalizeOrder(c *fiber.Ctx) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, c.Params("order_id"))
		if err != nil {
			return err
		}
		if order.Status != models.StatusPending {
			return models.ErrOrderFinalized
		}
		return models.FinalizeOrder(tx, order)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		var notFound *models.ErrProductsNotFound
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
		}
		var stock *models.ErrInsufficientStock
		if errors.As(err, &stock) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Not enough stock for %s", stock.ProductName),
			})
		}
		if errors.Is(err, models.ErrOrderFinalized) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order is already finalized"})
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "Order finalized and inventory updated."})
}

type sendOTPInput struct {
	OrderID string `json:"order_id" validate:"required,uuid4"`
}

type verifyOTPInput struct {
	OrderID string `json:"order_id" validate:"required,uuid4"`
	OTP     string `json:"otp" validate:"required,len=6"`
}

// SendOTP generates a fresh secret for the order and emails the derived code to
// the customer. The secret is committed before the mail goes out, so a failed
// delivery can be retried without invalidating anything.
func SendOTP(c *fiber.Ctx) error {
	var input sendOTPInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	order, err := findOrder(database.DB, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return err
	}
	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order has no customer email"})
	}

	// Clear old OTP and generate a new one
	if err := order.GenerateOTPSecret(); err != nil {
		return err
	}
	otpCode, err := order.GenerateOTP()
	if err != nil {
		return err
	}

	err = database.DB.Model(order).Updates(map[string]any{
		"otp_secret":       order.OtpSecret,
		"otp_generated_at": order.OtpGeneratedAt,
	}).Error
	if err != nil {
		return err
	}

	subject := "Order Verification OTP"
	body := fmt.Sprintf("Your OTP for order #%d is %s. It is valid for 10 minutes.",
		order.OrderNumber, otpCode)
	if err := utils.SendMail(*order.CustomerEmail, subject, body); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not send OTP email",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "OTP sent to customer's email."})
}

// VerifyOTP checks the submitted code and, when it matches, marks the order
// Completed and clears the secret so the code cannot be replayed.
func VerifyOTP(c *fiber.Ctx) error {
	var input verifyOTPInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	order, err := findOrder(database.DB, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return err
	}

	if order.IsOTPExpired() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"isVerified": false,
			"error":      "OTP has expired. Please request a new OTP.",
		})
	}
	if !order.VerifyOTP(input.OTP) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"isVerified": false,
			"error":      "Invalid OTP.",
		})
	}

	order.MarkAsCompleted()
	err = database.DB.Model(order).Updates(map[string]any{
		"status":           order.Status,
		"otp_secret":       nil,
		"otp_generated_at": nil,
	}).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"isVerified": true,
		"message":    "Order verified and marked as completed.",
	})
}
