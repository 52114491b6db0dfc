package models

import (
	"time"

	"inventory-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending   = "Pending"
	StatusFinalized = "Finalized"
	StatusCompleted = "Completed"
)

// Progress stages shown by the frontend. Advisory only; the backend never
// enforces transitions between them.
const (
	ProgressSaved      = 1
	ProgressQuoted     = 2
	ProgressTaxInvoice = 3
)

// OrderCard is the order header aggregate. The order number is allocated
// exactly once, inside the transaction that first persists the card; updates
// can never renumber it.
type OrderCard struct {
	Id                         string  `json:"id" gorm:"primaryKey"`
	OrderNumber                int     `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerName               string  `json:"customer_name" gorm:"size:255;not null"`
	CustomerAddress            string  `json:"customer_address" gorm:"not null"`
	CustomerPhone              string  `json:"customer_phone" gorm:"size:15;not null"`
	CustomerGst                *string `json:"customer_gst" gorm:"size:20"`
	CustomerEmail              *string `json:"customer_email"`
	CustomerChassisOrEngineNum *string `json:"customer_chassis_or_engine_num" gorm:"size:100"`
	Status                     string  `json:"status" gorm:"size:50;not null;default:Pending"`
	ProgressStatus             int     `json:"progress_status" gorm:"not null;default:1"`

	// Rollups over the order's parts; null until the first reconciliation.
	DiscountAmount *decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2)"`
	SubTotal       *decimal.Decimal `json:"sub_total" gorm:"type:numeric(12,2)"`
	CgstAmount     *decimal.Decimal `json:"cgst_amount" gorm:"type:numeric(12,2)"`
	SgstAmount     *decimal.Decimal `json:"sgst_amount" gorm:"type:numeric(12,2)"`
	TotalTax       *decimal.Decimal `json:"total_tax" gorm:"type:numeric(12,2)"`
	TotalAmount    *decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`

	OtpSecret      *string    `json:"-" gorm:"size:64"`
	OtpGeneratedAt *time.Time `json:"otp_generated_at"`

	Parts []OrderPart `json:"order_parts" gorm:"foreignKey:OrderCardID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (order *OrderCard) BeforeCreate(tx *gorm.DB) error {
	if order.Id == "" {
		order.Id = uuid.NewString()
	}
	if order.OrderNumber == 0 {
		n, err := nextOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = n
	}
	return nil
}

// GenerateOTPSecret replaces the shared secret with a fresh one and records the
// generation time, invalidating any code derived from the old secret.
func (order *OrderCard) GenerateOTPSecret() error {
	secret, err := utils.NewOTPSecret()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	order.OtpSecret = &secret
	order.OtpGeneratedAt = &now
	return nil
}

// GenerateOTP derives the current 6-digit code, creating a secret first if the
// order has none.
func (order *OrderCard) GenerateOTP() (string, error) {
	if order.OtpSecret == nil {
		if err := order.GenerateOTPSecret(); err != nil {
			return "", err
		}
	}
	return utils.GenerateOTP(*order.OtpSecret, time.Now())
}

func (order *OrderCard) IsOTPExpired() bool {
	return order.isOTPExpiredAt(time.Now())
}

func (order *OrderCard) isOTPExpiredAt(now time.Time) bool {
	if order.OtpGeneratedAt == nil {
		return true
	}
	return now.After(order.OtpGeneratedAt.Add(utils.OTPPeriod * time.Second))
}

// VerifyOTP reports whether code is valid for this order right now. False when
// no secret is set or the 10-minute window has passed.
func (order *OrderCard) VerifyOTP(code string) bool {
	return order.verifyOTPAt(code, time.Now())
}

func (order *OrderCard) verifyOTPAt(code string, now time.Time) bool {
	if order.OtpSecret == nil {
		return false
	}
	if order.isOTPExpiredAt(now) {
		return false
	}
	return utils.VerifyOTP(*order.OtpSecret, code, now)
}

// MarkAsCompleted closes the order after OTP verification. The secret is
// cleared so a verified code cannot be replayed.
func (order *OrderCard) MarkAsCompleted() {
	order.Status = StatusCompleted
	order.OtpSecret = nil
	order.OtpGeneratedAt = nil
}

// RefreshTotals recomputes the header rollups from the given set of parts.
func (order *OrderCard) RefreshTotals(parts []OrderPart) {
	discount := decimal.Zero
	subTotal := decimal.Zero
	cgst := decimal.Zero
	sgst := decimal.Zero
	totalTax := decimal.Zero
	total := decimal.Zero
	for _, part := range parts {
		discount = discount.Add(part.DiscountAmount)
		subTotal = subTotal.Add(part.SubTotal)
		cgst = cgst.Add(part.CgstAmount)
		sgst = sgst.Add(part.SgstAmount)
		totalTax = totalTax.Add(part.TotalTax)
		total = total.Add(part.TotalAmount)
	}
	order.DiscountAmount = &discount
	order.SubTotal = &subTotal
	order.CgstAmount = &cgst
	order.SgstAmount = &sgst
	order.TotalTax = &totalTax
	order.TotalAmount = &total
}
