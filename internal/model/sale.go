package model

import (
	"fmt"
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "PIX"
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// ParsePaymentMethod normalizes the input to uppercase and rejects anything
// outside the PIX/CASH/CARD enumeration.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PaymentPix, PaymentCash, PaymentCard:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// Sale records a completed point-of-sale transaction. Sales are immutable
// once created; TotalValue snapshots unit price * quantity at sale time.
type Sale struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ProductID     uint          `gorm:"not null;index" json:"productId" validate:"required"`
	Product       *Product      `json:"product,omitempty" validate:"-"`
	Quantity      int           `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	TotalValue    int64         `gorm:"not null" json:"totalValue"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"paymentMethod" validate:"required,oneof=PIX CASH CARD"`
	Date          time.Time     `gorm:"not null;index" json:"date"`
	CreatedAt     time.Time     `json:"createdAt"`
}
