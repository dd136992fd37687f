package domain

import (
	"strings"
	"time"
)

// PaymentStatus deliberately carries more variants than DonationStatus
// (APPROVED, CHARGEBACK); the two value spaces differ and are kept separate.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentApproved   PaymentStatus = "APPROVED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
	PaymentCancelled  PaymentStatus = "CANCELLED"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentChargeback PaymentStatus = "CHARGEBACK"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentPending:
		return PaymentPending, true
	case PaymentProcessing:
		return PaymentProcessing, true
	case PaymentApproved:
		return PaymentApproved, true
	case PaymentFailed:
		return PaymentFailed, true
	case PaymentRefunded:
		return PaymentRefunded, true
	case PaymentCancelled:
		return PaymentCancelled, true
	case PaymentCompleted:
		return PaymentCompleted, true
	case PaymentChargeback:
		return PaymentChargeback, true
	}
	return "", false
}

// Payment method tags accepted by the gateway simulation.
const (
	MethodCreditCard = "CREDIT_CARD"
	MethodPix        = "PIX"
	MethodBoleto     = "BOLETO"
)

type Payment struct {
	ID              int64         `json:"id"`
	DonationID      int64         `json:"donation_id" gorm:"index;not null"`
	UserID          int64         `json:"user_id" gorm:"index;not null"`
	Amount          float64       `json:"amount" gorm:"type:decimal(10,2)"`
	PaymentMethod   string        `json:"payment_method" gorm:"type:varchar(20)"`
	Status          PaymentStatus `json:"status" gorm:"type:varchar(20);index"`
	TransactionID   string        `json:"transaction_id,omitempty" gorm:"type:varchar(64);index"`
	GatewayResponse string        `json:"gateway_response,omitempty" gorm:"type:text"`
	MaskedCard      string        `json:"masked_card,omitempty" gorm:"type:varchar(32)"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
