package domain

import (
	"strings"
	"time"
)

type DonationStatus string

const (
	DonationPending    DonationStatus = "PENDING"
	DonationProcessing DonationStatus = "PROCESSING"
	DonationCompleted  DonationStatus = "COMPLETED"
	DonationFailed     DonationStatus = "FAILED"
	DonationRefunded   DonationStatus = "REFUNDED"
	DonationCancelled  DonationStatus = "CANCELLED"
)

func ParseDonationStatus(s string) (DonationStatus, bool) {
	switch DonationStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case DonationPending:
		return DonationPending, true
	case DonationProcessing:
		return DonationProcessing, true
	case DonationCompleted:
		return DonationCompleted, true
	case DonationFailed:
		return DonationFailed, true
	case DonationRefunded:
		return DonationRefunded, true
	case DonationCancelled:
		return DonationCancelled, true
	}
	return "", false
}

type Donation struct {
	ID            int64          `json:"id"`
	CampaignID    int64          `json:"campaign_id" gorm:"index;not null"`
	UserID        int64          `json:"user_id" gorm:"index;not null"`
	Amount        float64        `json:"amount" validate:"required,gte=1" gorm:"type:decimal(10,2)"`
	PaymentMethod string         `json:"payment_method" gorm:"type:varchar(20)"`
	Status        DonationStatus `json:"status" gorm:"type:varchar(20);index"`
	TransactionID *string        `json:"transaction_id,omitempty" gorm:"type:varchar(64)"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (Donation) TableName() string { return "donations" }
