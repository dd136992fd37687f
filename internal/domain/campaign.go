package domain

import (
	"strings"
	"time"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignCompleted CampaignStatus = "COMPLETED"
	CampaignCancelled CampaignStatus = "CANCELLED"
	CampaignExpired   CampaignStatus = "EXPIRED"
)

// ParseCampaignStatus matches a status token case-insensitively against the
// campaign status set. A failed parse is a normal outcome, signalled by the
// boolean, not an error.
func ParseCampaignStatus(s string) (CampaignStatus, bool) {
	switch CampaignStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case CampaignDraft:
		return CampaignDraft, true
	case CampaignActive:
		return CampaignActive, true
	case CampaignCompleted:
		return CampaignCompleted, true
	case CampaignCancelled:
		return CampaignCancelled, true
	case CampaignExpired:
		return CampaignExpired, true
	}
	return "", false
}

type Campaign struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title" validate:"required,min=3,max=100"`
	Description   string         `json:"description,omitempty" gorm:"type:text"`
	GoalAmount    float64        `json:"goal_amount" validate:"required,gte=50" gorm:"type:decimal(10,2)"`
	CurrentAmount float64        `json:"current_amount" gorm:"type:decimal(10,2)"`
	StartDate     time.Time      `json:"start_date" validate:"required"`
	EndDate       time.Time      `json:"end_date" validate:"required"`
	Status        CampaignStatus `json:"status" gorm:"type:varchar(20);index"`
	UserID        int64          `json:"user_id" gorm:"index;not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Campaign) TableName() string { return "campaigns" }

// ReachedGoal reports whether the raised amount covers the goal.
func (c *Campaign) ReachedGoal() bool {
	return CentsOf(c.CurrentAmount) >= CentsOf(c.GoalAmount)
}

// Ended reports whether the campaign window has closed at the given instant.
func (c *Campaign) Ended(now time.Time) bool {
	return c.EndDate.Before(now)
}
