package campaign

import "time"

type CampaignRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=100"`
	Description string    `json:"description" binding:"max=500"`
	GoalAmount  float64   `json:"goal_amount" binding:"required,gte=50"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}
