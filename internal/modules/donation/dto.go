package donation

type DonationRequest struct {
	CampaignID    int64   `json:"campaign_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gte=1"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}
