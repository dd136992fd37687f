package payment

type ProcessPaymentRequest struct {
	DonationID    int64   `json:"donation_id" binding:"required" validate:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required" validate:"required"`

	// Credit card fields; only inspected for CREDIT_CARD.
	CardNumber     string `json:"card_number,omitempty"`
	CardHolderName string `json:"card_holder_name,omitempty"`
	CardExpiry     string `json:"card_expiry,omitempty"`
	CardCVV        string `json:"card_cvv,omitempty"`

	PixKey       string `json:"pix_key,omitempty"`
	BoletoNumber string `json:"boleto_number,omitempty"`
}
