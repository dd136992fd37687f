package payment

import "errors"

var (
	ErrNotFound         = errors.New("payment not found")
	ErrDonationNotFound = errors.New("donation not found")
	ErrNotYourDonation  = errors.New("you can only pay for your own donations")
	ErrAlreadyPaid      = errors.New("this donation has already been paid")
	ErrAmountMismatch   = errors.New("payment amount must match donation amount")
	ErrNotYourPayment   = errors.New("you can only view your own payments")
	ErrInvalidStatus    = errors.New("invalid status")
)
