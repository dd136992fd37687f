package donation

import "errors"

var (
	ErrNotFound         = errors.New("donation not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrInactiveCampaign = errors.New("cannot donate to an inactive campaign")
	ErrCampaignEnded    = errors.New("campaign has already ended")
	ErrAmountTooSmall   = errors.New("donation amount must be at least 1.00")
	ErrInvalidStatus    = errors.New("invalid status")
)
