package campaign

import "errors"

var (
	ErrNotFound      = errors.New("campaign not found")
	ErrUnauthorized  = errors.New("you don't have permission to modify this campaign")
	ErrDateOrder     = errors.New("end date must be after start date")
	ErrGoalTooSmall  = errors.New("goal amount must be at least 50.00")
	ErrInvalidStatus = errors.New("invalid status")
)
