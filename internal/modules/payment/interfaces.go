package payment

import (
	"context"
	"time"

	"crowdfund/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Payment, int64, error)
	ListByDonation(ctx context.Context, donationID int64, limit, offset int) ([]domain.Payment, int64, error)
	List(ctx context.Context, limit, offset int) ([]domain.Payment, int64, error)
	ExistsByDonationAndStatus(ctx context.Context, donationID int64, status domain.PaymentStatus) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, paidAt *time.Time) error
}

type DonationReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Donation, error)
}

// DonationSettler is the single settlement entry point into the donation
// ledger. An approved payment never touches donation or campaign rows
// itself; it hands off here.
type DonationSettler interface {
	Complete(ctx context.Context, donationID int64) (*domain.Donation, error)
}
