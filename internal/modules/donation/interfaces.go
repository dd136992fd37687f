package donation

import (
	"context"
	"time"

	"crowdfund/internal/domain"
)

// DonationRepository is the persistence surface of the donation ledger.
// MarkCompleted and UpdateStatusFrom are the guarded writes the settlement
// edges depend on; plain UpdateStatus is for edges with no side effects.
type DonationRepository interface {
	Create(ctx context.Context, d *domain.Donation) error
	GetByID(ctx context.Context, id int64) (*domain.Donation, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Donation, int64, error)
	ListByCampaign(ctx context.Context, campaignID int64, limit, offset int) ([]domain.Donation, int64, error)
	List(ctx context.Context, limit, offset int) ([]domain.Donation, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.DonationStatus) error
	MarkCompleted(ctx context.Context, id int64, paidAt time.Time) (bool, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.DonationStatus) (bool, error)
}

// CampaignLedger is the slice of the campaign repository the settlement
// cascade needs: reads plus the atomic raised-amount arithmetic.
type CampaignLedger interface {
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	AddToRaised(ctx context.Context, id int64, amount float64) (*domain.Campaign, error)
	SubtractFromRaised(ctx context.Context, id int64, amount float64) (*domain.Campaign, error)
}
