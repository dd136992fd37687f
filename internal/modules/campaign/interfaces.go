package campaign

import (
	"context"
	"time"

	"crowdfund/internal/domain"
)

// CampaignRepository defines the persistence surface the ledger uses.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.CampaignStatus) error
	ListByStatus(ctx context.Context, status domain.CampaignStatus, limit, offset int) ([]domain.Campaign, int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Campaign, int64, error)
	ListByStatusAndEndDateBefore(ctx context.Context, status domain.CampaignStatus, cutoff time.Time) ([]domain.Campaign, error)
	ListReachedGoal(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error)
}
