package donation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"crowdfund/internal/domain"
	"crowdfund/internal/pkg/cache"
)

const (
	cacheRegion         = "donations"
	campaignCacheRegion = "campaigns"
)

// Service owns the donation ledger and the settlement cascade into the
// campaign ledger. Complete is the single code path that credits a
// campaign; payment settlement calls it instead of flipping donation rows
// on its own.
type Service struct {
	donations DonationRepository
	campaigns CampaignLedger
	cache     cache.Cache
	loggerf   func(format string, args ...interface{})
}

func NewService(donations DonationRepository, campaigns CampaignLedger, c cache.Cache, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		donations: donations,
		campaigns: campaigns,
		cache:     c,
		loggerf:   loggerf,
	}
}

func (s *Service) Create(ctx context.Context, req DonationRequest, userID int64) (*domain.Donation, error) {
	if domain.CentsOf(req.Amount) < domain.CentsOf(1) {
		return nil, ErrAmountTooSmall
	}

	campaign, err := s.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrCampaignNotFound, req.CampaignID)
		}
		return nil, err
	}

	if campaign.Status != domain.CampaignActive {
		return nil, ErrInactiveCampaign
	}
	if campaign.Ended(time.Now()) {
		return nil, ErrCampaignEnded
	}

	d := &domain.Donation{
		CampaignID:    req.CampaignID,
		UserID:        userID,
		Amount:        domain.RoundAmount(req.Amount),
		PaymentMethod: req.PaymentMethod,
		Status:        domain.DonationPending,
	}

	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}

	s.cache.EvictRegion(cacheRegion)
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	key := strconv.FormatInt(id, 10)
	if v, ok := s.cache.Get(cacheRegion, key); ok {
		return v.(*domain.Donation), nil
	}

	d, err := s.donations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	s.cache.Set(cacheRegion, key, d)
	return d, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Donation, int64, error) {
	return s.donations.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListByCampaign(ctx context.Context, campaignID int64, limit, offset int) ([]domain.Donation, int64, error) {
	return s.donations.ListByCampaign(ctx, campaignID, limit, offset)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Donation, int64, error) {
	return s.donations.List(ctx, limit, offset)
}

// UpdateStatus is the reconciliation entry point. Side effects follow the
// edge being taken, not just the destination status:
//
//   - -> COMPLETED from anything else: paid_at is stamped and the campaign
//     is credited (goal flip included);
//   - -> REFUNDED / CANCELLED from COMPLETED: the campaign is debited, with
//     no goal recheck and no un-completion;
//   - every other edge: plain overwrite.
func (s *Service) UpdateStatus(ctx context.Context, id int64, statusToken string) (*domain.Donation, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, ok := domain.ParseDonationStatus(statusToken)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, statusToken)
	}

	switch status {
	case domain.DonationCompleted:
		return s.Complete(ctx, id)

	case domain.DonationRefunded, domain.DonationCancelled:
		reversed, err := s.donations.UpdateStatusFrom(ctx, id, domain.DonationCompleted, status)
		if err != nil {
			return nil, err
		}
		if reversed {
			campaign, err := s.campaigns.SubtractFromRaised(ctx, d.CampaignID, d.Amount)
			if err != nil {
				return nil, err
			}
			s.loggerf("level=info msg=donation reversed donation_id=%d campaign_id=%d amount=%.2f raised=%.2f new_status=%s",
				d.ID, campaign.ID, d.Amount, campaign.CurrentAmount, status)
		} else if err := s.donations.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}

	default:
		if err := s.donations.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
	}

	s.cache.EvictRegion(cacheRegion)
	s.cache.EvictRegion(campaignCacheRegion)
	return s.donations.GetByID(ctx, id)
}

// Complete settles the donation. The repository guard makes the completion
// edge fire at most once, so the campaign is credited exactly once per
// donation no matter how many settlement signals arrive.
func (s *Service) Complete(ctx context.Context, id int64) (*domain.Donation, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	completed, err := s.donations.MarkCompleted(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}

	if completed {
		campaign, err := s.campaigns.AddToRaised(ctx, d.CampaignID, d.Amount)
		if err != nil {
			return nil, err
		}
		s.loggerf("level=info msg=donation settled donation_id=%d campaign_id=%d amount=%.2f raised=%.2f campaign_status=%s",
			d.ID, campaign.ID, d.Amount, campaign.CurrentAmount, campaign.Status)
	}

	s.cache.EvictRegion(cacheRegion)
	s.cache.EvictRegion(campaignCacheRegion)
	return s.donations.GetByID(ctx, id)
}
