package campaign

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

const cacheRegion = "campaigns"

type listPage struct {
	Items []domain.Campaign
	Total int64
}

type Service struct {
	campaigns CampaignRepository
	cache     cache.Cache
}

func NewService(campaigns CampaignRepository, c cache.Cache) *Service {
	return &Service{campaigns: campaigns, cache: c}
}

func (s *Service) Create(ctx context.Context, req CampaignRequest, userID int64) (*domain.Campaign, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	c := &domain.Campaign{
		Title:         req.Title,
		Description:   req.Description,
		GoalAmount:    domain.RoundAmount(req.GoalAmount),
		CurrentAmount: 0,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        domain.CampaignDraft,
		UserID:        userID,
	}

	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}

	s.cache.EvictRegion(cacheRegion)
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	key := strconv.FormatInt(id, 10)
	if v, ok := s.cache.Get(cacheRegion, key); ok {
		return v.(*domain.Campaign), nil
	}

	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	s.cache.Set(cacheRegion, key, c)
	return c, nil
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]domain.Campaign, int64, error) {
	key := fmt.Sprintf("active_%d_%d", limit, offset)
	if v, ok := s.cache.Get(cacheRegion, key); ok {
		p := v.(listPage)
		return p.Items, p.Total, nil
	}

	items, total, err := s.campaigns.ListByStatus(ctx, domain.CampaignActive, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	s.cache.Set(cacheRegion, key, listPage{Items: items, Total: total})
	return items, total, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Campaign, int64, error) {
	return s.campaigns.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) Update(ctx context.Context, id int64, req CampaignRequest, userID int64) (*domain.Campaign, error) {
	c, err := s.findAndAuthorize(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// current amount and status are never mutated through this path
	c.Title = req.Title
	c.Description = req.Description
	c.GoalAmount = domain.RoundAmount(req.GoalAmount)
	c.StartDate = req.StartDate
	c.EndDate = req.EndDate

	if err := s.campaigns.Update(ctx, c); err != nil {
		return nil, err
	}

	s.cache.EvictRegion(cacheRegion)
	return c, nil
}

// UpdateStatus is the administrative override: any status is reachable from
// any status, the only gate is enum membership.
func (s *Service) UpdateStatus(ctx context.Context, id int64, statusToken string, userID int64) (*domain.Campaign, error) {
	c, err := s.findAndAuthorize(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	status, ok := domain.ParseCampaignStatus(statusToken)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, statusToken)
	}

	if err := s.campaigns.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.cache.EvictRegion(cacheRegion)
	c.Status = status
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	if _, err := s.findAndAuthorize(ctx, id, userID); err != nil {
		return err
	}

	if err := s.campaigns.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.EvictRegion(cacheRegion)
	return nil
}

// ExpireEnded flips ACTIVE campaigns whose window closed to EXPIRED and
// returns how many were touched. Used by the maintenance job.
func (s *Service) ExpireEnded(ctx context.Context, now time.Time) (int, error) {
	ended, err := s.campaigns.ListByStatusAndEndDateBefore(ctx, domain.CampaignActive, now)
	if err != nil {
		return 0, err
	}

	for _, c := range ended {
		if err := s.campaigns.UpdateStatus(ctx, c.ID, domain.CampaignExpired); err != nil {
			return 0, err
		}
	}

	if len(ended) > 0 {
		s.cache.EvictRegion(cacheRegion)
	}
	return len(ended), nil
}

// CompleteReached reconciles ACTIVE campaigns that already cover their goal,
// a safety net for settlements that crashed between increment and flip.
func (s *Service) CompleteReached(ctx context.Context) (int, error) {
	reached, err := s.campaigns.ListReachedGoal(ctx, domain.CampaignActive)
	if err != nil {
		return 0, err
	}

	for _, c := range reached {
		if err := s.campaigns.UpdateStatus(ctx, c.ID, domain.CampaignCompleted); err != nil {
			return 0, err
		}
	}

	if len(reached) > 0 {
		s.cache.EvictRegion(cacheRegion)
	}
	return len(reached), nil
}

func (s *Service) findAndAuthorize(ctx context.Context, id, userID int64) (*domain.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	if c.UserID != userID {
		return nil, ErrUnauthorized
	}
	return c, nil
}

func validateRequest(req CampaignRequest) error {
	if !req.EndDate.After(req.StartDate) {
		return ErrDateOrder
	}
	if domain.CentsOf(req.GoalAmount) < domain.CentsOf(50) {
		return ErrGoalTooSmall
	}
	return nil
}
