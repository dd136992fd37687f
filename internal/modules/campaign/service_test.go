package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"crowdfund/internal/domain"
	"crowdfund/internal/pkg/cache"
)

// Mock repositories
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	args := m.Called(ctx, c)
	if c != nil {
		c.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCampaignRepository) UpdateStatus(ctx context.Context, id int64, status domain.CampaignStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCampaignRepository) ListByStatus(ctx context.Context, status domain.CampaignStatus, limit, offset int) ([]domain.Campaign, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]domain.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Campaign, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignRepository) ListByStatusAndEndDateBefore(ctx context.Context, status domain.CampaignStatus, cutoff time.Time) ([]domain.Campaign, error) {
	args := m.Called(ctx, status, cutoff)
	return args.Get(0).([]domain.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) ListReachedGoal(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Campaign), args.Error(1)
}

func newTestService(campaigns *MockCampaignRepository) *Service {
	return NewService(campaigns, cache.NewMemory(time.Minute))
}

func validRequest() CampaignRequest {
	return CampaignRequest{
		Title:      "Community garden",
		GoalAmount: 500,
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(0, 1, 0),
	}
}

func TestService_Create_StartsAsDraft(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	mockCampaigns.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockCampaigns)

	c, err := service.Create(context.Background(), validRequest(), 42)

	assert.NoError(t, err)
	assert.Equal(t, domain.CampaignDraft, c.Status)
	assert.Equal(t, 0.0, c.CurrentAmount)
	assert.Equal(t, int64(42), c.UserID)
}

func TestService_Create_EndBeforeStart(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	service := newTestService(mockCampaigns)

	req := validRequest()
	req.EndDate = req.StartDate.Add(-time.Hour)

	_, err := service.Create(context.Background(), req, 42)

	assert.ErrorIs(t, err, ErrDateOrder)
	mockCampaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_EndEqualsStart(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	service := newTestService(mockCampaigns)

	req := validRequest()
	req.EndDate = req.StartDate

	_, err := service.Create(context.Background(), req, 42)

	assert.ErrorIs(t, err, ErrDateOrder)
}

func TestService_Create_GoalTooSmall(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	service := newTestService(mockCampaigns)

	req := validRequest()
	req.GoalAmount = 49.99

	_, err := service.Create(context.Background(), req, 42)

	assert.ErrorIs(t, err, ErrGoalTooSmall)
}

func TestService_GetByID_CachesResult(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	c := &domain.Campaign{ID: 7, Title: "Community garden", Status: domain.CampaignActive}
	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(c, nil).Once()

	service := newTestService(mockCampaigns)

	first, err := service.GetByID(context.Background(), 7)
	assert.NoError(t, err)

	second, err := service.GetByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	mockCampaigns.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestService_GetByID_NotFound(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	mockCampaigns.On("GetByID", mock.Anything, int64(123)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockCampaigns)

	_, err := service.GetByID(context.Background(), 123)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update_NotOwner(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	c := &domain.Campaign{ID: 7, UserID: 42, Status: domain.CampaignActive}
	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(c, nil)

	service := newTestService(mockCampaigns)

	_, err := service.Update(context.Background(), 7, validRequest(), 1)

	assert.ErrorIs(t, err, ErrUnauthorized)
	mockCampaigns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Update_NeverTouchesRaisedOrStatus(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	c := &domain.Campaign{ID: 7, UserID: 42, Status: domain.CampaignActive, CurrentAmount: 120}
	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(c, nil)
	mockCampaigns.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockCampaigns)

	updated, err := service.Update(context.Background(), 7, validRequest(), 42)

	assert.NoError(t, err)
	assert.Equal(t, 120.0, updated.CurrentAmount)
	assert.Equal(t, domain.CampaignActive, updated.Status)
}

func TestService_UpdateStatus_CaseInsensitive(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	c := &domain.Campaign{ID: 7, UserID: 42, Status: domain.CampaignDraft}
	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(c, nil)
	mockCampaigns.On("UpdateStatus", mock.Anything, int64(7), domain.CampaignActive).Return(nil)

	service := newTestService(mockCampaigns)

	updated, err := service.UpdateStatus(context.Background(), 7, "active", 42)

	assert.NoError(t, err)
	assert.Equal(t, domain.CampaignActive, updated.Status)
}

func TestService_UpdateStatus_InvalidToken(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	c := &domain.Campaign{ID: 7, UserID: 42, Status: domain.CampaignDraft}
	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(c, nil)

	service := newTestService(mockCampaigns)

	_, err := service.UpdateStatus(context.Background(), 7, "LIVE", 42)

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Contains(t, err.Error(), "LIVE")
}

func TestService_ExpireEnded(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	now := time.Now()
	ended := []domain.Campaign{
		{ID: 1, Status: domain.CampaignActive},
		{ID: 2, Status: domain.CampaignActive},
	}
	mockCampaigns.On("ListByStatusAndEndDateBefore", mock.Anything, domain.CampaignActive, now).Return(ended, nil)
	mockCampaigns.On("UpdateStatus", mock.Anything, int64(1), domain.CampaignExpired).Return(nil)
	mockCampaigns.On("UpdateStatus", mock.Anything, int64(2), domain.CampaignExpired).Return(nil)

	service := newTestService(mockCampaigns)

	n, err := service.ExpireEnded(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_CompleteReached(t *testing.T) {
	mockCampaigns := new(MockCampaignRepository)
	reached := []domain.Campaign{
		{ID: 3, Status: domain.CampaignActive, GoalAmount: 100, CurrentAmount: 110},
	}
	mockCampaigns.On("ListReachedGoal", mock.Anything, domain.CampaignActive).Return(reached, nil)
	mockCampaigns.On("UpdateStatus", mock.Anything, int64(3), domain.CampaignCompleted).Return(nil)

	service := newTestService(mockCampaigns)

	n, err := service.CompleteReached(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
