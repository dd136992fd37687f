package donation

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
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, d *domain.Donation) error {
	args := m.Called(ctx, d)
	if d != nil {
		d.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Donation, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationRepository) ListByCampaign(ctx context.Context, campaignID int64, limit, offset int) ([]domain.Donation, int64, error) {
	args := m.Called(ctx, campaignID, limit, offset)
	return args.Get(0).([]domain.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationRepository) List(ctx context.Context, limit, offset int) ([]domain.Donation, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationRepository) UpdateStatus(ctx context.Context, id int64, status domain.DonationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDonationRepository) MarkCompleted(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, id, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockDonationRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.DonationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type MockCampaignLedger struct {
	mock.Mock
}

func (m *MockCampaignLedger) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignLedger) AddToRaised(ctx context.Context, id int64, amount float64) (*domain.Campaign, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignLedger) SubtractFromRaised(ctx context.Context, id int64, amount float64) (*domain.Campaign, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func newTestService(donations *MockDonationRepository, campaigns *MockCampaignLedger) *Service {
	return NewService(donations, campaigns, cache.NewMemory(time.Minute), nil)
}

func activeCampaign(id int64) *domain.Campaign {
	return &domain.Campaign{
		ID:            id,
		Title:         "Community garden",
		GoalAmount:    1000,
		CurrentAmount: 0,
		Status:        domain.CampaignActive,
		StartDate:     time.Now().Add(-24 * time.Hour),
		EndDate:       time.Now().Add(24 * time.Hour),
	}
}

func TestService_Create_Success(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(activeCampaign(7), nil)
	mockDonations.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockDonations, mockCampaigns)

	d, err := service.Create(context.Background(), DonationRequest{
		CampaignID:    7,
		Amount:        50.004, // normalized to 50.00 on persist
		PaymentMethod: domain.MethodPix,
	}, 42)

	assert.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, domain.DonationPending, d.Status)
	assert.Equal(t, 50.0, d.Amount)
	assert.Equal(t, int64(42), d.UserID)
	assert.Nil(t, d.PaidAt)
}

func TestService_Create_CampaignNotFound(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockDonations, mockCampaigns)

	_, err := service.Create(context.Background(), DonationRequest{
		CampaignID:    7,
		Amount:        50,
		PaymentMethod: domain.MethodPix,
	}, 42)

	assert.ErrorIs(t, err, ErrCampaignNotFound)
	mockDonations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_InactiveCampaign(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	c := activeCampaign(7)
	c.Status = domain.CampaignDraft
	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(c, nil)

	service := newTestService(mockDonations, mockCampaigns)

	_, err := service.Create(context.Background(), DonationRequest{
		CampaignID:    7,
		Amount:        50,
		PaymentMethod: domain.MethodPix,
	}, 42)

	assert.ErrorIs(t, err, ErrInactiveCampaign)
}

func TestService_Create_CampaignEnded(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	// Still ACTIVE in the table but past its end date; the expiry job has
	// not swept it yet. Donations must be refused regardless.
	c := activeCampaign(7)
	c.EndDate = time.Now().Add(-time.Hour)
	mockCampaigns.On("GetByID", mock.Anything, int64(7)).Return(c, nil)

	service := newTestService(mockDonations, mockCampaigns)

	_, err := service.Create(context.Background(), DonationRequest{
		CampaignID:    7,
		Amount:        50,
		PaymentMethod: domain.MethodPix,
	}, 42)

	assert.ErrorIs(t, err, ErrCampaignEnded)
}

func TestService_Create_AmountTooSmall(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	service := newTestService(mockDonations, mockCampaigns)

	_, err := service.Create(context.Background(), DonationRequest{
		CampaignID:    7,
		Amount:        0.99,
		PaymentMethod: domain.MethodPix,
	}, 42)

	assert.ErrorIs(t, err, ErrAmountTooSmall)
	mockCampaigns.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_Complete_CreditsCampaignOnce(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	pending := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationPending}
	settled := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationCompleted}

	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(pending, nil).Once()
	mockDonations.On("MarkCompleted", mock.Anything, int64(1), mock.Anything).Return(true, nil)
	credited := activeCampaign(7)
	credited.CurrentAmount = 60
	mockCampaigns.On("AddToRaised", mock.Anything, int64(7), 60.0).Return(credited, nil)
	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(settled, nil)

	service := newTestService(mockDonations, mockCampaigns)

	d, err := service.Complete(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.DonationCompleted, d.Status)
	mockCampaigns.AssertNumberOfCalls(t, "AddToRaised", 1)
}

func TestService_Complete_AlreadyCompleted_NoDoubleCredit(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	settled := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationCompleted}

	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(settled, nil)
	mockDonations.On("MarkCompleted", mock.Anything, int64(1), mock.Anything).Return(false, nil)

	service := newTestService(mockDonations, mockCampaigns)

	d, err := service.Complete(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.DonationCompleted, d.Status)
	mockCampaigns.AssertNotCalled(t, "AddToRaised", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_RefundFromCompleted_DebitsCampaign(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	settled := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationCompleted}
	refunded := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationRefunded}

	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(settled, nil).Once()
	mockDonations.On("UpdateStatusFrom", mock.Anything, int64(1), domain.DonationCompleted, domain.DonationRefunded).Return(true, nil)
	debited := activeCampaign(7)
	debited.CurrentAmount = 0
	mockCampaigns.On("SubtractFromRaised", mock.Anything, int64(7), 60.0).Return(debited, nil)
	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(refunded, nil)

	service := newTestService(mockDonations, mockCampaigns)

	d, err := service.UpdateStatus(context.Background(), 1, "refunded")

	assert.NoError(t, err)
	assert.Equal(t, domain.DonationRefunded, d.Status)
	mockCampaigns.AssertNumberOfCalls(t, "SubtractFromRaised", 1)
}

func TestService_UpdateStatus_CancelFromPending_NoDebit(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	pending := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationPending}
	cancelled := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationCancelled}

	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(pending, nil).Once()
	// Guard misses: the donation was never COMPLETED, so nothing to reverse.
	mockDonations.On("UpdateStatusFrom", mock.Anything, int64(1), domain.DonationCompleted, domain.DonationCancelled).Return(false, nil)
	mockDonations.On("UpdateStatus", mock.Anything, int64(1), domain.DonationCancelled).Return(nil)
	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(cancelled, nil)

	service := newTestService(mockDonations, mockCampaigns)

	d, err := service.UpdateStatus(context.Background(), 1, "CANCELLED")

	assert.NoError(t, err)
	assert.Equal(t, domain.DonationCancelled, d.Status)
	mockCampaigns.AssertNotCalled(t, "SubtractFromRaised", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_PlainEdge(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	pending := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationPending}
	processing := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationProcessing}

	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(pending, nil).Once()
	mockDonations.On("UpdateStatus", mock.Anything, int64(1), domain.DonationProcessing).Return(nil)
	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(processing, nil)

	service := newTestService(mockDonations, mockCampaigns)

	d, err := service.UpdateStatus(context.Background(), 1, "processing")

	assert.NoError(t, err)
	assert.Equal(t, domain.DonationProcessing, d.Status)
	mockCampaigns.AssertNotCalled(t, "AddToRaised", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_InvalidToken(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	pending := &domain.Donation{ID: 1, CampaignID: 7, UserID: 42, Amount: 60, Status: domain.DonationPending}
	mockDonations.On("GetByID", mock.Anything, int64(1)).Return(pending, nil)

	service := newTestService(mockDonations, mockCampaigns)

	_, err := service.UpdateStatus(context.Background(), 1, "PAID")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Contains(t, err.Error(), "PAID")
}

func TestService_GetByID_NotFound(t *testing.T) {
	mockDonations := new(MockDonationRepository)
	mockCampaigns := new(MockCampaignLedger)

	mockDonations.On("GetByID", mock.Anything, int64(123)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockDonations, mockCampaigns)

	_, err := service.GetByID(context.Background(), 123)
	assert.ErrorIs(t, err, ErrNotFound)
}
