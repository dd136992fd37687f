package payment

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

const cacheRegion = "payments"

type Service struct {
	payments  PaymentRepository
	donations DonationReader
	settler   DonationSettler
	gateway   Gateway
	cache     cache.Cache
	loggerf   func(format string, args ...interface{})
}

func NewService(payments PaymentRepository, donations DonationReader, settler DonationSettler, gateway Gateway, c cache.Cache, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		payments:  payments,
		donations: donations,
		settler:   settler,
		gateway:   gateway,
		cache:     c,
		loggerf:   loggerf,
	}
}

// Process charges a donation through the gateway and records the attempt.
// Validation failures persist nothing; once the gateway answers, the attempt
// is recorded whatever the outcome, and only an APPROVED result settles the
// donation.
func (s *Service) Process(ctx context.Context, req ProcessPaymentRequest, userID int64) (*domain.Payment, error) {
	d, err := s.donations.GetByID(ctx, req.DonationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrDonationNotFound, req.DonationID)
		}
		return nil, err
	}

	if d.UserID != userID {
		return nil, ErrNotYourDonation
	}
	if d.Status == domain.DonationCompleted {
		return nil, ErrAlreadyPaid
	}
	approved, err := s.payments.ExistsByDonationAndStatus(ctx, d.ID, domain.PaymentApproved)
	if err != nil {
		return nil, err
	}
	if approved {
		return nil, ErrAlreadyPaid
	}
	if !domain.SameAmount(req.Amount, d.Amount) {
		return nil, ErrAmountMismatch
	}

	result, err := s.gateway.Charge(ctx, req)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		DonationID:      d.ID,
		UserID:          userID,
		Amount:          domain.RoundAmount(req.Amount),
		PaymentMethod:   req.PaymentMethod,
		Status:          result.Status,
		TransactionID:   result.TransactionID,
		GatewayResponse: result.Message,
		MaskedCard:      result.MaskedCard,
	}

	if result.Status == domain.PaymentApproved {
		now := time.Now()
		p.PaidAt = &now
		if _, err := s.settler.Complete(ctx, d.ID); err != nil {
			return nil, err
		}
	}

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=payment processed payment_id=%d donation_id=%d method=%s status=%s transaction_id=%s",
		p.ID, p.DonationID, p.PaymentMethod, p.Status, p.TransactionID)

	s.cache.EvictRegion(cacheRegion)
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id, userID int64, admin bool) (*domain.Payment, error) {
	p, err := s.cachedGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && p.UserID != userID {
		return nil, ErrNotYourPayment
	}
	return p, nil
}

func (s *Service) cachedGet(ctx context.Context, id int64) (*domain.Payment, error) {
	key := strconv.FormatInt(id, 10)
	if v, ok := s.cache.Get(cacheRegion, key); ok {
		return v.(*domain.Payment), nil
	}

	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	s.cache.Set(cacheRegion, key, p)
	return p, nil
}

func (s *Service) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	p, err := s.payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, transactionID)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Payment, int64, error) {
	return s.payments.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListByDonation(ctx context.Context, donationID int64, limit, offset int) ([]domain.Payment, int64, error) {
	return s.payments.ListByDonation(ctx, donationID, limit, offset)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Payment, int64, error) {
	return s.payments.List(ctx, limit, offset)
}

// UpdateStatus is the reconciliation entry point for gateway callbacks that
// arrive out of band (boleto confirmations, chargebacks). Moving a payment
// to APPROVED or COMPLETED stamps paid_at and settles the donation through
// the canonical path.
func (s *Service) UpdateStatus(ctx context.Context, id int64, statusToken string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}

	status, ok := domain.ParsePaymentStatus(statusToken)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, statusToken)
	}

	var paidAt *time.Time
	if status == domain.PaymentApproved || status == domain.PaymentCompleted {
		now := time.Now()
		paidAt = &now
	}

	if err := s.payments.UpdateStatus(ctx, id, status, paidAt); err != nil {
		return nil, err
	}

	if paidAt != nil {
		if _, err := s.settler.Complete(ctx, p.DonationID); err != nil {
			return nil, err
		}
	}

	s.cache.EvictRegion(cacheRegion)
	return s.payments.GetByID(ctx, id)
}
