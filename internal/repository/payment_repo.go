package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"crowdfund/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Payment
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

func (r *PaymentRepository) ListByDonation(ctx context.Context, donationID int64, limit, offset int) ([]domain.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("donation_id = ?", donationID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Payment
	tx := r.db.WithContext(ctx).
		Where("donation_id = ?", donationID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

func (r *PaymentRepository) List(ctx context.Context, limit, offset int) ([]domain.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Payment
	tx := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

// ListByStatusAndCreatedBefore feeds the stale-boleto job: payments stuck
// in a status since before the cutoff.
func (r *PaymentRepository) ListByStatusAndCreatedBefore(ctx context.Context, status domain.PaymentStatus, cutoff time.Time) ([]domain.Payment, error) {
	var rows []domain.Payment
	tx := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", status, cutoff).
		Find(&rows)
	return rows, tx.Error
}

func (r *PaymentRepository) ExistsByDonationAndStatus(ctx context.Context, donationID int64, status domain.PaymentStatus) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("donation_id = ? AND status = ?", donationID, status).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, paidAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
