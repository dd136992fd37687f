package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"crowdfund/internal/domain"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(ctx context.Context, d *domain.Donation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	var d domain.Donation
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Donation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Donation{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Donation
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

func (r *DonationRepository) ListByCampaign(ctx context.Context, campaignID int64, limit, offset int) ([]domain.Donation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Donation{}).
		Where("campaign_id = ?", campaignID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Donation
	tx := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

func (r *DonationRepository) List(ctx context.Context, limit, offset int) ([]domain.Donation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Donation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Donation
	tx := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

// UpdateStatus overwrites the status with no side conditions. Edges that
// carry settlement effects go through MarkCompleted / UpdateStatusFrom
// instead.
func (r *DonationRepository) UpdateStatus(ctx context.Context, id int64, status domain.DonationStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Donation{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkCompleted sets status=COMPLETED and paid_at in one guarded statement.
// The status <> COMPLETED predicate makes the completion edge fire at most
// once: a second identical call reports changed=false and must not credit
// the campaign again.
func (r *DonationRepository) MarkCompleted(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Donation{}).
		Where("id = ? AND status <> ?", id, domain.DonationCompleted).
		Updates(map[string]interface{}{
			"status":  domain.DonationCompleted,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateStatusFrom moves the donation from one specific status to another.
// changed=false means the donation was not in the expected source status,
// so edge side effects (the refund reversal) must be skipped.
func (r *DonationRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.DonationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Donation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
