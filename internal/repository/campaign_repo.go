package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"crowdfund/internal/domain"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Campaign{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CampaignRepository) ExistsByIDAndUser(ctx context.Context, id, userID int64) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.Campaign{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count)
	return count > 0, tx.Error
}

func (r *CampaignRepository) ListByStatus(ctx context.Context, status domain.CampaignStatus, limit, offset int) ([]domain.Campaign, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Campaign{}).
		Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Campaign
	tx := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

func (r *CampaignRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Campaign, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Campaign{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Campaign
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	return rows, total, tx.Error
}

// ListByStatusAndEndDateBefore feeds the expiry job: campaigns in the given
// status whose window closed before the cutoff.
func (r *CampaignRepository) ListByStatusAndEndDateBefore(ctx context.Context, status domain.CampaignStatus, cutoff time.Time) ([]domain.Campaign, error) {
	var rows []domain.Campaign
	tx := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", status, cutoff).
		Find(&rows)
	return rows, tx.Error
}

// ListReachedGoal feeds the reconciliation job: campaigns in the given
// status whose raised amount already covers the goal.
func (r *CampaignRepository) ListReachedGoal(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	var rows []domain.Campaign
	tx := r.db.WithContext(ctx).
		Where("status = ? AND current_amount >= goal_amount", status).
		Find(&rows)
	return rows, tx.Error
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id int64, status domain.CampaignStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Campaign{}).
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

// AddToRaised credits a settled donation amount to the campaign. The
// increment is server-side arithmetic in one transaction, so two donations
// completing at once cannot lose an update, and the completion flip happens
// against the post-increment value.
func (r *CampaignRepository) AddToRaised(ctx context.Context, id int64, amount float64) (*domain.Campaign, error) {
	var out domain.Campaign
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Campaign{}).
			Where("id = ?", id).
			Update("current_amount", gorm.Expr("current_amount + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&domain.Campaign{}).
			Where("id = ? AND current_amount >= goal_amount AND status <> ?", id, domain.CampaignCompleted).
			Update("status", domain.CampaignCompleted).Error; err != nil {
			return err
		}

		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubtractFromRaised reverses a previously credited donation. There is no
// goal recheck here: a campaign that reached COMPLETED stays COMPLETED even
// if a refund drops it back under the goal.
func (r *CampaignRepository) SubtractFromRaised(ctx context.Context, id int64, amount float64) (*domain.Campaign, error) {
	var out domain.Campaign
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Campaign{}).
			Where("id = ?", id).
			Update("current_amount", gorm.Expr("current_amount - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
