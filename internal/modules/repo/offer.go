package repo

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferRepo interface {
	Create(ctx context.Context, o *model.Offer) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetByProjectTier(ctx context.Context, projectID uuid.UUID, tier model.Tier) (*model.Offer, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Offer, error)
	FirstByProject(ctx context.Context, projectID uuid.UUID) (*model.Offer, error)
}

type offerRepo struct{ db *gorm.DB }

func NewOfferRepo(db *gorm.DB) OfferRepo {
	return &offerRepo{db: db}
}

// tierOrder sorts offers Basic, Standard, Premium
const tierOrder = "CASE tier WHEN 'Basic' THEN 0 WHEN 'Standard' THEN 1 WHEN 'Premium' THEN 2 ELSE 3 END"

func (r *offerRepo) Create(ctx context.Context, o *model.Offer) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *offerRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Offer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *offerRepo) GetByProjectTier(ctx context.Context, projectID uuid.UUID, tier model.Tier) (*model.Offer, error) {
	var o model.Offer
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND tier = ?", projectID, tier).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offerRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Offer, error) {
	var items []*model.Offer
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order(tierOrder).
		Find(&items).Error
	return items, err
}

// FirstByProject returns the earliest created offer, or nil when the project has none.
func (r *offerRepo) FirstByProject(ctx context.Context, projectID uuid.UUID) (*model.Offer, error) {
	var items []*model.Offer
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Limit(1).
		Find(&items).Error
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}
