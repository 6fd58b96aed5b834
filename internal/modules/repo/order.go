package repo

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Create(ctx context.Context, o *model.Order) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Order, error)
	LatestByProject(ctx context.Context, projectID uuid.UUID) (*model.Order, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Order, error) {
	var items []*model.Order
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

// LatestByProject returns the most recent order, or nil when there is none.
func (r *orderRepo) LatestByProject(ctx context.Context, projectID uuid.UUID) (*model.Order, error) {
	var items []*model.Order
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&items).Error
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

func (r *orderRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("project_id = ?", projectID).Count(&n).Error
	return n, err
}
