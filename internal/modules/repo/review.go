package repo

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepo interface {
	Create(ctx context.Context, rv *model.Review) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Review, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*model.Review, error)
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) ReviewRepo {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Review, error) {
	var items []*model.Review
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

func (r *reviewRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*model.Review, error) {
	var items []*model.Review
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}
