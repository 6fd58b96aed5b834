package repo

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepo interface {
	Get(ctx context.Context, userID, projectID uuid.UUID) (*model.Favorite, error)
	Create(ctx context.Context, f *model.Favorite) error
	Delete(ctx context.Context, id uuid.UUID) error
	FavoritedProjectIDs(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type favoriteRepo struct{ db *gorm.DB }

func NewFavoriteRepo(db *gorm.DB) FavoriteRepo {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) Get(ctx context.Context, userID, projectID uuid.UUID) (*model.Favorite, error) {
	var f model.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *favoriteRepo) Create(ctx context.Context, f *model.Favorite) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *favoriteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FavoritedProjectIDs reports which of projectIDs the user has favorited.
func (r *favoriteRepo) FavoritedProjectIDs(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ? AND project_id IN ?", userID, projectIDs).
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
