package repo

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MediaRepo interface {
	CreateCapped(ctx context.Context, m *model.ProjectMedia, limit int) error
	GetByStorageID(ctx context.Context, storageID string) (*model.ProjectMedia, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.ProjectMedia, error)
	FirstByProject(ctx context.Context, projectID uuid.UUID) (*model.ProjectMedia, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type mediaRepo struct{ db *gorm.DB }

func NewMediaRepo(db *gorm.DB) MediaRepo {
	return &mediaRepo{db: db}
}

// CreateCapped inserts m unless the project already holds limit media rows.
// The project row is locked for the duration so two concurrent attaches cannot
// both observe limit-1.
func (r *mediaRepo) CreateCapped(ctx context.Context, m *model.ProjectMedia, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", m.ProjectID).
			First(&p).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.ProjectMedia{}).Where("project_id = ?", m.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrLimitReached
		}
		return tx.Create(m).Error
	})
}

func (r *mediaRepo) GetByStorageID(ctx context.Context, storageID string) (*model.ProjectMedia, error) {
	var m model.ProjectMedia
	if err := r.db.WithContext(ctx).Where("storage_id = ?", storageID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.ProjectMedia, error) {
	var items []*model.ProjectMedia
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// FirstByProject returns the earliest media row, or nil when the project has none.
func (r *mediaRepo) FirstByProject(ctx context.Context, projectID uuid.UUID) (*model.ProjectMedia, error) {
	var items []*model.ProjectMedia
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

func (r *mediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProjectMedia{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
