package repo

import (
	"context"
	"strings"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublishGateFunc decides whether a locked project may be published, given the
// media and offer counts read in the same transaction.
type PublishGateFunc func(p *model.Project, mediaCount, offerCount int64) error

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListPublished(ctx context.Context) ([]*model.Project, error)
	SearchByTitle(ctx context.Context, search string) ([]*model.Project, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, timeDesc bool) ([]*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Project, error)
	PublishIf(ctx context.Context, id uuid.UUID, gate PublishGateFunc) (*model.Project, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Project, error)
	IncrementClicks(ctx context.Context, id uuid.UUID, n int64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) ListPublished(ctx context.Context) ([]*model.Project, error) {
	var items []*model.Project
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

// likeEscaper escapes LIKE wildcards so user input matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *projectRepo) SearchByTitle(ctx context.Context, search string) ([]*model.Project, error) {
	var items []*model.Project
	err := r.db.WithContext(ctx).
		Where("title ILIKE ?", "%"+likeEscaper.Replace(search)+"%").
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

func (r *projectRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, timeDesc bool) ([]*model.Project, error) {
	orderBy := "created_at ASC, id ASC"
	if timeDesc {
		orderBy = "created_at DESC, id DESC"
	}
	var items []*model.Project
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order(orderBy).
		Find(&items).Error
	return items, err
}

func (r *projectRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		return tx.Model(&p).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) PublishIf(ctx context.Context, id uuid.UUID, gate PublishGateFunc) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the project row so concurrent media writers, which take the same
		// lock, cannot slip in between the counts and the flag update. Offers are
		// bounded by the (project_id, tier) unique index instead.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}

		var mediaCount, offerCount int64
		if err := tx.Model(&model.ProjectMedia{}).Where("project_id = ?", id).Count(&mediaCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Offer{}).Where("project_id = ?", id).Count(&offerCount).Error; err != nil {
			return err
		}

		if err := gate(&p, mediaCount, offerCount); err != nil {
			return err
		}
		return tx.Model(&p).Update("published", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Project, error) {
	return r.Update(ctx, id, map[string]interface{}{"published": published})
}

func (r *projectRepo) IncrementClicks(ctx context.Context, id uuid.UUID, n int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Offers, media rows, reviews and orders cascade through foreign keys;
	// favorites are removed explicitly in the same transaction.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
