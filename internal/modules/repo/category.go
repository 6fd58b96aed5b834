package repo

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepo interface {
	List(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetSubcategory(ctx context.Context, id uuid.UUID) (*model.Subcategory, error)
	GetSubcategoryByName(ctx context.Context, name string) (*model.Subcategory, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	Ensure(ctx context.Context, name string, meta datatypes.JSONMap, subcategories []string) (*model.Category, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	var items []*model.Category
	err := r.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *categoryRepo) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) GetSubcategory(ctx context.Context, id uuid.UUID) (*model.Subcategory, error) {
	var s model.Subcategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *categoryRepo) GetSubcategoryByName(ctx context.Context, name string) (*model.Subcategory, error) {
	var s model.Subcategory
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *categoryRepo) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Preload("Subcategories").
		Where("name = ?", name).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Ensure creates the category and any missing subcategories. Existing rows are kept.
func (r *categoryRepo) Ensure(ctx context.Context, name string, meta datatypes.JSONMap, subcategories []string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(model.Category{Name: name}).
			Attrs(model.Category{Meta: meta}).
			FirstOrCreate(&c).Error; err != nil {
			return err
		}
		for _, sub := range subcategories {
			s := model.Subcategory{CategoryID: c.ID, Name: sub}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Subcategories").Where("id = ?", c.ID).First(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
