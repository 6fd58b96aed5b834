package service

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
)

type CategoryService interface {
	List(ctx context.Context) ([]*model.Category, error)
}

type categoryService struct {
	r repo.CategoryRepo
}

func NewCategoryService(r repo.CategoryRepo) CategoryService {
	return &categoryService{r: r}
}

func (s *categoryService) List(ctx context.Context) ([]*model.Category, error) {
	return s.r.List(ctx)
}
