package service

import (
	"context"
	"errors"

	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteService toggles strictly: favoriting twice or unfavoriting a
// project that is not favorited is a conflict.
type FavoriteService interface {
	Favorite(ctx context.Context, viewer *model.User, projectID uuid.UUID) error
	Unfavorite(ctx context.Context, viewer *model.User, projectID uuid.UUID) error
}

type favoriteService struct {
	favorites repo.FavoriteRepo
	projects  repo.ProjectRepo
	notifier  live.Notifier
	log       *zap.Logger
}

func NewFavoriteService(favorites repo.FavoriteRepo, projects repo.ProjectRepo, notifier live.Notifier, log *zap.Logger) FavoriteService {
	return &favoriteService{favorites: favorites, projects: projects, notifier: notifier, log: log}
}

func (s *favoriteService) Favorite(ctx context.Context, viewer *model.User, projectID uuid.UUID) error {
	if err := requireUser(viewer); err != nil {
		return err
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return lookupErr(err, "project")
	}

	_, err := s.favorites.Get(ctx, viewer.ID, projectID)
	switch {
	case err == nil:
		return conflict("project is already favorited")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if err := s.favorites.Create(ctx, &model.Favorite{UserID: viewer.ID, ProjectID: projectID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict("project is already favorited")
		}
		return err
	}
	notify(ctx, s.notifier, s.log, live.TableFavorites)
	return nil
}

func (s *favoriteService) Unfavorite(ctx context.Context, viewer *model.User, projectID uuid.UUID) error {
	if err := requireUser(viewer); err != nil {
		return err
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return lookupErr(err, "project")
	}

	f, err := s.favorites.Get(ctx, viewer.ID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return conflict("project is not favorited")
		}
		return err
	}
	if err := s.favorites.Delete(ctx, f.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return conflict("project is not favorited")
		}
		return err
	}
	notify(ctx, s.notifier, s.log, live.TableFavorites)
	return nil
}
