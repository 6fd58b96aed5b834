package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gigmarket/gigmarket/internal/config"
	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/gigmarket/gigmarket/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MinCreateTitleLen = 20
	MaxCreateTitleLen = 70
	MaxRenameTitleLen = 60
	MaxDescriptionLen = 20000
	aggregateFanOut   = 8
)

type ProjectService interface {
	Create(ctx context.Context, viewer *model.User, in CreateProjectInput) (*model.Project, error)
	Rename(ctx context.Context, viewer *model.User, id uuid.UUID, title string) (*model.Project, error)
	UpdateDescription(ctx context.Context, viewer *model.User, id uuid.UUID, description string) (*model.Project, error)
	Publish(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error)
	Unpublish(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error)
	Remove(ctx context.Context, viewer *model.User, id uuid.UUID) error
	RecordClick(ctx context.Context, id uuid.UUID) error
	ApplyClick(ctx context.Context, id uuid.UUID) error

	Get(ctx context.Context, id uuid.UUID, viewer *model.User) (*ProjectDetail, error)
	List(ctx context.Context, in ListProjectsInput) ([]*ProjectCard, error)
	ListSellerStats(ctx context.Context, viewer *model.User) ([]*SellerProjectStats, error)
	ListBySellerName(ctx context.Context, username string) ([]*model.Project, error)
	ListWithImages(ctx context.Context, sellerUsername string) ([]*ProjectWithImages, error)
	GetCategoryAndSubcategory(ctx context.Context, id uuid.UUID) (*CategoryAndSubcategory, error)
	IsPublished(ctx context.Context, id uuid.UUID) (bool, error)
}

type ProjectServiceDeps struct {
	Projects   repo.ProjectRepo
	Offers     repo.OfferRepo
	Media      repo.MediaRepo
	Users      repo.UserRepo
	Reviews    repo.ReviewRepo
	Favorites  repo.FavoriteRepo
	Categories repo.CategoryRepo
	Orders     repo.OrderRepo
	Store      ObjectStore
	// Events may be nil, in which case clicks are applied inline.
	Events   EventPublisher
	Notifier live.Notifier
	Config   *config.Config
	Log      *zap.Logger
}

type projectService struct {
	ProjectServiceDeps
}

func NewProjectService(d ProjectServiceDeps) ProjectService {
	return &projectService{ProjectServiceDeps: d}
}

type CreateProjectInput struct {
	Title         string
	Description   string
	SubcategoryID uuid.UUID
}

func (s *projectService) Create(ctx context.Context, viewer *model.User, in CreateProjectInput) (*model.Project, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(title); n < MinCreateTitleLen || n > MaxCreateTitleLen {
		return nil, validation("title must be between %d and %d characters", MinCreateTitleLen, MaxCreateTitleLen)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLen {
		return nil, validation("description must be at most %d characters", MaxDescriptionLen)
	}
	if _, err := s.Categories.GetSubcategory(ctx, in.SubcategoryID); err != nil {
		return nil, lookupErr(err, "subcategory")
	}

	p := &model.Project{
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		SubcategoryID: in.SubcategoryID,
		SellerID:      viewer.ID,
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	notify(ctx, s.Notifier, s.Log, live.TableProjects)
	return p, nil
}

func (s *projectService) Rename(ctx context.Context, viewer *model.User, id uuid.UUID, title string) (*model.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validation("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxRenameTitleLen {
		return nil, validation("title must be at most %d characters", MaxRenameTitleLen)
	}
	return s.update(ctx, viewer, id, map[string]interface{}{"title": title})
}

func (s *projectService) UpdateDescription(ctx context.Context, viewer *model.User, id uuid.UUID, description string) (*model.Project, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, validation("description cannot be empty")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return nil, validation("description must be at most %d characters", MaxDescriptionLen)
	}
	return s.update(ctx, viewer, id, map[string]interface{}{"description": description})
}

func (s *projectService) update(ctx context.Context, viewer *model.User, id uuid.UUID, fields map[string]interface{}) (*model.Project, error) {
	if _, err := s.ownedProject(ctx, viewer, id); err != nil {
		return nil, err
	}
	p, err := s.Projects.Update(ctx, id, fields)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	notify(ctx, s.Notifier, s.Log, live.TableProjects)
	return p, nil
}

// Publish re-evaluates the gate on every call, including for a project that
// is already published. Counts are taken under the project row lock.
func (s *projectService) Publish(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error) {
	if _, err := s.ownedProject(ctx, viewer, id); err != nil {
		return nil, err
	}

	p, err := s.Projects.PublishIf(ctx, id, func(p *model.Project, mediaCount, offerCount int64) error {
		if unmet := CheckPublishable(mediaCount, p.Description, offerCount); len(unmet) > 0 {
			return &PublishGateError{Unmet: unmet}
		}
		return nil
	})
	if err != nil {
		var gateErr *PublishGateError
		if errors.As(err, &gateErr) {
			telemetry.RecordPublishAttempt(ctx, false, len(gateErr.Unmet))
			return nil, gateErr
		}
		return nil, lookupErr(err, "project")
	}
	telemetry.RecordPublishAttempt(ctx, true, 0)
	notify(ctx, s.Notifier, s.Log, live.TableProjects)
	return p, nil
}

func (s *projectService) Unpublish(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error) {
	if _, err := s.ownedProject(ctx, viewer, id); err != nil {
		return nil, err
	}
	p, err := s.Projects.SetPublished(ctx, id, false)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	notify(ctx, s.Notifier, s.Log, live.TableProjects)
	return p, nil
}

// Remove deletes the project with its favorites in one transaction; offers,
// media rows, reviews and orders cascade. Stored objects are released
// afterwards on a best-effort basis.
func (s *projectService) Remove(ctx context.Context, viewer *model.User, id uuid.UUID) error {
	if _, err := s.ownedProject(ctx, viewer, id); err != nil {
		return err
	}
	media, err := s.Media.ListByProject(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Projects.Delete(ctx, id); err != nil {
		return lookupErr(err, "project")
	}
	notify(ctx, s.Notifier, s.Log,
		live.TableProjects, live.TableFavorites, live.TableOffers, live.TableMedia, live.TableReviews, live.TableOrders)

	for _, m := range media {
		if err := s.Store.DeleteObject(ctx, m.StorageID); err != nil {
			s.Log.Warn("release stored object",
				zap.String("project_id", id.String()),
				zap.String("storage_id", m.StorageID),
				zap.Error(err))
		}
	}
	return nil
}

// RecordClick queues a click for the worker, or applies it directly when no
// broker is configured.
func (s *projectService) RecordClick(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Projects.Get(ctx, id); err != nil {
		return lookupErr(err, "project")
	}
	if s.Events == nil {
		return s.ApplyClick(ctx, id)
	}
	return s.Events.PublishJSON(ctx,
		s.Config.RabbitMQ.ExchangeName.Marketplace,
		s.Config.RabbitMQ.RoutingKey.ProjectClick,
		ProjectClickEvent{ProjectID: id, At: time.Now().UTC()},
	)
}

func (s *projectService) ApplyClick(ctx context.Context, id uuid.UUID) error {
	if err := s.Projects.IncrementClicks(ctx, id, 1); err != nil {
		return lookupErr(err, "project")
	}
	telemetry.RecordProjectClick(ctx)
	notify(ctx, s.Notifier, s.Log, live.TableProjects)
	return nil
}

func (s *projectService) IsPublished(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.Projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.Published, nil
}

func (s *projectService) ownedProject(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	p, err := s.Projects.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	if err := requireOwner(viewer, p); err != nil {
		return nil, err
	}
	return p, nil
}
