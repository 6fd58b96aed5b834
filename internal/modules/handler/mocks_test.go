package handler

import (
	"context"
	"io"

	"github.com/gigmarket/gigmarket/internal/infra/identity"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) project(args mock.Arguments) (*model.Project, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, viewer *model.User, in service.CreateProjectInput) (*model.Project, error) {
	return m.project(m.Called(ctx, viewer, in))
}

func (m *MockProjectService) Rename(ctx context.Context, viewer *model.User, id uuid.UUID, title string) (*model.Project, error) {
	return m.project(m.Called(ctx, viewer, id, title))
}

func (m *MockProjectService) UpdateDescription(ctx context.Context, viewer *model.User, id uuid.UUID, description string) (*model.Project, error) {
	return m.project(m.Called(ctx, viewer, id, description))
}

func (m *MockProjectService) Publish(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error) {
	return m.project(m.Called(ctx, viewer, id))
}

func (m *MockProjectService) Unpublish(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error) {
	return m.project(m.Called(ctx, viewer, id))
}

func (m *MockProjectService) Remove(ctx context.Context, viewer *model.User, id uuid.UUID) error {
	return m.Called(ctx, viewer, id).Error(0)
}

func (m *MockProjectService) RecordClick(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectService) ApplyClick(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectService) Get(ctx context.Context, id uuid.UUID, viewer *model.User) (*service.ProjectDetail, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectDetail), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, in service.ListProjectsInput) ([]*service.ProjectCard, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.ProjectCard), args.Error(1)
}

func (m *MockProjectService) ListSellerStats(ctx context.Context, viewer *model.User) ([]*service.SellerProjectStats, error) {
	args := m.Called(ctx, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.SellerProjectStats), args.Error(1)
}

func (m *MockProjectService) ListBySellerName(ctx context.Context, username string) ([]*model.Project, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *MockProjectService) ListWithImages(ctx context.Context, sellerUsername string) ([]*service.ProjectWithImages, error) {
	args := m.Called(ctx, sellerUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.ProjectWithImages), args.Error(1)
}

func (m *MockProjectService) GetCategoryAndSubcategory(ctx context.Context, id uuid.UUID) (*service.CategoryAndSubcategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CategoryAndSubcategory), args.Error(1)
}

func (m *MockProjectService) IsPublished(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockOfferService is a mock implementation of OfferService
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Upsert(ctx context.Context, viewer *model.User, in service.UpsertOfferInput) (*model.Offer, error) {
	args := m.Called(ctx, viewer, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Offer, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Offer), args.Error(1)
}

// MockFavoriteService is a mock implementation of FavoriteService
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) Favorite(ctx context.Context, viewer *model.User, projectID uuid.UUID) error {
	return m.Called(ctx, viewer, projectID).Error(0)
}

func (m *MockFavoriteService) Unfavorite(ctx context.Context, viewer *model.User, projectID uuid.UUID) error {
	return m.Called(ctx, viewer, projectID).Error(0)
}

// MockMediaService is a mock implementation of MediaService
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) GenerateUploadHandle(ctx context.Context, viewer *model.User) (*service.UploadHandle, error) {
	args := m.Called(ctx, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadHandle), args.Error(1)
}

func (m *MockMediaService) Attach(ctx context.Context, viewer *model.User, in service.AttachMediaInput) (*model.ProjectMedia, error) {
	args := m.Called(ctx, viewer, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectMedia), args.Error(1)
}

func (m *MockMediaService) Upload(ctx context.Context, viewer *model.User, projectID uuid.UUID, body io.Reader) (*model.ProjectMedia, error) {
	b, _ := io.ReadAll(body)
	args := m.Called(ctx, viewer, projectID, string(b))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectMedia), args.Error(1)
}

func (m *MockMediaService) Detach(ctx context.Context, viewer *model.User, storageID string) error {
	return m.Called(ctx, viewer, storageID).Error(0)
}

func (m *MockMediaService) ResolveURL(ctx context.Context, storageID string) (*string, error) {
	args := m.Called(ctx, storageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockMediaService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*service.ImageWithURL, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.ImageWithURL), args.Error(1)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Current(ctx context.Context, id *identity.Identity) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) Store(ctx context.Context, id *identity.Identity, in service.StoreUserInput) (*model.User, error) {
	return m.user(m.Called(ctx, id, in))
}

func (m *MockUserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserService) GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return m.user(m.Called(ctx, userID))
}
