package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gigmarket/gigmarket/internal/infra/blob"
	"github.com/gigmarket/gigmarket/internal/infra/httpclient"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

// MockUserRepo is a mock implementation of UserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*model.User, error) {
	args := m.Called(ctx, tokenIdentifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockCategoryRepo is a mock implementation of CategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCategoryRepo) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepo) GetSubcategory(ctx context.Context, id uuid.UUID) (*model.Subcategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subcategory), args.Error(1)
}

func (m *MockCategoryRepo) GetSubcategoryByName(ctx context.Context, name string) (*model.Subcategory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subcategory), args.Error(1)
}

func (m *MockCategoryRepo) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepo) Ensure(ctx context.Context, name string, meta datatypes.JSONMap, subcategories []string) (*model.Category, error) {
	args := m.Called(ctx, name, meta, subcategories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

// MockReviewRepo is a mock implementation of ReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	args := m.Called(ctx, rv)
	return args.Error(0)
}

func (m *MockReviewRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Review, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Review), args.Error(1)
}

func (m *MockReviewRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*model.Review, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Review), args.Error(1)
}

// MockOrderRepo is a mock implementation of OrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, o *model.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Order, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepo) LatestByProject(ctx context.Context, projectID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPriceCreator is a mock implementation of PriceCreator
type MockPriceCreator struct {
	mock.Mock
}

func (m *MockPriceCreator) CreatePrice(ctx context.Context, in httpclient.PriceInput) (*httpclient.Price, error) {
	args := m.Called(ctx, in)
	if fn, ok := args.Get(0).(func(context.Context, httpclient.PriceInput) *httpclient.Price); ok {
		return fn(ctx, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*httpclient.Price), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(ctx context.Context, exchangeName string, routingKey string, body any) error {
	args := m.Called(ctx, exchangeName, routingKey, body)
	return args.Error(0)
}

// memStore is an in-memory ObjectStore. Objects "uploaded" out of band are
// registered with put.
type memStore struct {
	mu      sync.Mutex
	objects map[string]blob.ObjectInfo
	deleted []string
	failDel error
}

var _ ObjectStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{objects: map[string]blob.ObjectInfo{}}
}

func (s *memStore) put(storageID, contentType string, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageID] = blob.ObjectInfo{Key: "project-media/" + storageID, ContentType: contentType, SizeB: size, ETag: "etag-" + storageID}
}

func (s *memStore) has(storageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[storageID]
	return ok
}

func (s *memStore) PresignPut(_ context.Context, storageID string) (string, time.Time, error) {
	return "https://s3.test/upload/" + storageID, time.Now().Add(15 * time.Minute), nil
}

func (s *memStore) ObjectURL(_ context.Context, storageID string) (string, error) {
	return "https://cdn.test/" + storageID, nil
}

func (s *memStore) Upload(_ context.Context, storageID string, body io.Reader, contentType string) (*blob.UploadedMeta, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	s.put(storageID, contentType, int64(len(b)))
	return &blob.UploadedMeta{Bucket: "test", Key: "project-media/" + storageID, ETag: "etag", MIME: contentType, SizeB: int64(len(b))}, nil
}

func (s *memStore) Stat(_ context.Context, storageID string) (*blob.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.objects[storageID]
	if !ok {
		return nil, blob.ErrObjectNotFound
	}
	return &info, nil
}

func (s *memStore) DeleteObject(_ context.Context, storageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel != nil {
		return s.failDel
	}
	delete(s.objects, storageID)
	s.deleted = append(s.deleted, storageID)
	return nil
}

// recordingNotifier remembers every table it was told about.
type recordingNotifier struct {
	mu     sync.Mutex
	tables []string
}

func (n *recordingNotifier) Notify(_ context.Context, tables ...string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tables = append(n.tables, tables...)
	return nil
}

func (n *recordingNotifier) saw(table string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.tables {
		if t == table {
			return true
		}
	}
	return false
}
