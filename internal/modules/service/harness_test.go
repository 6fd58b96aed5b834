package service

import (
	"context"
	"testing"

	"github.com/gigmarket/gigmarket/internal/config"
	"github.com/gigmarket/gigmarket/internal/infra/httpclient"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	db         *memDB
	store      *memStore
	notifier   *recordingNotifier
	users      *MockUserRepo
	categories *MockCategoryRepo
	reviews    *MockReviewRepo
	orders     *MockOrderRepo
	prices     *MockPriceCreator
	events     *MockEventPublisher
	cfg        *config.Config

	projects  ProjectService
	offers    OfferService
	media     MediaService
	favorites FavoriteService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		db:         newMemDB(),
		store:      newMemStore(),
		notifier:   &recordingNotifier{},
		users:      &MockUserRepo{},
		categories: &MockCategoryRepo{},
		reviews:    &MockReviewRepo{},
		orders:     &MockOrderRepo{},
		prices:     &MockPriceCreator{},
		cfg:        &config.Config{},
	}
	h.cfg.RabbitMQ.ExchangeName.Marketplace = "gigmarket.marketplace"
	h.cfg.RabbitMQ.RoutingKey.ProjectClick = "project.click"
	h.build(nil)
	return h
}

// build wires services; events may be nil for inline click handling.
func (h *harness) build(events EventPublisher) {
	log := zap.NewNop()
	projects := memProjects{db: h.db}
	offers := memOffers{db: h.db}
	media := memMedia{db: h.db}

	h.projects = NewProjectService(ProjectServiceDeps{
		Projects:   projects,
		Offers:     offers,
		Media:      media,
		Users:      h.users,
		Reviews:    h.reviews,
		Favorites:  memFavorites{db: h.db},
		Categories: h.categories,
		Orders:     h.orders,
		Store:      h.store,
		Events:     events,
		Notifier:   h.notifier,
		Config:     h.cfg,
		Log:        log,
	})
	h.offers = NewOfferService(offers, projects, h.prices, h.notifier, log)
	h.media = NewMediaService(media, projects, h.store, h.notifier, log)
	h.favorites = NewFavoriteService(memFavorites{db: h.db}, projects, h.notifier, log)
}

func newUser(username string) *model.User {
	return &model.User{ID: uuid.New(), Username: username}
}

// seedProject stores a project directly, bypassing validation.
func (h *harness) seedProject(t *testing.T, seller *model.User, title string, published bool, subcategoryID uuid.UUID) *model.Project {
	t.Helper()
	p := &model.Project{
		Title:         title,
		SellerID:      seller.ID,
		SubcategoryID: subcategoryID,
		Published:     published,
	}
	require.NoError(t, memProjects{db: h.db}.Create(context.Background(), p))
	return p
}

func (h *harness) expectPrices() {
	h.prices.On("CreatePrice", mock.Anything, mock.AnythingOfType("httpclient.PriceInput")).
		Return(func(_ context.Context, in httpclient.PriceInput) *httpclient.Price {
			return &httpclient.Price{ID: "price_" + in.Tier, UnitAmount: in.UnitAmount}
		}, nil)
}

func (h *harness) addOffers(t *testing.T, seller *model.User, projectID uuid.UUID, tiers ...model.Tier) {
	t.Helper()
	for i, tier := range tiers {
		_, err := h.offers.Upsert(context.Background(), seller, UpsertOfferInput{
			ProjectID:    projectID,
			Tier:         tier,
			Title:        string(tier) + " package",
			Description:  "what you get",
			Price:        int64(1000 * (i + 1)),
			DeliveryDays: 3,
			Revisions:    1,
		})
		require.NoError(t, err)
	}
}

func (h *harness) addImage(t *testing.T, seller *model.User, projectID uuid.UUID) string {
	t.Helper()
	storageID := uuid.NewString()
	h.store.put(storageID, "image/png", 1024)
	_, err := h.media.Attach(context.Background(), seller, AttachMediaInput{ProjectID: projectID, StorageID: storageID})
	require.NoError(t, err)
	return storageID
}
