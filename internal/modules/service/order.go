package service

import (
	"context"

	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type CreateOrderInput struct {
	ProjectID uuid.UUID
	Tier      model.Tier
	Note      string
}

type OrderService interface {
	Create(ctx context.Context, viewer *model.User, in CreateOrderInput) (*model.Order, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Order, error)
}

type orderService struct {
	orders   repo.OrderRepo
	projects repo.ProjectRepo
	offers   repo.OfferRepo
	notifier live.Notifier
	log      *zap.Logger
}

func NewOrderService(orders repo.OrderRepo, projects repo.ProjectRepo, offers repo.OfferRepo, notifier live.Notifier, log *zap.Logger) OrderService {
	return &orderService{orders: orders, projects: projects, offers: offers, notifier: notifier, log: log}
}

// Create records an order against the project's offer for the tier. The
// offer price is copied so later edits do not rewrite history.
func (s *orderService) Create(ctx context.Context, viewer *model.User, in CreateOrderInput) (*model.Order, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	if !in.Tier.Valid() {
		return nil, validation("tier must be one of Basic, Standard, Premium")
	}
	p, err := s.projects.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	if !p.Published {
		return nil, validation("project is not published")
	}
	if p.SellerID == viewer.ID {
		return nil, validation("you cannot order your own project")
	}
	offer, err := s.offers.GetByProjectTier(ctx, in.ProjectID, in.Tier)
	if err != nil {
		return nil, lookupErr(err, "offer")
	}

	o := &model.Order{
		ProjectID: in.ProjectID,
		BuyerID:   viewer.ID,
		OfferID:   offer.ID,
		Tier:      in.Tier,
		Price:     offer.Price,
	}
	if in.Note != "" {
		o.Meta = datatypes.JSONMap{"note": in.Note}
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	notify(ctx, s.notifier, s.log, live.TableOrders)
	return o, nil
}

func (s *orderService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Order, error) {
	return s.orders.ListByProject(ctx, projectID)
}
