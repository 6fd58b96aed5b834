package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gigmarket/gigmarket/internal/infra/httpclient"
	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/gigmarket/gigmarket/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PriceCreator is satisfied by *httpclient.PriceClient.
type PriceCreator interface {
	CreatePrice(ctx context.Context, in httpclient.PriceInput) (*httpclient.Price, error)
}

type UpsertOfferInput struct {
	ProjectID    uuid.UUID
	Tier         model.Tier
	Title        string
	Description  string
	Price        int64
	DeliveryDays int
	Revisions    int
}

type OfferService interface {
	Upsert(ctx context.Context, viewer *model.User, in UpsertOfferInput) (*model.Offer, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Offer, error)
}

type offerService struct {
	offers   repo.OfferRepo
	projects repo.ProjectRepo
	prices   PriceCreator
	notifier live.Notifier
	log      *zap.Logger
}

func NewOfferService(offers repo.OfferRepo, projects repo.ProjectRepo, prices PriceCreator, notifier live.Notifier, log *zap.Logger) OfferService {
	return &offerService{offers: offers, projects: projects, prices: prices, notifier: notifier, log: log}
}

func (in *UpsertOfferInput) validate() error {
	if !in.Tier.Valid() {
		return validation("tier must be one of Basic, Standard, Premium")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return validation("offer title cannot be empty")
	}
	if in.Price <= 0 {
		return validation("price must be positive")
	}
	if in.DeliveryDays < 1 {
		return validation("delivery_days must be at least 1")
	}
	if in.Revisions < 0 {
		return validation("revisions cannot be negative")
	}
	return nil
}

// Upsert keeps one offer per (project, tier). A new offer gets a fresh
// external price record; an edit patches the row and keeps its price_ref.
func (s *offerService) Upsert(ctx context.Context, viewer *model.User, in UpsertOfferInput) (*model.Offer, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.projects.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	if err := requireOwner(viewer, p); err != nil {
		return nil, err
	}

	existing, err := s.offers.GetByProjectTier(ctx, in.ProjectID, in.Tier)
	switch {
	case err == nil:
		return s.patch(ctx, existing, in)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	price, err := s.prices.CreatePrice(ctx, httpclient.PriceInput{
		Title:      in.Title,
		Tier:       string(in.Tier),
		UnitAmount: in.Price,
	})
	if err != nil {
		return nil, err
	}

	o := &model.Offer{
		ProjectID:    in.ProjectID,
		Tier:         in.Tier,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		DeliveryDays: in.DeliveryDays,
		Revisions:    in.Revisions,
		PriceRef:     price.ID,
	}
	if err := s.offers.Create(ctx, o); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// A concurrent upsert inserted the tier first; patch it instead.
		s.log.Warn("offer tier raced, price record orphaned",
			zap.String("project_id", in.ProjectID.String()),
			zap.String("tier", string(in.Tier)),
			zap.String("price_ref", price.ID))
		existing, err := s.offers.GetByProjectTier(ctx, in.ProjectID, in.Tier)
		if err != nil {
			return nil, err
		}
		return s.patch(ctx, existing, in)
	}

	telemetry.RecordOfferUpsert(ctx, "create")
	notify(ctx, s.notifier, s.log, live.TableOffers)
	return o, nil
}

func (s *offerService) patch(ctx context.Context, o *model.Offer, in UpsertOfferInput) (*model.Offer, error) {
	fields := map[string]interface{}{
		"title":         in.Title,
		"description":   in.Description,
		"price":         in.Price,
		"delivery_days": in.DeliveryDays,
		"revisions":     in.Revisions,
	}
	if err := s.offers.Update(ctx, o.ID, fields); err != nil {
		return nil, lookupErr(err, "offer")
	}
	o.Title = in.Title
	o.Description = in.Description
	o.Price = in.Price
	o.DeliveryDays = in.DeliveryDays
	o.Revisions = in.Revisions

	telemetry.RecordOfferUpsert(ctx, "update")
	notify(ctx, s.notifier, s.log, live.TableOffers)
	return o, nil
}

func (s *offerService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Offer, error) {
	return s.offers.ListByProject(ctx, projectID)
}
