package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const MinReviewCommentLen = 5

type AddReviewInput struct {
	ProjectID          uuid.UUID
	SellerID           uuid.UUID
	Comment            string
	ServiceAsDescribed int
	RecommendToAFriend int
	CommunicationLevel int
}

type ReviewFull struct {
	*model.Review
	Author  *model.User    `json:"author"`
	Image   *ImageWithURL  `json:"image"`
	Offers  []*model.Offer `json:"offers"`
	Project *model.Project `json:"project"`
}

type ReviewService interface {
	Add(ctx context.Context, viewer *model.User, in AddReviewInput) (*model.Review, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Review, error)
	ListBySellerName(ctx context.Context, username string) ([]*model.Review, error)
	ListFullByProject(ctx context.Context, projectID uuid.UUID) ([]*ReviewFull, error)
}

type reviewService struct {
	reviews  repo.ReviewRepo
	projects repo.ProjectRepo
	users    repo.UserRepo
	offers   repo.OfferRepo
	media    repo.MediaRepo
	store    ObjectStore
	notifier live.Notifier
	log      *zap.Logger
}

func NewReviewService(
	reviews repo.ReviewRepo,
	projects repo.ProjectRepo,
	users repo.UserRepo,
	offers repo.OfferRepo,
	media repo.MediaRepo,
	store ObjectStore,
	notifier live.Notifier,
	log *zap.Logger,
) ReviewService {
	return &reviewService{
		reviews:  reviews,
		projects: projects,
		users:    users,
		offers:   offers,
		media:    media,
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

func validRating(v int) bool { return v >= 1 && v <= 5 }

func (s *reviewService) Add(ctx context.Context, viewer *model.User, in AddReviewInput) (*model.Review, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) < MinReviewCommentLen {
		return nil, validation("comment must be at least %d characters", MinReviewCommentLen)
	}
	if !validRating(in.ServiceAsDescribed) || !validRating(in.RecommendToAFriend) || !validRating(in.CommunicationLevel) {
		return nil, validation("ratings must be between 1 and 5")
	}

	p, err := s.projects.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	if _, err := s.users.GetByID(ctx, in.SellerID); err != nil {
		return nil, lookupErr(err, "seller")
	}
	if p.SellerID != in.SellerID {
		return nil, validation("seller does not own this project")
	}

	rv := &model.Review{
		ProjectID:          in.ProjectID,
		AuthorID:           viewer.ID,
		SellerID:           in.SellerID,
		Comment:            comment,
		ServiceAsDescribed: in.ServiceAsDescribed,
		RecommendToAFriend: in.RecommendToAFriend,
		CommunicationLevel: in.CommunicationLevel,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	notify(ctx, s.notifier, s.log, live.TableReviews)
	return rv, nil
}

func (s *reviewService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Review, error) {
	return s.reviews.ListByProject(ctx, projectID)
}

func (s *reviewService) ListBySellerName(ctx context.Context, username string) ([]*model.Review, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, "seller")
	}
	return s.reviews.ListBySeller(ctx, u.ID)
}

// ListFullByProject decorates each review with its author, the project, the
// project's offers and its first image.
func (s *reviewService) ListFullByProject(ctx context.Context, projectID uuid.UUID) ([]*ReviewFull, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, lookupErr(err, "project")
	}

	var (
		reviews []*model.Review
		offers  []*model.Offer
		image   *ImageWithURL
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = s.reviews.ListByProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		offers, err = s.offers.ListByProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		m, err := s.media.FirstByProject(gctx, projectID)
		if err != nil || m == nil {
			return err
		}
		u, err := resolveURL(gctx, s.store, m.StorageID)
		if err != nil {
			return err
		}
		image = &ImageWithURL{ProjectMedia: m, URL: u}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	authorIDs := make([]uuid.UUID, 0, len(reviews))
	for _, rv := range reviews {
		authorIDs = append(authorIDs, rv.AuthorID)
	}
	authors, err := s.users.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.User, len(authors))
	for _, u := range authors {
		byID[u.ID] = u
	}

	out := make([]*ReviewFull, 0, len(reviews))
	for _, rv := range reviews {
		author, ok := byID[rv.AuthorID]
		if !ok {
			return nil, notFound("review author")
		}
		out = append(out, &ReviewFull{
			Review:  rv,
			Author:  author,
			Image:   image,
			Offers:  offers,
			Project: p,
		})
	}
	return out, nil
}
