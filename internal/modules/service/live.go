package service

import (
	"context"
	"net/url"
	"sort"

	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
)

// Live query operations.
const (
	LiveProjectsList      = "projects.list"
	LiveProjectsGet       = "projects.get"
	LiveProjectsStats     = "projects.stats"
	LiveProjectsPublished = "projects.published"
	LiveOffersList        = "offers.list"
	LiveReviewsList       = "reviews.list"
)

// LiveRegistry turns a named operation and its arguments into an observable
// query: the loader to re-run and the tables that invalidate it.
type LiveRegistry struct {
	projects ProjectService
	offers   OfferService
	reviews  ReviewService
}

func NewLiveRegistry(projects ProjectService, offers OfferService, reviews ReviewService) *LiveRegistry {
	return &LiveRegistry{projects: projects, offers: offers, reviews: reviews}
}

// Ops lists the supported operation names.
func (r *LiveRegistry) Ops() []string {
	ops := []string{
		LiveProjectsList, LiveProjectsGet, LiveProjectsStats,
		LiveProjectsPublished, LiveOffersList, LiveReviewsList,
	}
	sort.Strings(ops)
	return ops
}

func (r *LiveRegistry) Query(op string, params url.Values, viewer *model.User) (live.Query, error) {
	switch op {
	case LiveProjectsList:
		in := ListProjectsInput{
			Search:    params.Get("search"),
			Filter:    params.Get("filter"),
			Favorites: params.Get("favorites") == "true",
			Viewer:    viewer,
		}
		args := url.Values{}
		args.Set("search", in.Search)
		args.Set("filter", in.Filter)
		if in.Favorites {
			args.Set("favorites", "true")
		}
		return live.Query{
			Key: r.key(op, args.Encode(), viewer),
			Tables: []string{
				live.TableProjects, live.TableUsers, live.TableMedia, live.TableReviews,
				live.TableOffers, live.TableFavorites, live.TableCategories,
			},
			Load: func(ctx context.Context) (any, error) { return r.projects.List(ctx, in) },
		}, nil

	case LiveProjectsGet:
		id, err := projectIDParam(params)
		if err != nil {
			return live.Query{}, err
		}
		return live.Query{
			Key: r.key(op, id.String(), viewer),
			Tables: []string{
				live.TableProjects, live.TableUsers, live.TableOrders, live.TableMedia,
				live.TableReviews, live.TableFavorites,
			},
			Load: func(ctx context.Context) (any, error) { return r.projects.Get(ctx, id, viewer) },
		}, nil

	case LiveProjectsStats:
		if err := requireUser(viewer); err != nil {
			return live.Query{}, err
		}
		return live.Query{
			Key:    r.key(op, "", viewer),
			Tables: []string{live.TableProjects, live.TableOrders, live.TableOffers, live.TableMedia},
			Load:   func(ctx context.Context) (any, error) { return r.projects.ListSellerStats(ctx, viewer) },
		}, nil

	case LiveProjectsPublished:
		id, err := projectIDParam(params)
		if err != nil {
			return live.Query{}, err
		}
		return live.Query{
			Key:    r.key(op, id.String(), nil),
			Tables: []string{live.TableProjects},
			Load:   func(ctx context.Context) (any, error) { return r.projects.IsPublished(ctx, id) },
		}, nil

	case LiveOffersList:
		id, err := projectIDParam(params)
		if err != nil {
			return live.Query{}, err
		}
		return live.Query{
			Key:    r.key(op, id.String(), nil),
			Tables: []string{live.TableOffers},
			Load:   func(ctx context.Context) (any, error) { return r.offers.ListByProject(ctx, id) },
		}, nil

	case LiveReviewsList:
		id, err := projectIDParam(params)
		if err != nil {
			return live.Query{}, err
		}
		return live.Query{
			Key:    r.key(op, id.String(), nil),
			Tables: []string{live.TableReviews},
			Load:   func(ctx context.Context) (any, error) { return r.reviews.ListByProject(ctx, id) },
		}, nil
	}
	return live.Query{}, newError(ErrNotFound, "unknown live operation %q", op)
}

func (r *LiveRegistry) key(op, args string, viewer *model.User) live.Key {
	k := live.Key{Op: op, Args: args}
	if viewer != nil {
		k.Viewer = viewer.ID.String()
	}
	return k
}

func projectIDParam(params url.Values) (uuid.UUID, error) {
	raw := params.Get("project_id")
	if raw == "" {
		return uuid.Nil, validation("project_id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validation("project_id is not a valid id")
	}
	return id, nil
}
