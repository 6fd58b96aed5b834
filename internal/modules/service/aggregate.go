package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ProjectDetail struct {
	*model.Project
	Seller          *model.User     `json:"seller"`
	LastFulfillment *model.Order    `json:"last_fulfillment"`
	Images          []*ImageWithURL `json:"images"`
	Reviews         []*model.Review `json:"reviews"`
	Favorited       bool            `json:"favorited"`
}

type ProjectCard struct {
	*model.Project
	StorageID    *string         `json:"storage_id"`
	ThumbnailURL *string         `json:"thumbnail_url"`
	Seller       *model.User     `json:"seller"`
	Reviews      []*model.Review `json:"reviews"`
	Offer        *model.Offer    `json:"offer"`
	Favorited    bool            `json:"favorited"`
}

type SellerProjectStats struct {
	*model.Project
	OrderAmount  int64   `json:"order_amount"`
	TotalRevenue int64   `json:"total_revenue"`
	ImageURL     *string `json:"image_url"`
}

type ProjectWithImages struct {
	*model.Project
	Images []*ImageWithURL `json:"images"`
}

type CategoryAndSubcategory struct {
	Category    *model.Category    `json:"category"`
	Subcategory *model.Subcategory `json:"subcategory"`
}

type ListProjectsInput struct {
	Search string
	// Filter is a subcategory name or, failing that, a category name.
	Filter    string
	Favorites bool
	Viewer    *model.User
}

// Get joins a project with its seller, latest order, images, reviews and the
// viewer's favorite flag. The reads are independent and not snapshot-isolated.
func (s *projectService) Get(ctx context.Context, id uuid.UUID, viewer *model.User) (*ProjectDetail, error) {
	p, err := s.Projects.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	out := &ProjectDetail{Project: p}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		seller, err := s.Users.GetByID(gctx, p.SellerID)
		if err != nil {
			return lookupErr(err, "seller")
		}
		out.Seller = seller
		return nil
	})
	g.Go(func() error {
		o, err := s.Orders.LatestByProject(gctx, p.ID)
		out.LastFulfillment = o
		return err
	})
	g.Go(func() error {
		media, err := s.Media.ListByProject(gctx, p.ID)
		if err != nil {
			return err
		}
		out.Images, err = withURLs(gctx, s.Store, media)
		return err
	})
	g.Go(func() error {
		reviews, err := s.Reviews.ListByProject(gctx, p.ID)
		out.Reviews = reviews
		return err
	})
	if viewer != nil {
		g.Go(func() error {
			_, err := s.Favorites.Get(gctx, viewer.ID, p.ID)
			switch {
			case err == nil:
				out.Favorited = true
			case errors.Is(err, gorm.ErrRecordNotFound):
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// List searches titles when Search is set (any publish state) and otherwise
// lists published projects, newest first in both cases. Filter narrows by
// subcategory or category; Favorites keeps only the viewer's favorites.
func (s *projectService) List(ctx context.Context, in ListProjectsInput) ([]*ProjectCard, error) {
	var (
		projects []*model.Project
		err      error
	)
	if search := strings.TrimSpace(in.Search); search != "" {
		projects, err = s.Projects.SearchByTitle(ctx, search)
	} else {
		projects, err = s.Projects.ListPublished(ctx)
	}
	if err != nil {
		return nil, err
	}

	if in.Filter != "" {
		allowed, err := s.resolveFilter(ctx, in.Filter)
		if err != nil {
			return nil, err
		}
		kept := projects[:0]
		for _, p := range projects {
			if allowed[p.SubcategoryID] {
				kept = append(kept, p)
			}
		}
		projects = kept
	}

	cards, err := s.cards(ctx, projects, in.Viewer)
	if err != nil {
		return nil, err
	}

	if in.Favorites {
		if in.Viewer == nil {
			return []*ProjectCard{}, nil
		}
		kept := cards[:0]
		for _, c := range cards {
			if c.Favorited {
				kept = append(kept, c)
			}
		}
		cards = kept
	}
	return cards, nil
}

func (s *projectService) resolveFilter(ctx context.Context, name string) (map[uuid.UUID]bool, error) {
	sub, err := s.Categories.GetSubcategoryByName(ctx, name)
	if err == nil {
		return map[uuid.UUID]bool{sub.ID: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat, err := s.Categories.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, lookupErr(err, "category")
	}
	allowed := make(map[uuid.UUID]bool, len(cat.Subcategories))
	for _, sc := range cat.Subcategories {
		allowed[sc.ID] = true
	}
	return allowed, nil
}

func (s *projectService) cards(ctx context.Context, projects []*model.Project, viewer *model.User) ([]*ProjectCard, error) {
	favorited := map[uuid.UUID]bool{}
	if viewer != nil && len(projects) > 0 {
		ids := make([]uuid.UUID, len(projects))
		for i, p := range projects {
			ids[i] = p.ID
		}
		var err error
		if favorited, err = s.Favorites.FavoritedProjectIDs(ctx, viewer.ID, ids); err != nil {
			return nil, err
		}
	}

	out := make([]*ProjectCard, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregateFanOut)
	for i, p := range projects {
		g.Go(func() error {
			card, err := s.card(gctx, p)
			if err != nil {
				return err
			}
			card.Favorited = favorited[p.ID]
			out[i] = card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *projectService) card(ctx context.Context, p *model.Project) (*ProjectCard, error) {
	seller, err := s.Users.GetByID(ctx, p.SellerID)
	if err != nil {
		return nil, lookupErr(err, "seller")
	}
	card := &ProjectCard{Project: p, Seller: seller}

	thumb, err := s.Media.FirstByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if thumb != nil {
		card.StorageID = &thumb.StorageID
		if card.ThumbnailURL, err = resolveURL(ctx, s.Store, thumb.StorageID); err != nil {
			return nil, err
		}
	}

	if card.Reviews, err = s.Reviews.ListByProject(ctx, p.ID); err != nil {
		return nil, err
	}
	if card.Offer, err = s.Offers.FirstByProject(ctx, p.ID); err != nil {
		return nil, err
	}
	return card, nil
}

// ListSellerStats is the seller dashboard: the viewer's projects with order
// count, summed offer prices and a thumbnail URL.
func (s *projectService) ListSellerStats(ctx context.Context, viewer *model.User) ([]*SellerProjectStats, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	projects, err := s.Projects.ListBySeller(ctx, viewer.ID, true)
	if err != nil {
		return nil, err
	}

	out := make([]*SellerProjectStats, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregateFanOut)
	for i, p := range projects {
		g.Go(func() error {
			st := &SellerProjectStats{Project: p}

			n, err := s.Orders.CountByProject(gctx, p.ID)
			if err != nil {
				return err
			}
			st.OrderAmount = n

			offers, err := s.Offers.ListByProject(gctx, p.ID)
			if err != nil {
				return err
			}
			for _, o := range offers {
				st.TotalRevenue += o.Price
			}

			thumb, err := s.Media.FirstByProject(gctx, p.ID)
			if err != nil {
				return err
			}
			if thumb != nil {
				if st.ImageURL, err = resolveURL(gctx, s.Store, thumb.StorageID); err != nil {
					return err
				}
			}
			out[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySellerName returns nil when no such user exists.
func (s *projectService) ListBySellerName(ctx context.Context, username string) ([]*model.Project, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.Projects.ListBySeller(ctx, u.ID, true)
}

func (s *projectService) ListWithImages(ctx context.Context, sellerUsername string) ([]*ProjectWithImages, error) {
	u, err := s.Users.GetByUsername(ctx, sellerUsername)
	if err != nil {
		return nil, lookupErr(err, "seller")
	}
	projects, err := s.Projects.ListBySeller(ctx, u.ID, true)
	if err != nil {
		return nil, err
	}

	out := make([]*ProjectWithImages, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregateFanOut)
	for i, p := range projects {
		g.Go(func() error {
			media, err := s.Media.ListByProject(gctx, p.ID)
			if err != nil {
				return err
			}
			images, err := withURLs(gctx, s.Store, media)
			if err != nil {
				return err
			}
			out[i] = &ProjectWithImages{Project: p, Images: images}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *projectService) GetCategoryAndSubcategory(ctx context.Context, id uuid.UUID) (*CategoryAndSubcategory, error) {
	p, err := s.Projects.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	sub, err := s.Categories.GetSubcategory(ctx, p.SubcategoryID)
	if err != nil {
		return nil, lookupErr(err, "subcategory")
	}
	cat, err := s.Categories.GetCategory(ctx, sub.CategoryID)
	if err != nil {
		return nil, lookupErr(err, "category")
	}
	return &CategoryAndSubcategory{Category: cat, Subcategory: sub}, nil
}
