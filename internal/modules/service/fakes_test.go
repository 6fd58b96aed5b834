package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memDB backs in-memory repos that keep the store-level invariants (unique
// tiers, unique favorites, media cap, cascades) so services can be exercised
// across multiple steps.
type memDB struct {
	mu        sync.Mutex
	clock     time.Time
	projects  map[uuid.UUID]*model.Project
	offers    map[uuid.UUID]*model.Offer
	media     map[uuid.UUID]*model.ProjectMedia
	favorites map[uuid.UUID]*model.Favorite
}

func newMemDB() *memDB {
	return &memDB{
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		projects:  map[uuid.UUID]*model.Project{},
		offers:    map[uuid.UUID]*model.Offer{},
		media:     map[uuid.UUID]*model.ProjectMedia{},
		favorites: map[uuid.UUID]*model.Favorite{},
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) countLocked(projectID uuid.UUID) (media, offers int64) {
	for _, m := range db.media {
		if m.ProjectID == projectID {
			media++
		}
	}
	for _, o := range db.offers {
		if o.ProjectID == projectID {
			offers++
		}
	}
	return media, offers
}

type memProjects struct{ db *memDB }

var _ repo.ProjectRepo = memProjects{}

func (r memProjects) Create(_ context.Context, p *model.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.db.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.db.projects[p.ID] = &cp
	return nil
}

func (r memProjects) Get(_ context.Context, id uuid.UUID) (*model.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProjects) filter(keep func(*model.Project) bool, desc bool) []*model.Project {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Project
	for _, p := range r.db.projects {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r memProjects) ListPublished(context.Context) ([]*model.Project, error) {
	return r.filter(func(p *model.Project) bool { return p.Published }, true), nil
}

func (r memProjects) SearchByTitle(_ context.Context, search string) ([]*model.Project, error) {
	needle := strings.ToLower(search)
	return r.filter(func(p *model.Project) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	}, true), nil
}

func (r memProjects) ListBySeller(_ context.Context, sellerID uuid.UUID, timeDesc bool) ([]*model.Project, error) {
	return r.filter(func(p *model.Project) bool { return p.SellerID == sellerID }, timeDesc), nil
}

func (r memProjects) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "published":
			p.Published = v.(bool)
		}
	}
	cp := *p
	return &cp, nil
}

func (r memProjects) PublishIf(_ context.Context, id uuid.UUID, gate repo.PublishGateFunc) (*model.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	media, offers := r.db.countLocked(id)
	cp := *p
	if err := gate(&cp, media, offers); err != nil {
		return nil, err
	}
	p.Published = true
	cp.Published = true
	return &cp, nil
}

func (r memProjects) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Project, error) {
	return r.Update(ctx, id, map[string]interface{}{"published": published})
}

func (r memProjects) IncrementClicks(_ context.Context, id uuid.UUID, n int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.projects[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Clicks += n
	return nil
}

func (r memProjects) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.projects, id)
	for k, f := range r.db.favorites {
		if f.ProjectID == id {
			delete(r.db.favorites, k)
		}
	}
	for k, o := range r.db.offers {
		if o.ProjectID == id {
			delete(r.db.offers, k)
		}
	}
	for k, m := range r.db.media {
		if m.ProjectID == id {
			delete(r.db.media, k)
		}
	}
	return nil
}

type memOffers struct{ db *memDB }

var _ repo.OfferRepo = memOffers{}

func tierRank(t model.Tier) int {
	for i, v := range model.Tiers {
		if v == t {
			return i
		}
	}
	return len(model.Tiers)
}

func (r memOffers) Create(_ context.Context, o *model.Offer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.offers {
		if e.ProjectID == o.ProjectID && e.Tier == o.Tier {
			return gorm.ErrDuplicatedKey
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = r.db.tick()
	cp := *o
	r.db.offers[o.ID] = &cp
	return nil
}

func (r memOffers) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.offers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			o.Title = v.(string)
		case "description":
			o.Description = v.(string)
		case "price":
			o.Price = v.(int64)
		case "delivery_days":
			o.DeliveryDays = v.(int)
		case "revisions":
			o.Revisions = v.(int)
		case "price_ref":
			o.PriceRef = v.(string)
		}
	}
	return nil
}

func (r memOffers) GetByProjectTier(_ context.Context, projectID uuid.UUID, tier model.Tier) (*model.Offer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.offers {
		if o.ProjectID == projectID && o.Tier == tier {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memOffers) ListByProject(_ context.Context, projectID uuid.UUID) ([]*model.Offer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Offer
	for _, o := range r.db.offers {
		if o.ProjectID == projectID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return tierRank(out[i].Tier) < tierRank(out[j].Tier) })
	return out, nil
}

func (r memOffers) FirstByProject(_ context.Context, projectID uuid.UUID) (*model.Offer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var first *model.Offer
	for _, o := range r.db.offers {
		if o.ProjectID == projectID && (first == nil || o.CreatedAt.Before(first.CreatedAt)) {
			first = o
		}
	}
	if first == nil {
		return nil, nil
	}
	cp := *first
	return &cp, nil
}

type memMedia struct{ db *memDB }

var _ repo.MediaRepo = memMedia{}

func (r memMedia) CreateCapped(_ context.Context, m *model.ProjectMedia, limit int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[m.ProjectID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if n, _ := r.db.countLocked(m.ProjectID); n >= int64(limit) {
		return repo.ErrLimitReached
	}
	for _, e := range r.db.media {
		if e.StorageID == m.StorageID {
			return gorm.ErrDuplicatedKey
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = r.db.tick()
	cp := *m
	r.db.media[m.ID] = &cp
	return nil
}

func (r memMedia) GetByStorageID(_ context.Context, storageID string) (*model.ProjectMedia, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.media {
		if m.StorageID == storageID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memMedia) ListByProject(_ context.Context, projectID uuid.UUID) ([]*model.ProjectMedia, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.ProjectMedia
	for _, m := range r.db.media {
		if m.ProjectID == projectID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memMedia) FirstByProject(ctx context.Context, projectID uuid.UUID) (*model.ProjectMedia, error) {
	items, _ := r.ListByProject(ctx, projectID)
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (r memMedia) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.media[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.media, id)
	return nil
}

type memFavorites struct{ db *memDB }

var _ repo.FavoriteRepo = memFavorites{}

func (r memFavorites) Get(_ context.Context, userID, projectID uuid.UUID) (*model.Favorite, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.favorites {
		if f.UserID == userID && f.ProjectID == projectID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memFavorites) Create(_ context.Context, f *model.Favorite) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.favorites {
		if e.UserID == f.UserID && e.ProjectID == f.ProjectID {
			return gorm.ErrDuplicatedKey
		}
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = r.db.tick()
	cp := *f
	r.db.favorites[f.ID] = &cp
	return nil
}

func (r memFavorites) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.favorites[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.favorites, id)
	return nil
}

func (r memFavorites) FavoritedProjectIDs(_ context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(projectIDs))
	for _, id := range projectIDs {
		want[id] = true
	}
	out := map[uuid.UUID]bool{}
	for _, f := range r.db.favorites {
		if f.UserID == userID && want[f.ProjectID] {
			out[f.ProjectID] = true
		}
	}
	return out, nil
}
