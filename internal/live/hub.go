package live

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Tables observed by live queries.
const (
	TableProjects   = "projects"
	TableOffers     = "offers"
	TableMedia      = "project_media"
	TableFavorites  = "user_favorites"
	TableReviews    = "reviews"
	TableUsers      = "users"
	TableOrders     = "orders"
	TableCategories = "categories"
)

// Loader evaluates a query against current state.
type Loader func(ctx context.Context) (any, error)

// Key identifies one observable result. Viewer is empty for anonymous
// subscribers; results that depend on the viewer must not be shared.
type Key struct {
	Op     string
	Args   string
	Viewer string
}

type Query struct {
	Key    Key
	Tables []string
	Load   Loader
}

type Update struct {
	Value any
	Err   error
	At    time.Time
}

type Subscription struct {
	id    uint64
	entry *entry
	hub   *Hub

	mu     sync.Mutex
	ch     chan Update
	closed bool
}

// Updates yields the latest result after each evaluation. A slow reader
// only ever sees the newest value.
func (s *Subscription) Updates() <-chan Update { return s.ch }

func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()
	s.hub.detach(s)
}

func (s *Subscription) deliver(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- u
}

type entry struct {
	key    Key
	tables []string
	load   Loader

	// run serializes evaluations so deliveries stay in order.
	run  sync.Mutex
	subs map[uint64]*Subscription
}

type Hub struct {
	mu      sync.Mutex
	entries map[Key]*entry
	byTable map[string]map[Key]*entry

	nextID  atomic.Uint64
	timeout time.Duration
	log     *zap.Logger
	metrics *Metrics
}

func NewHub(log *zap.Logger, metrics *Metrics, timeout time.Duration) *Hub {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Hub{
		entries: make(map[Key]*entry),
		byTable: make(map[string]map[Key]*entry),
		timeout: timeout,
		log:     log,
		metrics: metrics,
	}
}

// Subscribe registers q and delivers its first result before returning.
// Subscribers sharing a Key share one entry; the first Loader registered wins.
func (h *Hub) Subscribe(ctx context.Context, q Query) *Subscription {
	sub := &Subscription{
		id:  h.nextID.Add(1),
		hub: h,
		ch:  make(chan Update, 1),
	}

	h.mu.Lock()
	e, ok := h.entries[q.Key]
	if !ok {
		e = &entry{
			key:    q.Key,
			tables: dedupe(q.Tables),
			load:   q.Load,
			subs:   make(map[uint64]*Subscription),
		}
		h.entries[q.Key] = e
		for _, t := range e.tables {
			if h.byTable[t] == nil {
				h.byTable[t] = make(map[Key]*entry)
			}
			h.byTable[t][q.Key] = e
		}
		h.metrics.queries(1)
	}
	e.subs[sub.id] = sub
	sub.entry = e
	h.mu.Unlock()
	h.metrics.subscriptions(1)

	h.evaluate(ctx, e, sub)
	return sub
}

// Invalidate re-evaluates every query reading any of tables and redelivers
// to all of its subscribers. It returns once every delivery is made.
func (h *Hub) Invalidate(ctx context.Context, tables ...string) {
	h.mu.Lock()
	seen := make(map[Key]*entry)
	for _, t := range tables {
		h.metrics.invalidation(t)
		for k, e := range h.byTable[t] {
			seen[k] = e
		}
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, e := range seen {
		wg.Add(1)
		go func(e *entry) {
			defer wg.Done()
			h.evaluate(ctx, e, nil)
		}(e)
	}
	wg.Wait()
}

// Len reports the number of distinct live queries.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// evaluate runs the entry's loader and delivers to only, or to every
// current subscriber when only is nil.
func (h *Hub) evaluate(ctx context.Context, e *entry, only *Subscription) {
	e.run.Lock()
	defer e.run.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	defer cancel()

	start := time.Now()
	v, err := e.load(ctx)
	h.metrics.evaluation(e.key.Op, time.Since(start), err)
	if err != nil {
		h.log.Warn("live query evaluation failed",
			zap.String("op", e.key.Op),
			zap.String("args", e.key.Args),
			zap.Error(err))
	}
	u := Update{Value: v, Err: err, At: time.Now()}

	if only != nil {
		only.deliver(u)
		return
	}

	h.mu.Lock()
	subs := make([]*Subscription, 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.deliver(u)
	}
}

func (h *Hub) detach(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := s.entry
	if _, ok := e.subs[s.id]; !ok {
		return
	}
	delete(e.subs, s.id)
	h.metrics.subscriptions(-1)
	if len(e.subs) > 0 {
		return
	}
	if h.entries[e.key] == e {
		delete(h.entries, e.key)
		for _, t := range e.tables {
			delete(h.byTable[t], e.key)
			if len(h.byTable[t]) == 0 {
				delete(h.byTable, t)
			}
		}
		h.metrics.queries(-1)
	}
}

func dedupe(tables []string) []string {
	set := make(map[string]struct{}, len(tables))
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if _, ok := set[t]; ok {
			continue
		}
		set[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
