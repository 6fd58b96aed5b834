package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func counterLoader(n *atomic.Int64) Loader {
	return func(context.Context) (any, error) {
		return n.Add(1), nil
	}
}

func recv(t *testing.T, sub *Subscription) Update {
	t.Helper()
	select {
	case u, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed")
		return u
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
		return Update{}
	}
}

func TestHub_SubscribeDeliversImmediately(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, time.Second)
	var n atomic.Int64

	sub := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "projects.list"},
		Tables: []string{TableProjects},
		Load:   counterLoader(&n),
	})
	defer sub.Close()

	assert.Equal(t, int64(1), recv(t, sub).Value)
}

func TestHub_InvalidateRedeliversToDependents(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, time.Second)
	var projects, reviews atomic.Int64

	ps := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "projects.get", Args: "p1"},
		Tables: []string{TableProjects, TableMedia},
		Load:   counterLoader(&projects),
	})
	defer ps.Close()
	rs := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "reviews.list", Args: "p1"},
		Tables: []string{TableReviews},
		Load:   counterLoader(&reviews),
	})
	defer rs.Close()
	recv(t, ps)
	recv(t, rs)

	h.Invalidate(context.Background(), TableMedia)

	assert.Equal(t, int64(2), recv(t, ps).Value)
	select {
	case u := <-rs.Updates():
		t.Fatalf("unrelated query re-evaluated: %v", u)
	default:
	}
	assert.Equal(t, int64(1), reviews.Load())
}

func TestHub_InvalidateAlwaysRedelivers(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, time.Second)
	sub := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "projects.published", Args: "p1"},
		Tables: []string{TableProjects},
		Load:   func(context.Context) (any, error) { return true, nil },
	})
	defer sub.Close()
	recv(t, sub)

	h.Invalidate(context.Background(), TableProjects)
	assert.Equal(t, true, recv(t, sub).Value)
}

func TestHub_SlowReaderGetsLatest(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, time.Second)
	var n atomic.Int64
	sub := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "projects.list"},
		Tables: []string{TableProjects},
		Load:   counterLoader(&n),
	})
	defer sub.Close()

	for i := 0; i < 5; i++ {
		h.Invalidate(context.Background(), TableProjects)
	}

	assert.Equal(t, int64(6), recv(t, sub).Value)
	select {
	case u := <-sub.Updates():
		t.Fatalf("stale update buffered: %v", u)
	default:
	}
}

func TestHub_SharedKeyAndViewerIsolation(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, time.Second)
	var n atomic.Int64
	q := Query{Key: Key{Op: "projects.list", Viewer: "u1"}, Tables: []string{TableFavorites}, Load: counterLoader(&n)}

	a := h.Subscribe(context.Background(), q)
	b := h.Subscribe(context.Background(), q)
	other := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "projects.list", Viewer: "u2"},
		Tables: []string{TableFavorites},
		Load:   func(context.Context) (any, error) { return "u2", nil },
	})
	assert.Equal(t, 2, h.Len())

	a.Close()
	assert.Equal(t, 2, h.Len())
	b.Close()
	assert.Equal(t, 1, h.Len())
	other.Close()
	assert.Equal(t, 0, h.Len())

	// Buffered first result, then closed.
	_, ok := <-a.Updates()
	assert.True(t, ok)
	_, ok = <-a.Updates()
	assert.False(t, ok)
	a.Close()
}

func TestHub_LoaderErrorIsDelivered(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, time.Second)
	boom := errors.New("boom")
	sub := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "projects.get", Args: "missing"},
		Tables: []string{TableProjects},
		Load:   func(context.Context) (any, error) { return nil, boom },
	})
	defer sub.Close()

	assert.ErrorIs(t, recv(t, sub).Err, boom)
}

func TestHub_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	h := NewHub(zap.NewNop(), m, time.Second)

	sub := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "offers.list", Args: "p1"},
		Tables: []string{TableOffers},
		Load:   func(context.Context) (any, error) { return nil, nil },
	})
	recv(t, sub)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeSubscriptions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeQueries))

	h.Invalidate(context.Background(), TableOffers)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.evaluations.WithLabelValues("offers.list", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.invalidations.WithLabelValues(TableOffers)))

	sub.Close()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeSubscriptions))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeQueries))
}

func TestLocalNotifier(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, time.Second)
	var n atomic.Int64
	sub := h.Subscribe(context.Background(), Query{
		Key:    Key{Op: "projects.list"},
		Tables: []string{TableProjects},
		Load:   counterLoader(&n),
	})
	defer sub.Close()
	recv(t, sub)

	require.NoError(t, NewLocalNotifier(h).Notify(context.Background(), TableProjects))
	assert.Equal(t, int64(2), recv(t, sub).Value)
}
