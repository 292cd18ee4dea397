package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailLoader_Load(t *testing.T) {
	remote := newFakeRemote(0)
	remote.details[42] = domain.MovieDetail{ID: 42, Title: "Heat", Runtime: domain.IntPtr(170)}
	loader := NewDetailLoader(NewRepository(remote, store.NewMemoryStore(), nil), 42, nil)

	assert.Nil(t, loader.Detail())
	assert.Equal(t, 42, loader.ID())

	loader.Load(context.Background())

	require.NoError(t, loader.Err())
	require.NotNil(t, loader.Detail())
	assert.Equal(t, "2h 50m", loader.Detail().FormattedRuntime())
	assert.False(t, loader.InFlight())
}

func TestDetailLoader_FailureThenRetry(t *testing.T) {
	remote := newFakeRemote(0)
	remote.setErr(errOffline)
	remote.details[7] = domain.MovieDetail{ID: 7, Title: "Se7en"}
	loader := NewDetailLoader(NewRepository(remote, store.NewMemoryStore(), nil), 7, nil)

	loader.Load(context.Background())
	assert.Same(t, errOffline, loader.Err())
	assert.Nil(t, loader.Detail())

	remote.setErr(nil)
	loader.Load(context.Background())
	assert.NoError(t, loader.Err())
	assert.Equal(t, "Se7en", loader.Detail().Title)
}

func TestDetailLoader_ServesCachedDetailOffline(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.UpsertDetail(domain.MovieDetail{ID: 3, Title: "Cached"}))

	remote := newFakeRemote(0)
	remote.setErr(errOffline)
	loader := NewDetailLoader(NewRepository(remote, s, nil), 3, nil)

	loader.Load(context.Background())
	require.NoError(t, loader.Err())
	assert.Equal(t, "Cached", loader.Detail().Title)
}

// gatedDetails blocks every fetch until gate is closed
type gatedDetails struct {
	mu      sync.Mutex
	gate    chan struct{}
	started chan struct{}
	calls   int
}

func (g *gatedDetails) FetchDetail(ctx context.Context, id int) (domain.MovieDetail, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	g.started <- struct{}{}
	<-g.gate
	return domain.MovieDetail{ID: id}, nil
}

func TestDetailLoader_ConcurrentLoadIsNoop(t *testing.T) {
	g := &gatedDetails{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	loader := NewDetailLoader(g, 5, nil)

	done := make(chan struct{})
	go func() {
		loader.Load(context.Background())
		close(done)
	}()
	<-g.started

	assert.True(t, loader.InFlight())
	loader.Load(context.Background())

	close(g.gate)
	<-done

	assert.Equal(t, 1, g.calls)
	assert.Equal(t, 5, loader.Detail().ID)
}

func TestDetailLoader_DetailIsCopy(t *testing.T) {
	remote := newFakeRemote(0)
	remote.details[1] = domain.MovieDetail{ID: 1, Genres: []domain.Genre{{ID: 0, Name: "Drama"}}}
	loader := NewDetailLoader(NewRepository(remote, store.NewMemoryStore(), nil), 1, nil)
	loader.Load(context.Background())

	d := loader.Detail()
	d.Genres[0].Name = "Comedy"
	assert.Equal(t, "Drama", loader.Detail().Genres[0].Name)
}
