package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPager(remote *fakeRemote) *Pager {
	return NewPager(NewRepository(remote, store.NewMemoryStore(), nil), nil)
}

func TestPager_InitialState(t *testing.T) {
	p := newTestPager(newFakeRemote(2))

	state := p.Snapshot()
	assert.Equal(t, 1, state.Cursor)
	assert.Empty(t, state.Records)
	assert.False(t, state.InFlight)
	assert.NoError(t, state.Err)
	assert.True(t, state.CanLoadMore)
}

func TestPager_ThreeConsecutiveLoads(t *testing.T) {
	remote := newFakeRemote(2)
	p := newTestPager(remote)

	for i := 0; i < 3; i++ {
		p.LoadNext(context.Background())
	}

	assert.Len(t, p.Records(), 6)
	assert.Equal(t, 4, p.Cursor())
	assert.Equal(t, []int{1, 2, 3}, remote.calls())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, movieIDs(p.Records()))
}

func TestPager_CursorIsMonotonic(t *testing.T) {
	for _, size := range []int{1, 3, 20} {
		remote := newFakeRemote(size)
		p := newTestPager(remote)

		for k := 1; k <= 5; k++ {
			p.LoadNext(context.Background())
			require.NoError(t, p.Err())
			assert.Equal(t, k+1, p.Cursor())
			assert.Len(t, p.Records(), k*size)
		}
	}
}

func TestPager_ConcurrentLoadIsNoop(t *testing.T) {
	remote := newFakeRemote(2)
	remote.gate = make(chan struct{})
	remote.started = make(chan int, 1)
	p := newTestPager(remote)

	done := make(chan struct{})
	go func() {
		p.LoadNext(context.Background())
		close(done)
	}()
	<-remote.started

	assert.True(t, p.InFlight())

	// None of these wait for the outstanding fetch
	p.LoadNext(context.Background())
	p.Refresh(context.Background())
	p.MaybeLoadMore(context.Background(), domain.Movie{ID: 0})

	assert.Equal(t, []int{1}, remote.calls())

	remote.gate <- struct{}{}
	<-done

	assert.False(t, p.InFlight())
	assert.Equal(t, []int{1}, remote.calls())
	assert.Equal(t, 2, p.Cursor())
	assert.Len(t, p.Records(), 2)
}

func TestPager_ConcurrentCallersFetchOnce(t *testing.T) {
	remote := newFakeRemote(2)
	remote.gate = make(chan struct{})
	remote.started = make(chan int, 1)
	p := newTestPager(remote)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.LoadNext(context.Background())
	}()
	<-remote.started

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.LoadNext(context.Background())
		}()
	}

	// Give the extra callers a chance to run against the in-flight flag
	time.Sleep(20 * time.Millisecond)
	close(remote.gate)
	wg.Wait()

	assert.Equal(t, []int{1}, remote.calls())
	assert.Equal(t, 2, p.Cursor())
}

func TestPager_RefreshResets(t *testing.T) {
	remote := newFakeRemote(2)
	p := newTestPager(remote)

	for i := 0; i < 4; i++ {
		p.LoadNext(context.Background())
	}
	require.Len(t, p.Records(), 8)

	p.Refresh(context.Background())

	assert.Equal(t, []int{1, 2}, movieIDs(p.Records()), "only the first page remains")
	assert.Equal(t, []int{1, 2, 3, 4, 1}, remote.calls())
	assert.Equal(t, 2, p.Cursor())
	assert.True(t, p.CanLoadMore())
}

func TestPager_RefreshResetsCursorBeforeFetching(t *testing.T) {
	remote := newFakeRemote(2)
	p := newTestPager(remote)
	p.LoadNext(context.Background())
	p.LoadNext(context.Background())

	remote.mu.Lock()
	remote.gate = make(chan struct{})
	remote.started = make(chan int, 1)
	remote.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(done)
	}()
	assert.Equal(t, 1, <-remote.started)

	state := p.Snapshot()
	assert.Equal(t, 1, state.Cursor)
	assert.Empty(t, state.Records)
	assert.True(t, state.InFlight)

	close(remote.gate)
	<-done
}

func TestPager_RefreshFailureLeavesCursorAtOne(t *testing.T) {
	stub := &stubPages{
		results: []domain.MoviePage{
			{Page: 1, Results: pageMovies(1, 2)},
			{Page: 2, Results: pageMovies(2, 2)},
		},
		errs: []error{nil, nil, errOffline},
	}
	p := NewPager(stub, nil)
	p.LoadNext(context.Background())
	p.LoadNext(context.Background())

	p.Refresh(context.Background())

	assert.Equal(t, []int{1, 2, 1}, stub.calls)
	assert.Equal(t, 1, p.Cursor())
	assert.Empty(t, p.Records())
	assert.Same(t, errOffline, p.Err())
}

func TestPager_FailureKeepsRecordsAndCursor(t *testing.T) {
	remote := newFakeRemote(2)
	p := NewPager(NewRepository(remote, brokenStore{}, nil), nil)

	// Every network success fails its write-through, so nothing is appended
	p.LoadNext(context.Background())
	assert.Error(t, p.Err())
	assert.Equal(t, 1, p.Cursor())
	assert.Empty(t, p.Records())
	assert.False(t, p.InFlight())
}

func TestPager_ErrorClearedOnNextLoad(t *testing.T) {
	remote := newFakeRemote(2)
	remote.setErr(errOffline)
	p := newTestPager(remote)

	p.LoadNext(context.Background())
	require.Error(t, p.Err())
	assert.Equal(t, domain.Describe(errOffline), domain.Describe(p.Err()))

	remote.setErr(nil)
	p.LoadNext(context.Background())
	assert.NoError(t, p.Err())
	assert.Equal(t, 2, p.Cursor())
	assert.Equal(t, []int{1, 1}, remote.calls(), "a failed page is requested again")
}

func TestPager_MaybeLoadMore(t *testing.T) {
	remote := newFakeRemote(3)
	p := newTestPager(remote)
	p.LoadNext(context.Background())

	records := p.Records()
	p.MaybeLoadMore(context.Background(), records[0])
	p.MaybeLoadMore(context.Background(), records[1])
	assert.Equal(t, []int{1}, remote.calls(), "only the last record triggers a load")

	p.MaybeLoadMore(context.Background(), records[2])
	assert.Equal(t, []int{1, 2}, remote.calls())
	assert.Len(t, p.Records(), 6)

	// A stale anchor no longer matches the last record
	p.MaybeLoadMore(context.Background(), records[2])
	assert.Equal(t, []int{1, 2}, remote.calls())
}

func TestPager_ConcurrentMaybeLoadMoreFetchesOnce(t *testing.T) {
	for i := 0; i < 200; i++ {
		remote := newFakeRemote(2)
		p := newTestPager(remote)
		p.LoadNext(context.Background())
		last := p.Records()[1]

		start := make(chan struct{})
		var wg sync.WaitGroup
		for j := 0; j < 8; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				p.MaybeLoadMore(context.Background(), last)
			}()
		}
		close(start)
		wg.Wait()

		// Once page 2 lands the anchor is stale, so no caller may fetch page 3
		require.Equal(t, []int{1, 2}, remote.calls(), "iteration %d", i)
		require.Len(t, p.Records(), 4)
	}
}

func TestPager_MaybeLoadMoreOnEmptyPager(t *testing.T) {
	remote := newFakeRemote(3)
	p := newTestPager(remote)

	p.MaybeLoadMore(context.Background(), domain.Movie{})
	assert.Empty(t, remote.calls())
}

func TestPager_StopsAtTotalPages(t *testing.T) {
	remote := newFakeRemote(2)
	remote.totalPages = 2
	p := newTestPager(remote)

	p.LoadNext(context.Background())
	assert.True(t, p.CanLoadMore())
	assert.Equal(t, 2, p.Snapshot().TotalPages)

	last := p.Records()[1]
	p.MaybeLoadMore(context.Background(), last)
	assert.False(t, p.CanLoadMore())

	last = p.Records()[3]
	p.MaybeLoadMore(context.Background(), last)
	assert.Equal(t, []int{1, 2}, remote.calls())

	p.Refresh(context.Background())
	assert.True(t, p.CanLoadMore(), "refresh re-enables loading")
}

func TestPager_EmptyPageStopsLoading(t *testing.T) {
	stub := &stubPages{results: []domain.MoviePage{
		{Page: 1, Results: pageMovies(1, 2)},
		{Page: 2},
	}}
	p := NewPager(stub, nil)

	p.LoadNext(context.Background())
	p.MaybeLoadMore(context.Background(), p.Records()[1])
	assert.False(t, p.CanLoadMore())
	assert.Equal(t, 3, p.Cursor())

	p.MaybeLoadMore(context.Background(), p.Records()[1])
	assert.Equal(t, []int{1, 2}, stub.calls)
}

func TestPager_CachedPageStopsLoading(t *testing.T) {
	remote := newFakeRemote(2)
	remote.setErr(errOffline)
	s := seededStore(t,
		domain.Movie{ID: 10, VoteAverage: 9},
		domain.Movie{ID: 11, VoteAverage: 8},
	)
	p := NewPager(NewRepository(remote, s, nil), nil)

	p.LoadNext(context.Background())

	state := p.Snapshot()
	require.NoError(t, state.Err)
	assert.True(t, state.FromCache)
	assert.False(t, state.CanLoadMore)
	assert.Equal(t, []int{10, 11}, movieIDs(state.Records))

	p.MaybeLoadMore(context.Background(), state.Records[1])
	assert.Equal(t, []int{1}, remote.calls())
}

func TestPager_DeduplicatesByID(t *testing.T) {
	stub := &stubPages{results: []domain.MoviePage{
		{Page: 1, Results: []domain.Movie{{ID: 1}, {ID: 2}, {ID: 3}}},
		{Page: 2, Results: []domain.Movie{{ID: 3}, {ID: 4}}},
	}}
	p := NewPager(stub, nil)

	p.LoadNext(context.Background())
	p.LoadNext(context.Background())

	assert.Equal(t, []int{1, 2, 3, 4}, movieIDs(p.Records()))
	assert.Equal(t, 3, p.Cursor())
}

func TestPager_RecordsAreCopies(t *testing.T) {
	p := newTestPager(newFakeRemote(2))
	p.LoadNext(context.Background())

	records := p.Records()
	records[0].Title = "changed"
	assert.Equal(t, "Movie", p.Records()[0].Title)
}
