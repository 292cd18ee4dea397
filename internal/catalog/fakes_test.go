package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

var errOffline = &domain.TransportError{Err: errors.New("offline")}

// fakeRemote serves generated pages of pageSize movies, or err when set.
// If gate is non-nil every call blocks until a value is received from it.
type fakeRemote struct {
	mu         sync.Mutex
	pageSize   int
	totalPages int
	err        error
	details    map[int]domain.MovieDetail
	gate       chan struct{}
	started    chan int // receives the page number as each call begins, if non-nil

	pageCalls   []int
	detailCalls []int
}

func newFakeRemote(pageSize int) *fakeRemote {
	return &fakeRemote{pageSize: pageSize, details: make(map[int]domain.MovieDetail)}
}

func (f *fakeRemote) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeRemote) FetchPopular(ctx context.Context, page int) (domain.MoviePage, error) {
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, page)
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- page
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.MoviePage{}, f.err
	}
	if err := domain.PopularPage(page).Validate(); err != nil {
		return domain.MoviePage{}, err
	}
	return domain.MoviePage{
		Page:         page,
		Results:      pageMovies(page, f.pageSize),
		TotalPages:   f.totalPages,
		TotalResults: f.totalPages * f.pageSize,
	}, nil
}

func (f *fakeRemote) FetchMovie(ctx context.Context, id int) (domain.MovieDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, id)
	if f.err != nil {
		return domain.MovieDetail{}, f.err
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return domain.MovieDetail{}, &domain.StatusError{Code: 404}
}

func (f *fakeRemote) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pageCalls...)
}

// pageMovies returns size movies with IDs unique to page
func pageMovies(page, size int) []domain.Movie {
	movies := make([]domain.Movie, size)
	for i := range movies {
		id := (page-1)*size + i + 1
		movies[i] = domain.Movie{ID: id, Title: "Movie", VoteAverage: float64(id % 10)}
	}
	return movies
}

// brokenStore fails every operation
type brokenStore struct{}

var errDisk = errors.New("disk I/O error")

func (brokenStore) SaveMovies([]domain.Movie) error {
	return &domain.StoreError{Op: "save movies", Err: errDisk}
}

func (brokenStore) LoadMovies() ([]domain.Movie, error) {
	return nil, &domain.StoreError{Op: "load movies", Err: errDisk}
}

func (brokenStore) UpsertDetail(domain.MovieDetail) error {
	return &domain.StoreError{Op: "upsert detail", Err: errDisk}
}

func (brokenStore) LoadDetail(int) (*domain.MovieDetail, error) {
	return nil, &domain.StoreError{Op: "load detail", Err: errDisk}
}

func (brokenStore) Clear() error { return nil }
func (brokenStore) Close() error { return nil }

// stubPages returns a scripted sequence of results, one per call
type stubPages struct {
	mu      sync.Mutex
	results []domain.MoviePage
	errs    []error
	calls   []int
}

func (s *stubPages) FetchPage(ctx context.Context, page int) (domain.MoviePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.calls)
	s.calls = append(s.calls, page)
	if i < len(s.errs) && s.errs[i] != nil {
		return domain.MoviePage{}, s.errs[i]
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	return domain.MoviePage{Page: page}, nil
}
