package store

import (
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// MemoryStore implements domain.Store without persistence.
// Rows go through the same encoding as the durable stores, so round-trip
// behaviour (runtime sentinel, genre names) is identical.
type MemoryStore struct {
	mu      sync.RWMutex
	movies  map[int]movieRow
	details map[int]detailRow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		movies:  make(map[int]movieRow),
		details: make(map[int]detailRow),
	}
}

func (s *MemoryStore) SaveMovies(movies []domain.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range movies {
		s.movies[m.ID] = toMovieRow(m)
	}
	return nil
}

func (s *MemoryStore) LoadMovies() ([]domain.Movie, error) {
	s.mu.RLock()
	movies := make([]domain.Movie, 0, len(s.movies))
	for _, row := range s.movies {
		movies = append(movies, row.toMovie())
	}
	s.mu.RUnlock()

	sortByRating(movies)
	return movies, nil
}

func (s *MemoryStore) UpsertDetail(detail domain.MovieDetail) error {
	s.mu.Lock()
	s.details[detail.ID] = toDetailRow(detail)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadDetail(id int) (*domain.MovieDetail, error) {
	s.mu.RLock()
	row, ok := s.details[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	detail := row.toDetail()
	return &detail, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.movies = make(map[int]movieRow)
	s.details = make(map[int]detailRow)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
