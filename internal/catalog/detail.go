package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// DetailFetcher is the slice of the repository the detail loader depends on
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id int) (domain.MovieDetail, error)
}

// DetailLoader holds the load state of a single movie detail
type DetailLoader struct {
	fetcher DetailFetcher
	id      int
	logger  *slog.Logger

	mu       sync.Mutex
	detail   *domain.MovieDetail
	inFlight bool
	err      error
}

// NewDetailLoader creates a loader for movie id
func NewDetailLoader(fetcher DetailFetcher, id int, logger *slog.Logger) *DetailLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailLoader{fetcher: fetcher, id: id, logger: logger}
}

// ID returns the movie this loader is for
func (d *DetailLoader) ID() int { return d.id }

// Load fetches the detail. It is a no-op while a load is in flight.
// A failed load keeps the previously loaded detail, if any.
func (d *DetailLoader) Load(ctx context.Context) {
	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return
	}
	d.inFlight = true
	d.err = nil
	d.mu.Unlock()

	detail, err := d.fetcher.FetchDetail(ctx, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight = false
	if err != nil {
		d.err = err
		d.logger.Error("failed to load detail", "error", err, "id", d.id)
		return
	}
	d.detail = &detail
}

// Detail returns a copy of the loaded detail, or nil before the first success
func (d *DetailLoader) Detail() *domain.MovieDetail {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.detail == nil {
		return nil
	}
	detail := *d.detail
	detail.Genres = slices.Clone(d.detail.Genres)
	return &detail
}

func (d *DetailLoader) InFlight() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

func (d *DetailLoader) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
