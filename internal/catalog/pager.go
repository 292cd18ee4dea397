package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// PageFetcher is the slice of the repository the pager depends on
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (domain.MoviePage, error)
}

// PagerState is a consistent copy of everything the pager exposes
type PagerState struct {
	Records     []domain.Movie
	Cursor      int // Next page to request
	InFlight    bool
	Err         error
	CanLoadMore bool
	TotalPages  int  // 0 = unknown
	FromCache   bool // Last page came from the local cache
}

// Pager accumulates pages of movies in order.
//
// The in-flight flag is a cooperative guard, not a lock: a load requested
// while another is outstanding returns immediately without waiting. The
// mutex only protects state between fetches and is never held across one.
type Pager struct {
	fetcher PageFetcher
	logger  *slog.Logger

	mu          sync.Mutex
	records     []domain.Movie
	seen        map[int]struct{}
	cursor      int
	inFlight    bool
	err         error
	canLoadMore bool
	totalPages  int
	fromCache   bool
}

// NewPager creates a pager positioned at page 1
func NewPager(fetcher PageFetcher, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager{
		fetcher:     fetcher,
		logger:      logger,
		seen:        make(map[int]struct{}),
		cursor:      1,
		canLoadMore: true,
	}
}

// LoadNext fetches the page at the cursor and appends its new records.
// It is a no-op while another load is in flight.
func (p *Pager) LoadNext(ctx context.Context) {
	if page, ok := p.claim(nil); ok {
		p.load(ctx, page)
	}
}

// Refresh discards all records and reloads from page 1.
// It is a no-op while a load is in flight.
func (p *Pager) Refresh(ctx context.Context) {
	page, ok := p.claim(func() bool {
		p.cursor = 1
		p.records = nil
		p.seen = make(map[int]struct{})
		p.canLoadMore = true
		p.totalPages = 0
		p.fromCache = false
		return true
	})
	if ok {
		p.load(ctx, page)
	}
}

// MaybeLoadMore loads the next page when anchor is the last loaded record
func (p *Pager) MaybeLoadMore(ctx context.Context, anchor domain.Movie) {
	page, ok := p.claim(func() bool {
		return p.canLoadMore && len(p.records) > 0 &&
			p.records[len(p.records)-1].ID == anchor.ID
	})
	if ok {
		p.load(ctx, page)
	}
}

// claim sets inFlight and returns the page to load, provided no load is
// outstanding and pred (run under the lock, may be nil) agrees
func (p *Pager) claim(pred func() bool) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return 0, false
	}
	if pred != nil && !pred() {
		return 0, false
	}
	p.inFlight = true
	p.err = nil
	return p.cursor, true
}

// load runs the fetch for page; the caller has already claimed inFlight
func (p *Pager) load(ctx context.Context, page int) {
	result, err := p.fetcher.FetchPage(ctx, page)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { p.inFlight = false }()

	if err != nil {
		p.err = err
		p.logger.Error("failed to load page", "error", err, "page", page)
		return
	}

	added := 0
	for _, m := range result.Results {
		if _, dup := p.seen[m.ID]; dup {
			continue
		}
		p.seen[m.ID] = struct{}{}
		p.records = append(p.records, m)
		added++
	}
	p.cursor = page + 1
	p.fromCache = result.FromCache
	if result.TotalPages > 0 {
		p.totalPages = result.TotalPages
	}

	switch {
	case result.FromCache:
		// The cache hands back everything it has at once
		p.canLoadMore = false
	case len(result.Results) == 0:
		p.canLoadMore = false
	case p.totalPages > 0 && page >= p.totalPages:
		p.canLoadMore = false
	}

	p.logger.Debug("loaded page", "page", page, "count", added, "fromCache", result.FromCache)
}

// Records returns a copy of the loaded records
func (p *Pager) Records() []domain.Movie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.records)
}

func (p *Pager) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Err returns the error of the last load, nil if it succeeded
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Pager) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

func (p *Pager) CanLoadMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canLoadMore
}

// Snapshot returns all observable state at once
func (p *Pager) Snapshot() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PagerState{
		Records:     slices.Clone(p.records),
		Cursor:      p.cursor,
		InFlight:    p.inFlight,
		Err:         p.err,
		CanLoadMore: p.canLoadMore,
		TotalPages:  p.totalPages,
		FromCache:   p.fromCache,
	}
}
