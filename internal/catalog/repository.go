// Package catalog combines the remote source and the local cache and holds
// the paging and detail state the UI renders from.
package catalog

import (
	"context"
	"log/slog"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/metrics"
)

// Repository serves catalog data network-first with a cache fallback.
// Successful remote results are written to the store before they are returned.
type Repository struct {
	remote domain.RemoteSource
	store  domain.Store
	logger *slog.Logger
}

// NewRepository creates a repository over a remote source and a store
func NewRepository(remote domain.RemoteSource, store domain.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{remote: remote, store: store, logger: logger}
}

// FetchPage returns page n of the popular list.
// On a remote failure the whole cached list is returned with FromCache set,
// and the remote error is dropped. If the cache is empty the remote error is
// returned unchanged.
func (r *Repository) FetchPage(ctx context.Context, page int) (domain.MoviePage, error) {
	result, err := r.remote.FetchPopular(ctx, page)
	if err == nil {
		if err := r.store.SaveMovies(result.Results); err != nil {
			r.logger.Error("failed to save movies", "error", err, "page", page, "count", len(result.Results))
			metrics.CacheWriteErrors.WithLabelValues("save_movies").Inc()
			metrics.RepositoryFetches.WithLabelValues("page", "error").Inc()
			return domain.MoviePage{}, err
		}
		result.FromCache = false
		metrics.RepositoryFetches.WithLabelValues("page", "network").Inc()
		r.logger.Debug("fetched page", "page", page, "count", len(result.Results), "totalPages", result.TotalPages)
		return result, nil
	}

	r.logger.Warn("remote page fetch failed, trying cache", "error", err, "page", page)

	cached, loadErr := r.store.LoadMovies()
	if loadErr != nil {
		r.logger.Error("failed to load cached movies", "error", loadErr)
		metrics.RepositoryFetches.WithLabelValues("page", "error").Inc()
		return domain.MoviePage{}, loadErr
	}
	if len(cached) == 0 {
		metrics.RepositoryFetches.WithLabelValues("page", "error").Inc()
		return domain.MoviePage{}, err
	}

	metrics.RepositoryFetches.WithLabelValues("page", "cache").Inc()
	r.logger.Info("serving cached movies", "page", page, "count", len(cached))
	return domain.MoviePage{
		Page:         page,
		Results:      cached,
		TotalResults: len(cached),
		FromCache:    true,
	}, nil
}

// FetchDetail returns the full record for movie id, falling back to the cached
// row on a remote failure. A cache miss returns the remote error.
func (r *Repository) FetchDetail(ctx context.Context, id int) (domain.MovieDetail, error) {
	detail, err := r.remote.FetchMovie(ctx, id)
	if err == nil {
		if err := r.store.UpsertDetail(detail); err != nil {
			r.logger.Error("failed to save detail", "error", err, "id", id)
			metrics.CacheWriteErrors.WithLabelValues("upsert_detail").Inc()
			metrics.RepositoryFetches.WithLabelValues("detail", "error").Inc()
			return domain.MovieDetail{}, err
		}
		metrics.RepositoryFetches.WithLabelValues("detail", "network").Inc()
		r.logger.Debug("fetched detail", "id", id)
		return detail, nil
	}

	r.logger.Warn("remote detail fetch failed, trying cache", "error", err, "id", id)

	cached, loadErr := r.store.LoadDetail(id)
	if loadErr != nil {
		r.logger.Error("failed to load cached detail", "error", loadErr, "id", id)
		metrics.RepositoryFetches.WithLabelValues("detail", "error").Inc()
		return domain.MovieDetail{}, loadErr
	}
	if cached == nil {
		metrics.RepositoryFetches.WithLabelValues("detail", "error").Inc()
		return domain.MovieDetail{}, err
	}

	metrics.RepositoryFetches.WithLabelValues("detail", "cache").Inc()
	r.logger.Info("serving cached detail", "id", id)
	return *cached, nil
}

// CachedMovies returns the cached list without touching the network
func (r *Repository) CachedMovies() ([]domain.Movie, error) {
	movies, err := r.store.LoadMovies()
	if err != nil {
		r.logger.Error("failed to load cached movies", "error", err)
		return nil, err
	}
	return movies, nil
}
