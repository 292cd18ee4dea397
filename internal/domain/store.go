package domain

// Store is the durable local cache.
// Each call is atomic on its own; callers serialize writes to the same key.
type Store interface {
	// === Movie list ===

	// SaveMovies writes list rows keyed by movie ID (a re-save replaces the row)
	SaveMovies(movies []Movie) error

	// LoadMovies returns every cached movie ordered by VoteAverage descending
	LoadMovies() ([]Movie, error)

	// === Details ===

	// UpsertDetail inserts the detail row or updates it in place
	UpsertDetail(detail MovieDetail) error

	// LoadDetail returns the cached detail, or nil if there is none
	LoadDetail(id int) (*MovieDetail, error)

	// === Lifecycle ===
	Clear() error
	Close() error
}
