package domain

import (
	"context"
	"fmt"
)

// ResourceKind identifies which remote collection a descriptor points at
type ResourceKind int

const (
	ResourcePopular ResourceKind = iota
	ResourceMovie
)

// Resource describes one remote record: a popular-list page or a movie by ID
type Resource struct {
	Kind ResourceKind
	Page int // ResourcePopular only
	ID   int // ResourceMovie only
}

// PopularPage returns the descriptor for page n of the popular list
func PopularPage(n int) Resource { return Resource{Kind: ResourcePopular, Page: n} }

// MovieByID returns the descriptor for the detail of movie id
func MovieByID(id int) Resource { return Resource{Kind: ResourceMovie, ID: id} }

// Validate reports ErrInvalidRequest for descriptors that cannot address anything
func (r Resource) Validate() error {
	switch r.Kind {
	case ResourcePopular:
		if r.Page < 1 {
			return fmt.Errorf("%w: page %d", ErrInvalidRequest, r.Page)
		}
	case ResourceMovie:
		if r.ID < 1 {
			return fmt.Errorf("%w: movie id %d", ErrInvalidRequest, r.ID)
		}
	default:
		return fmt.Errorf("%w: unknown resource kind %d", ErrInvalidRequest, r.Kind)
	}
	return nil
}

func (r Resource) String() string {
	switch r.Kind {
	case ResourcePopular:
		return fmt.Sprintf("popular:%d", r.Page)
	case ResourceMovie:
		return fmt.Sprintf("movie:%d", r.ID)
	default:
		return "unknown"
	}
}

// RemoteSource fetches decoded catalog records over the network.
// Errors are one of ErrInvalidRequest, ErrNoResponseData, *StatusError,
// *DecodeError or *TransportError.
type RemoteSource interface {
	// FetchPopular returns one page of the popular list
	FetchPopular(ctx context.Context, page int) (MoviePage, error)

	// FetchMovie returns the full record for a movie
	FetchMovie(ctx context.Context, id int) (MovieDetail, error)
}
