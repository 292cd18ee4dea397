package store

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// genreSeparator joins genre names in the persisted detail row
const genreSeparator = ", "

// movieRow is the persisted shape of a list entry
type movieRow struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
}

// detailRow is the persisted shape of a detail record.
// Runtime 0 means unknown. Genres keeps names only, so genre IDs do not survive a round trip.
// GenreCount tells an empty list apart from a single unnamed genre.
type detailRow struct {
	movieRow
	Runtime    int64  `json:"runtime"`
	Tagline    string `json:"tagline,omitempty"`
	Genres     string `json:"genres"`
	GenreCount int64  `json:"genre_count"`
}

func toMovieRow(m domain.Movie) movieRow {
	return movieRow{
		ID:           int64(m.ID),
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		VoteCount:    int64(m.VoteCount),
	}
}

func (r movieRow) toMovie() domain.Movie {
	return domain.Movie{
		ID:           int(r.ID),
		Title:        r.Title,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		ReleaseDate:  r.ReleaseDate,
		VoteAverage:  r.VoteAverage,
		VoteCount:    int(r.VoteCount),
	}
}

func toDetailRow(d domain.MovieDetail) detailRow {
	row := detailRow{
		movieRow: toMovieRow(d.Summary()),
		Tagline:  d.Tagline,
	}
	if d.Runtime != nil {
		row.Runtime = int64(*d.Runtime)
	}
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	row.Genres = strings.Join(names, genreSeparator)
	row.GenreCount = int64(len(names))
	return row
}

func (r detailRow) toDetail() domain.MovieDetail {
	m := r.movieRow.toMovie()
	d := domain.MovieDetail{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		VoteCount:    m.VoteCount,
		Tagline:      r.Tagline,
		Genres:       []domain.Genre{},
	}
	if r.Runtime > 0 {
		d.Runtime = domain.IntPtr(int(r.Runtime))
	}
	// Rows written without a count only know "" as empty
	if r.GenreCount > 0 || r.Genres != "" {
		// Genre identity is the position in the stored name list
		for i, name := range strings.Split(r.Genres, genreSeparator) {
			d.Genres = append(d.Genres, domain.Genre{ID: i, Name: name})
		}
	}
	return d
}

// sortByRating orders movies by rating descending.
// Ties fall back to vote count descending, then ID ascending.
func sortByRating(movies []domain.Movie) {
	slices.SortStableFunc(movies, func(a, b domain.Movie) int {
		if c := cmp.Compare(b.VoteAverage, a.VoteAverage); c != 0 {
			return c
		}
		if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func idKey(id int) []byte {
	return []byte(strconv.Itoa(id))
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.StoreError{Op: op, Err: err}
}
