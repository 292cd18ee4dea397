package domain

import (
	"fmt"
	"strings"
)

// Image host and size tokens used to build absolute artwork URLs
const (
	ImageBaseURL = "https://image.tmdb.org/t/p/"
	PosterSize   = "w500"
	BackdropSize = "original"
)

// ImageURL joins the image host, a size token and a relative path.
// Returns "" when the path is absent.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + size + path
}

// Movie is a list-item summary of a catalog record
type Movie struct {
	ID           int     // Stable catalog identifier
	Title        string  // Display title
	Overview     string  // Plot synopsis
	PosterPath   string  // Relative poster path ("" if absent)
	BackdropPath string  // Relative backdrop path ("" if absent)
	ReleaseDate  string  // ISO-8601-like date ("" if absent, may be malformed)
	VoteAverage  float64 // Community rating (0-10 scale)
	VoteCount    int     // Number of votes
}

// PosterURL returns the absolute poster URL, or "" if there is no poster
func (m Movie) PosterURL() string {
	return ImageURL(m.PosterPath, PosterSize)
}

// BackdropURL returns the absolute backdrop URL, or "" if there is no backdrop
func (m Movie) BackdropURL() string {
	return ImageURL(m.BackdropPath, BackdropSize)
}

// FormattedRating returns the rating with one decimal place
func (m Movie) FormattedRating() string {
	return formatRating(m.VoteAverage)
}

// ReleaseYear returns the four-digit year prefix of ReleaseDate.
// Returns "" when the date is absent or too short.
func (m Movie) ReleaseYear() string {
	return releaseYear(m.ReleaseDate)
}

// Genre is a named genre tag
type Genre struct {
	ID   int
	Name string
}

// MovieDetail is the full record for a single movie
type MovieDetail struct {
	ID           int
	Title        string
	Overview     string
	PosterPath   string
	BackdropPath string
	ReleaseDate  string
	VoteAverage  float64
	VoteCount    int

	Runtime *int    // Minutes (nil if unknown)
	Tagline string  // "" if absent
	Genres  []Genre // Ordered as returned by the source
}

// Summary returns the list-item view of the detail record
func (d MovieDetail) Summary() Movie {
	return Movie{
		ID:           d.ID,
		Title:        d.Title,
		Overview:     d.Overview,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		ReleaseDate:  d.ReleaseDate,
		VoteAverage:  d.VoteAverage,
		VoteCount:    d.VoteCount,
	}
}

// FormattedRuntime returns the runtime as "Hh Mm", or "" if unknown
func (d MovieDetail) FormattedRuntime() string {
	if d.Runtime == nil {
		return ""
	}
	return fmt.Sprintf("%dh %dm", *d.Runtime/60, *d.Runtime%60)
}

func (d MovieDetail) FormattedRating() string { return formatRating(d.VoteAverage) }
func (d MovieDetail) ReleaseYear() string     { return releaseYear(d.ReleaseDate) }
func (d MovieDetail) PosterURL() string       { return ImageURL(d.PosterPath, PosterSize) }
func (d MovieDetail) BackdropURL() string     { return ImageURL(d.BackdropPath, BackdropSize) }

// GenreNames returns the genre names joined for display
func (d MovieDetail) GenreNames() string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// MoviePage is one page of the popular list
type MoviePage struct {
	Page         int
	Results      []Movie
	TotalPages   int  // 0 when unknown
	TotalResults int  // 0 when unknown
	FromCache    bool // Served from the local cache instead of the network
}

// IsLast reports whether the source says there are no pages after this one
func (p MoviePage) IsLast() bool {
	return p.TotalPages > 0 && p.Page >= p.TotalPages
}

func formatRating(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func releaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
