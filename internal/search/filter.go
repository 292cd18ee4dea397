// Package search filters and ranks loaded movies by title.
package search

import (
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Result is a filtered movie with match metadata for highlighting
type Result struct {
	Movie          domain.Movie
	MatchedIndexes []int // Character positions in the title that matched
	Score          int   // Higher is better
}

// TitleIndex implements sahilm/fuzzy.Source over movie titles
type TitleIndex struct {
	movies      []domain.Movie
	lowerTitles []string // Pre-computed lowercase titles
}

// NewTitleIndex builds an index over movies
func NewTitleIndex(movies []domain.Movie) *TitleIndex {
	lower := make([]string, len(movies))
	for i, m := range movies {
		lower[i] = strings.ToLower(m.Title)
	}
	return &TitleIndex{movies: movies, lowerTitles: lower}
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *TitleIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of movies (implements fuzzy.Source)
func (idx *TitleIndex) Len() int { return len(idx.movies) }

// Filter returns the movies whose titles fuzzy-match query, best first.
// An empty query returns every movie in its original order.
func (idx *TitleIndex) Filter(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		results := make([]Result, len(idx.movies))
		for i, m := range idx.movies {
			results[i] = Result{Movie: m}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Movie:          idx.movies[match.Index],
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		}
	}
	return results
}

// Filter is a one-shot TitleIndex filter
func Filter(query string, movies []domain.Movie) []Result {
	return NewTitleIndex(movies).Filter(query)
}
