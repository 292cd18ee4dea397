package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
)

// Suggest returns up to limit movies whose titles are close to query.
// Unlike Filter it tolerates typos, so it is used for "did you mean"
// hints when Filter finds nothing.
func Suggest(query string, movies []domain.Movie, limit int) []domain.Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	type rankedMovie struct {
		movie domain.Movie
		score int
	}

	var ranked []rankedMovie
	for _, m := range movies {
		score := matchScore(strings.ToLower(m.Title), query)
		if score < 0 {
			continue
		}
		ranked = append(ranked, rankedMovie{movie: m, score: score})
	}

	// Sort by score (lower is better), then title for stable output
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].movie.Title < ranked[j].movie.Title
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	results := make([]domain.Movie, len(ranked))
	for i, r := range ranked {
		results[i] = r.movie
	}
	return results
}

// matchScore ranks title against query; lower is better, -1 is no match
func matchScore(title, query string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	}

	if rank := fuzzy.RankMatchFold(query, title); rank >= 0 {
		return 75 + rank
	}

	// Typo tolerance: compare against each word of the title
	best := -1
	for _, word := range strings.Fields(title) {
		d := fuzzy.LevenshteinDistance(query, word)
		if best < 0 || d < best {
			best = d
		}
	}
	if best >= 0 && best <= allowedTypos(len([]rune(query))) {
		return 100 + best*20
	}
	return -1
}

// allowedTypos returns the number of typos allowed based on word length
func allowedTypos(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return 2
	}
}
