package search

import (
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalog = []domain.Movie{
	{ID: 1, Title: "The Godfather"},
	{ID: 2, Title: "The Dark Knight"},
	{ID: 3, Title: "Godzilla"},
	{ID: 4, Title: "Pulp Fiction"},
	{ID: 5, Title: "Fight Club"},
}

func titles(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Movie.Title
	}
	return out
}

func TestFilter_EmptyQueryKeepsOrder(t *testing.T) {
	results := Filter("  ", catalog)
	require.Len(t, results, len(catalog))
	assert.Equal(t, "The Godfather", results[0].Movie.Title)
	assert.Empty(t, results[0].MatchedIndexes)
}

func TestFilter_MatchesCaseInsensitively(t *testing.T) {
	results := Filter("GOD", catalog)

	assert.ElementsMatch(t, []string{"The Godfather", "Godzilla"}, titles(results))
	for _, r := range results {
		assert.Len(t, r.MatchedIndexes, 3)
	}
}

func TestFilter_RanksTighterMatchesFirst(t *testing.T) {
	results := Filter("godz", catalog)
	require.NotEmpty(t, results)
	assert.Equal(t, "Godzilla", results[0].Movie.Title)
	assert.Equal(t, []int{0, 1, 2, 3}, results[0].MatchedIndexes)
}

func TestFilter_NoMatch(t *testing.T) {
	assert.Empty(t, Filter("zzz", catalog))
}

func TestTitleIndex_Source(t *testing.T) {
	idx := NewTitleIndex(catalog)
	assert.Equal(t, 5, idx.Len())
	assert.Equal(t, "pulp fiction", idx.String(3))
}

func TestSuggest_Ranking(t *testing.T) {
	got := Suggest("fight club", catalog, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, 5, got[0].ID, "exact match first")

	got = Suggest("the", catalog, 5)
	require.Len(t, got, 2)
	assert.Equal(t, []int{2, 1}, []int{got[0].ID, got[1].ID}, "equal scores order by title")
}

func TestSuggest_ToleratesTypos(t *testing.T) {
	got := Suggest("fictoin", catalog, 3)
	require.Len(t, got, 1)
	assert.Equal(t, "Pulp Fiction", got[0].Title)

	assert.Empty(t, Suggest("xyz", catalog, 3), "short queries get no typo allowance")
}

func TestSuggest_Limit(t *testing.T) {
	assert.Len(t, Suggest("o", catalog, 2), 2)
	assert.Nil(t, Suggest("god", catalog, 0))
	assert.Nil(t, Suggest("", catalog, 3))
}

func TestAllowedTypos(t *testing.T) {
	assert.Equal(t, 0, allowedTypos(3))
	assert.Equal(t, 1, allowedTypos(4))
	assert.Equal(t, 1, allowedTypos(6))
	assert.Equal(t, 2, allowedTypos(7))
}
