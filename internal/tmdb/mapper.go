package tmdb

import "github.com/mmcdole/marquee/internal/domain"

// MapMovie converts a TMDB list entry to a domain Movie
func MapMovie(m movieDTO) domain.Movie {
	return domain.Movie{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		VoteCount:    m.VoteCount,
	}
}

// MapMovies converts a slice of TMDB list entries
func MapMovies(items []movieDTO) []domain.Movie {
	movies := make([]domain.Movie, len(items))
	for i, m := range items {
		movies[i] = MapMovie(m)
	}
	return movies
}

// MapPage converts a popular-list response
func MapPage(resp popularResponse) domain.MoviePage {
	return domain.MoviePage{
		Page:         resp.Page,
		Results:      MapMovies(resp.Results),
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
}

// MapDetail converts a TMDB movie detail
func MapDetail(d detailDTO) domain.MovieDetail {
	detail := domain.MovieDetail{
		ID:           d.ID,
		Title:        d.Title,
		Overview:     d.Overview,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		ReleaseDate:  d.ReleaseDate,
		VoteAverage:  d.VoteAverage,
		VoteCount:    d.VoteCount,
		Tagline:      d.Tagline,
		Genres:       make([]domain.Genre, len(d.Genres)),
	}
	if d.Runtime != nil {
		detail.Runtime = domain.IntPtr(*d.Runtime)
	}
	for i, g := range d.Genres {
		detail.Genres[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return detail
}
