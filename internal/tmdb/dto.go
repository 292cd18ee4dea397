package tmdb

// popularResponse is the body of GET /movie/popular
type popularResponse struct {
	Page         int        `json:"page"`
	Results      []movieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// movieDTO is a list entry. Nullable strings decode to "".
type movieDTO struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
}

// detailDTO is the body of GET /movie/{id}
type detailDTO struct {
	movieDTO
	Runtime *int       `json:"runtime"`
	Tagline string     `json:"tagline"`
	Genres  []genreDTO `json:"genres"`
}

type genreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
