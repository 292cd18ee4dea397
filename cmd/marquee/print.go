package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

const titleColumn = 48

// catalogReader is the part of the repository print mode needs
type catalogReader interface {
	FetchPage(ctx context.Context, page int) (domain.MoviePage, error)
	FetchDetail(ctx context.Context, id int) (domain.MovieDetail, error)
}

// printPage writes one page of popular movies as plain text
func printPage(w io.Writer, repo catalogReader, page int, timeout time.Duration) error {
	ctx, cancel := requestContext(timeout)
	defer cancel()

	result, err := repo.FetchPage(ctx, page)
	if err != nil {
		return fmt.Errorf("fetch page %d: %w", page, err)
	}

	if result.FromCache {
		fmt.Fprintf(w, "# offline: %d cached movies\n", len(result.Results))
	} else if result.TotalPages > 0 {
		fmt.Fprintf(w, "# page %d of %d\n", result.Page, result.TotalPages)
	}

	for _, m := range result.Results {
		year := m.ReleaseYear()
		if year == "" {
			year = "----"
		}
		fmt.Fprintf(w, "%8d  %s  %s  %s\n",
			m.ID,
			styles.Pad(styles.Truncate(m.Title, titleColumn), titleColumn),
			year,
			m.FormattedRating(),
		)
	}
	return nil
}

// printMovie writes the details of one movie as plain text
func printMovie(w io.Writer, repo catalogReader, id int, timeout time.Duration) error {
	ctx, cancel := requestContext(timeout)
	defer cancel()

	d, err := repo.FetchDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch movie %d: %w", id, err)
	}

	fmt.Fprintln(w, d.Title)
	if d.Tagline != "" {
		fmt.Fprintln(w, d.Tagline)
	}

	meta := []string{}
	if y := d.ReleaseYear(); y != "" {
		meta = append(meta, y)
	}
	if rt := d.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	meta = append(meta, fmt.Sprintf("%s (%d votes)", d.FormattedRating(), d.VoteCount))
	fmt.Fprintln(w, strings.Join(meta, " · "))

	if genres := d.GenreNames(); genres != "" {
		fmt.Fprintln(w, genres)
	}
	if d.Overview != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, d.Overview)
	}
	if u := d.BackdropURL(); u != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backdrop:", u)
	}
	return nil
}
