package tui

import "github.com/mmcdole/marquee/internal/domain"

// Message types for the TUI.
// Loaded state lives in the pager and detail loader; these only announce
// that a load finished so the view re-reads it.

// CachedMoviesMsg carries the cached list shown before the first page arrives
type CachedMoviesMsg struct {
	Movies []domain.Movie
}

// PageLoadedMsg signals that a pager load (next page or refresh) finished
type PageLoadedMsg struct{}

// DetailLoadedMsg signals that the detail load for ID finished
type DetailLoadedMsg struct {
	ID int
}
