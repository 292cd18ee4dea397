package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
)

// Command factories for async operations.
// A zero timeout means no deadline.

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// CachedMoviesCmd reads the cached list for the first paint
func CachedMoviesCmd(repo *catalog.Repository) tea.Cmd {
	return func() tea.Msg {
		movies, err := repo.CachedMovies()
		if err != nil {
			// The first network page reports anything that matters
			return nil
		}
		return CachedMoviesMsg{Movies: movies}
	}
}

// LoadNextCmd loads the page at the pager's cursor
func LoadNextCmd(pager *catalog.Pager, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		pager.LoadNext(ctx)
		return PageLoadedMsg{}
	}
}

// RefreshCmd reloads the list from page 1
func RefreshCmd(pager *catalog.Pager, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		pager.Refresh(ctx)
		return PageLoadedMsg{}
	}
}

// MaybeLoadMoreCmd loads the next page if anchor is the last loaded movie
func MaybeLoadMoreCmd(pager *catalog.Pager, anchor domain.Movie, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		pager.MaybeLoadMore(ctx, anchor)
		return PageLoadedMsg{}
	}
}

// LoadDetailCmd loads the movie detail held by loader
func LoadDetailCmd(loader *catalog.DetailLoader, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		loader.Load(ctx)
		return DetailLoadedMsg{ID: loader.ID()}
	}
}
