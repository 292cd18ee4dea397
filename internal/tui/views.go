package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

const suggestionLimit = 3

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	state := m.Pager.Snapshot()

	var body string
	switch m.Screen {
	case ScreenDetail:
		body = m.renderDetail()
	default:
		body = m.renderList(state)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(state),
		lipgloss.NewStyle().Height(m.Height-ChromeHeight).MaxHeight(m.Height-ChromeHeight).Render(body),
		m.renderFooter(state),
	)
}

func (m Model) renderHeader(state catalog.PagerState) string {
	title := "Marquee · Popular movies"
	if m.Screen == ScreenDetail {
		title = "Marquee · Details"
	}

	var info []string
	if n := len(state.Records); n > 0 {
		info = append(info, fmt.Sprintf("%d loaded", n))
	}
	if state.TotalPages > 0 {
		info = append(info, fmt.Sprintf("page %d/%d", state.Cursor-1, state.TotalPages))
	}
	right := styles.DimStyle.Render(strings.Join(info, " · "))
	if state.FromCache {
		right = styles.BadgeStyle.Render("offline") + " " + right
	}

	left := styles.HeaderStyle.Render(title)
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderList(state catalog.PagerState) string {
	var b strings.Builder

	if m.Filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(m.renderEmptyList(state))
		return b.String()
	}

	end := m.Offset + m.listHeight()
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.renderRow(rows[i], i == m.Cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderEmptyList(state catalog.PagerState) string {
	query := m.filter.Value()
	switch {
	case query != "":
		msg := styles.DimStyle.Render(fmt.Sprintf("No titles match %q", query))
		if hints := search.Suggest(query, state.Records, suggestionLimit); len(hints) > 0 {
			names := make([]string, len(hints))
			for i, h := range hints {
				names[i] = h.Title
			}
			msg += "\n" + styles.DimStyle.Render("Did you mean: ") + styles.AccentStyle.Render(strings.Join(names, ", "))
		}
		return msg
	case state.InFlight:
		return styles.DimStyle.Render("Loading movies...")
	case state.Err != nil:
		return styles.DimStyle.Render("Nothing to show yet.")
	default:
		return styles.DimStyle.Render("No movies.")
	}
}

// renderRow renders one list line: title, year, rating
func (m Model) renderRow(row search.Result, selected bool) string {
	movie := row.Movie

	rating := "★ " + movie.FormattedRating()
	year := movie.ReleaseYear()
	if year == "" {
		year = "----"
	}

	// Two spaces of margin, year and rating columns on the right
	titleWidth := m.Width - 2 - len(year) - 2 - lipgloss.Width(rating) - 2
	if titleWidth < 10 {
		titleWidth = 10
	}

	title := styles.Truncate(movie.Title, titleWidth)
	indexes := row.MatchedIndexes
	if len(title) != len(movie.Title) {
		indexes = nil
	}

	base, ratingStyle := styles.NormalRow, styles.RatingStyle
	if selected {
		base = styles.SelectedRow
		ratingStyle = ratingStyle.Background(styles.SlateLight)
	}

	pad := titleWidth - lipgloss.Width(title)
	if pad < 0 {
		pad = 0
	}

	return base.Render(" ") +
		styles.Highlight(title, indexes, selected) +
		base.Render(strings.Repeat(" ", pad)+"  "+year+"  ") +
		ratingStyle.Render(rating) +
		base.Render(" ")
}

func (m Model) renderDetail() string {
	if m.Detail == nil {
		return ""
	}

	detail := m.Detail.Detail()
	if detail == nil {
		if m.Detail.InFlight() {
			return styles.DetailStyle.Render(m.spinner.View() + " " + styles.DimStyle.Render("Loading details..."))
		}
		if err := m.Detail.Err(); err != nil {
			return styles.DetailStyle.Render(styles.ErrorStyle.Render(domain.Describe(err)))
		}
		return ""
	}

	width := m.Width - 4
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(detail.Title))
	b.WriteString("\n")
	if detail.Tagline != "" {
		b.WriteString(styles.SubtitleStyle.Render(detail.Tagline))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var meta []string
	if y := detail.ReleaseYear(); y != "" {
		meta = append(meta, y)
	}
	if rt := detail.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	meta = append(meta, styles.RatingStyle.Render("★ "+detail.FormattedRating())+
		styles.DimStyle.Render(fmt.Sprintf(" (%d votes)", detail.VoteCount)))
	b.WriteString(strings.Join(meta, styles.DimStyle.Render(" · ")))
	b.WriteString("\n")

	if genres := detail.GenreNames(); genres != "" {
		b.WriteString(styles.AccentStyle.Render(genres))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if detail.Overview != "" {
		b.WriteString(wordWrap(detail.Overview, width))
		b.WriteString("\n\n")
	}

	if u := detail.BackdropURL(); u != "" {
		b.WriteString(styles.DimStyle.Render("Backdrop: " + u))
		b.WriteString("\n")
	}
	if u := detail.PosterURL(); u != "" {
		b.WriteString(styles.DimStyle.Render("Poster:   " + u))
		b.WriteString("\n")
	}

	if err := m.Detail.Err(); err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(domain.Describe(err)))
	}

	return styles.DetailStyle.Render(b.String())
}

// renderFooter renders the status line: spinner, error banner or key hints
func (m Model) renderFooter(state catalog.PagerState) string {
	loading := state.InFlight
	var err error
	if m.Screen == ScreenDetail && m.Detail != nil {
		loading = m.Detail.InFlight()
		err = m.Detail.Err()
	} else {
		err = state.Err
	}

	var left string
	switch {
	case loading:
		left = m.spinner.View() + " " + styles.DimStyle.Render("Loading...")
	case err != nil:
		left = styles.ErrorBanner.Render(domain.Describe(err)) + " " +
			styles.HelpKeyStyle.Render(Keys.Retry.Help().Key) + styles.HelpDescStyle.Render(" to retry")
	}

	var hints []key.Binding
	if m.Screen == ScreenDetail {
		hints = []key.Binding{Keys.Back, Keys.Quit}
	} else {
		hints = []key.Binding{Keys.Enter, Keys.Filter, Keys.Refresh, Keys.Help}
	}
	right := renderHints(hints)

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func renderHints(bindings []key.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = styles.HelpKeyStyle.Render(h.Key) + " " + styles.HelpDescStyle.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	bindings := []key.Binding{
		Keys.Up, Keys.Down, Keys.PageUp, Keys.PageDown, Keys.Home, Keys.End,
		Keys.Enter, Keys.Back, Keys.Filter, Keys.Retry, Keys.Refresh, Keys.Quit,
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, binding := range bindings {
		h := binding.Help()
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(h.Key, 8)))
		b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Press any key to close"))

	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, b.String())
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen > 0 && lineLen+wordLen+1 > width {
			result.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
