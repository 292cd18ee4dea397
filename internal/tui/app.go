package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Screen identifies which view is active
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
)

// Vertical chrome: header line, footer line
const ChromeHeight = 2

// Options configures the model
type Options struct {
	RequestTimeout time.Duration // Deadline for each load, 0 = none
	Accent         string        // Accent colour, "" = default
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen Screen
	Ready  bool

	// Controllers
	Repo   *catalog.Repository
	Pager  *catalog.Pager
	Detail *catalog.DetailLoader // nil until a movie is opened

	// UI components
	spinner spinner.Model
	filter  textinput.Model

	// Dimensions
	Width  int
	Height int

	// List state
	Cursor      int
	Offset      int
	Filtering   bool           // Filter input has focus
	placeholder []domain.Movie // Cached list shown until the first page lands
	ShowHelp    bool

	timeout time.Duration
	logger  *slog.Logger
}

// NewModel creates a new application model
func NewModel(repo *catalog.Repository, pager *catalog.Pager, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	styles.SetAccent(opts.Accent)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.SpinnerStyle),
	)

	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = styles.FilterStyle
	ti.Placeholder = "filter titles"
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		Screen:  ScreenList,
		Repo:    repo,
		Pager:   pager,
		spinner: sp,
		filter:  ti,
		timeout: opts.RequestTimeout,
		logger:  logger,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		CachedMoviesCmd(m.Repo),
		LoadNextCmd(m.Pager, m.timeout),
		m.spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.filter.Width = msg.Width - 4
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CachedMoviesMsg:
		if len(m.Pager.Records()) == 0 {
			m.placeholder = msg.Movies
		}
		return m, nil

	case PageLoadedMsg:
		if len(m.Pager.Records()) > 0 {
			m.placeholder = nil
		}
		m.clampCursor()
		return m, nil

	case DetailLoadedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.Filtering {
		return m.handleFilterKey(msg)
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch m.Screen {
	case ScreenDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Cancel: drop the query
		m.Filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.Cursor, m.Offset = 0, 0
		return m, nil
	case tea.KeyEnter:
		// Accept: keep the query applied
		m.Filtering = false
		m.filter.Blur()
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.Cursor, m.Offset = 0, 0
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Up):
		return m.moveCursor(-1, rows)

	case key.Matches(msg, Keys.Down):
		return m.moveCursor(1, rows)

	case key.Matches(msg, Keys.PageUp):
		return m.moveCursor(-m.listHeight(), rows)

	case key.Matches(msg, Keys.PageDown):
		return m.moveCursor(m.listHeight(), rows)

	case key.Matches(msg, Keys.Home):
		return m.moveCursor(-len(rows), rows)

	case key.Matches(msg, Keys.End):
		return m.moveCursor(len(rows), rows)

	case key.Matches(msg, Keys.Filter):
		m.Filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, Keys.Back):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.Cursor, m.Offset = 0, 0
		}
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if m.Pager.InFlight() {
			return m, nil
		}
		m.filter.SetValue("")
		m.Cursor, m.Offset = 0, 0
		return m, RefreshCmd(m.Pager, m.timeout)

	case key.Matches(msg, Keys.Retry):
		if m.Pager.Err() != nil {
			return m, LoadNextCmd(m.Pager, m.timeout)
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if m.Cursor < len(rows) {
			return m.openDetail(rows[m.Cursor].Movie)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.Screen = ScreenList
		m.Detail = nil
		return m, nil

	case key.Matches(msg, Keys.Retry):
		if m.Detail != nil && m.Detail.Err() != nil {
			return m, LoadDetailCmd(m.Detail, m.timeout)
		}
	}
	return m, nil
}

func (m Model) openDetail(movie domain.Movie) (tea.Model, tea.Cmd) {
	m.Screen = ScreenDetail
	m.Detail = catalog.NewDetailLoader(m.Repo, movie.ID, m.logger)
	return m, LoadDetailCmd(m.Detail, m.timeout)
}

// moveCursor moves by delta and asks for more data when the cursor lands
// on the last row of the unfiltered list
func (m Model) moveCursor(delta int, rows []search.Result) (tea.Model, tea.Cmd) {
	if len(rows) == 0 {
		return m, nil
	}
	m.Cursor += delta
	m.clampCursorTo(len(rows))

	if m.filter.Value() == "" && m.Cursor == len(rows)-1 {
		anchor := rows[m.Cursor].Movie
		return m, MaybeLoadMoreCmd(m.Pager, anchor, m.timeout)
	}
	return m, nil
}

// rows returns the movies to display, filtered when a query is set
func (m Model) rows() []search.Result {
	movies := m.Pager.Records()
	if len(movies) == 0 {
		movies = m.placeholder
	}
	return search.Filter(m.filter.Value(), movies)
}

func (m Model) listHeight() int {
	h := m.Height - ChromeHeight
	if m.Filtering || m.filter.Value() != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) clampCursor() {
	m.clampCursorTo(len(m.rows()))
}

func (m *Model) clampCursorTo(n int) {
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	h := m.listHeight()
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+h {
		m.Offset = m.Cursor - h + 1
	}
	if m.Offset < 0 {
		m.Offset = 0
	}
}
