package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Accent     = lipgloss.Color("#01B4E4")
	Navy       = lipgloss.Color("#0D253F")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#90CEA1")
	Yellow     = lipgloss.Color("#F5C518")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	DimStyle      lipgloss.Style
	AccentStyle   lipgloss.Style
	ErrorStyle    lipgloss.Style
	RatingStyle   lipgloss.Style
	BadgeStyle    lipgloss.Style
	ErrorBanner   lipgloss.Style
	SpinnerStyle  lipgloss.Style
	FilterStyle   lipgloss.Style
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
	HeaderStyle   lipgloss.Style
	DetailStyle   lipgloss.Style
	MatchStyle    lipgloss.Style
	SelectedMatch lipgloss.Style
	SelectedRow   lipgloss.Style
	NormalRow     lipgloss.Style
)

func init() {
	build()
}

// SetAccent replaces the accent colour. Empty keeps the default.
func SetAccent(hex string) {
	if hex == "" {
		return
	}
	Accent = lipgloss.Color(hex)
	build()
}

func build() {
	TitleStyle = lipgloss.NewStyle().Foreground(White).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(LightGray).Italic(true)
	DimStyle = lipgloss.NewStyle().Foreground(DimGray)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(Red)
	RatingStyle = lipgloss.NewStyle().Foreground(Yellow)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(Navy).
		Background(Green).
		Padding(0, 1)

	ErrorBanner = lipgloss.NewStyle().
		Foreground(White).
		Background(Red).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)

	FilterStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(DimGray)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(Navy).
		Bold(true).
		Padding(0, 1)

	DetailStyle = lipgloss.NewStyle().Padding(1, 2)

	MatchStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SelectedMatch = lipgloss.NewStyle().Foreground(Accent).Background(SlateLight).Bold(true)

	SelectedRow = lipgloss.NewStyle().Foreground(White).Background(SlateLight)
	NormalRow = lipgloss.NewStyle().Foreground(LightGray)
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a string with spaces to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Highlight renders text with the characters starting at the byte offsets
// in matchedIndexes emphasised
func Highlight(text string, matchedIndexes []int, selected bool) string {
	base, match := NormalRow, MatchStyle
	if selected {
		base, match = SelectedRow, SelectedMatch
	}
	if len(matchedIndexes) == 0 {
		return base.Render(text)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder
	for i, r := range text {
		if matchSet[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
