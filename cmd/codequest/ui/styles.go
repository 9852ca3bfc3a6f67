// Package ui provides the visual styling for the codequest terminal.
// Colors come in a light and a dark palette; the theme follows the ui.theme
// setting or, on "auto", the terminal.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode
	LightForeground = lipgloss.Color("#1d2b1f") // Deep moss
	LightPrimary    = lipgloss.Color("#2e5e3a") // Forest green
	LightAccent     = lipgloss.Color("#b8860b") // Old gold
	LightMuted      = lipgloss.Color("#7a867c")
	LightBorder     = lipgloss.Color("#c9d1ca")
	LightCard       = lipgloss.Color("#fbfaf5") // Parchment

	// Dark mode
	DarkForeground = lipgloss.Color("#ece8dc")
	DarkPrimary    = lipgloss.Color("#e0b341") // Gold (flipped)
	DarkAccent     = lipgloss.Color("#6fbf73") // Leaf green
	DarkMuted      = lipgloss.Color("#6d7a70")
	DarkBorder     = lipgloss.Color("#34433a")
	DarkCard       = lipgloss.Color("#19221c")

	// Semantic colors, same in both modes
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Name       string
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
	// Plain disables colors entirely.
	Plain bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// PlainTheme renders without colors, for pipes and dumb terminals.
func PlainTheme() Theme {
	return Theme{Name: "notty", Plain: true}
}

// DetectTheme guesses the terminal background from COLORFGBG and falls back
// to the light theme. CODEQUEST_DARK_MODE=1 forces dark.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	if os.Getenv("CODEQUEST_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeNamed maps a ui.theme setting to a theme. Unknown names detect.
func ThemeNamed(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	case "notty":
		return PlainTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	CodeBlock lipgloss.Style
	Narrative lipgloss.Style
	Divider   lipgloss.Style
	Badge     lipgloss.Style
}

// NewStyles creates the styles for theme.
func NewStyles(theme Theme) Styles {
	if theme.Plain {
		plain := lipgloss.NewStyle()
		return Styles{
			Theme: theme, Header: plain, Footer: plain, Title: plain.Bold(true),
			Subtitle: plain, Body: plain, Muted: plain, Bold: plain.Bold(true),
			Success: plain, Error: plain, Warning: plain, Info: plain,
			CodeBlock: plain, Narrative: plain, Divider: plain, Badge: plain,
		}
	}
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		CodeBlock: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(theme.Foreground).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Narrative: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

// Banner returns the codequest title art.
func Banner(s Styles) string {
	banner := `
   ___         _        ___                 _
  / __|___  __| |___   / _ \ _  _ ___ ___ _| |_
 | (__/ _ \/ _' / -_) | (_) | || / -_|_-<|_   _|
  \___\___/\__,_\___|  \__\_\\_,_\___/__/  |_|
`
	return s.Title.Render(banner)
}

// NewRenderer builds a glamour renderer for the theme wrapping at width.
func NewRenderer(theme Theme, width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	style := glamour.WithStandardStyle(theme.Name)
	if theme.Name == "" {
		style = glamour.WithAutoStyle()
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
}

// RenderMarkdown renders md with r, falling back to the raw text when
// rendering fails.
func RenderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
