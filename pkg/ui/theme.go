package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background instead of a down-converted approximation.
func ThemeBg(c string) lipgloss.TerminalColor {
	if c == "" || TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c)
}

// ThemeFg returns the given color for ANSI256+ terminals. Hex colors fall
// back to ANSI white on 16-color terminals; ANSI indexes pass through.
func ThemeFg(c string) lipgloss.TerminalColor {
	if c == "" {
		return lipgloss.NoColor{}
	}
	if TermProfile < colorprofile.ANSI256 && len(c) > 0 && c[0] == '#' {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(c)
}

// Palette is the raw color set of a theme. Values are "#rrggbb" hex or ANSI
// indexes ("0"-"15"); an empty Bg means the terminal default.
type Palette struct {
	Name          string
	Bg            string
	Fg            string
	Muted         string
	Accent        string
	Border        string
	FocusedBorder string
	SelectionBg   string
	SelectionFg   string

	StatusOpen       string
	StatusInProgress string
	StatusBlocked    string
	StatusClosed     string

	PriorityCritical string
	PriorityHigh     string
	PriorityMedium   string
	PriorityLow      string
}

// Palettes lists the available themes in cycle order. The first is the
// default.
var Palettes = []Palette{
	{
		// Neutral, terminal colors, green focus border.
		Name:             "Lazygit",
		Fg:               "15",
		Muted:            "7",
		Accent:           "6",
		Border:           "8",
		FocusedBorder:    "2",
		SelectionBg:      "8",
		SelectionFg:      "14",
		StatusOpen:       "15",
		StatusInProgress: "6",
		StatusBlocked:    "1",
		StatusClosed:     "2",
		PriorityCritical: "1",
		PriorityHigh:     "3",
		PriorityMedium:   "15",
		PriorityLow:      "7",
	},
	{
		Name:             "Tokyo Night",
		Bg:               "#1a1b26",
		Fg:               "#a9b1d6",
		Muted:            "#565f89",
		Accent:           "#7aa2f7",
		Border:           "#3b4261",
		FocusedBorder:    "#9ece6a",
		SelectionBg:      "#292e42",
		SelectionFg:      "#c0caf5",
		StatusOpen:       "#a9b1d6",
		StatusInProgress: "#7dcfff",
		StatusBlocked:    "#f7768e",
		StatusClosed:     "#9ece6a",
		PriorityCritical: "#f7768e",
		PriorityHigh:     "#ff9e64",
		PriorityMedium:   "#e0af68",
		PriorityLow:      "#9ece6a",
	},
	{
		Name:             "Dracula",
		Bg:               "#282a36",
		Fg:               "#f8f8f2",
		Muted:            "#6272a4",
		Accent:           "#bd93f9",
		Border:           "#44475a",
		FocusedBorder:    "#50fa7b",
		SelectionBg:      "#44475a",
		SelectionFg:      "#f8f8f2",
		StatusOpen:       "#f8f8f2",
		StatusInProgress: "#8be9fd",
		StatusBlocked:    "#ff5555",
		StatusClosed:     "#50fa7b",
		PriorityCritical: "#ff5555",
		PriorityHigh:     "#ffb86c",
		PriorityMedium:   "#f1fa8c",
		PriorityLow:      "#50fa7b",
	},
	{
		Name:             "Nord",
		Bg:               "#2e3440",
		Fg:               "#d8dee9",
		Muted:            "#4c566a",
		Accent:           "#88c0d0",
		Border:           "#3b4252",
		FocusedBorder:    "#a3be8c",
		SelectionBg:      "#434c5e",
		SelectionFg:      "#eceff4",
		StatusOpen:       "#d8dee9",
		StatusInProgress: "#88c0d0",
		StatusBlocked:    "#bf616a",
		StatusClosed:     "#a3be8c",
		PriorityCritical: "#bf616a",
		PriorityHigh:     "#d08770",
		PriorityMedium:   "#ebcb8b",
		PriorityLow:      "#a3be8c",
	},
}

// PaletteIndex returns the index of the named palette, or 0 when unknown.
func PaletteIndex(name string) int {
	for i, p := range Palettes {
		if p.Name == name {
			return i
		}
	}
	return 0
}

// Theme holds the styles derived from a Palette. Styles are built once per
// theme switch instead of per frame.
type Theme struct {
	Renderer *lipgloss.Renderer
	Palette  Palette

	Base          lipgloss.Style
	Muted         lipgloss.Style
	Accent        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Pane          lipgloss.Style
	FocusedPane   lipgloss.Style
	Footer        lipgloss.Style
	FooterKey     lipgloss.Style
	StatusError   lipgloss.Style
	Cursor        lipgloss.Style
	Modal         lipgloss.Style
	ModalTitle    lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldFocused  lipgloss.Style
	SectionHeader lipgloss.Style
}

// NewTheme builds the styles for p.
func NewTheme(r *lipgloss.Renderer, p Palette) Theme {
	t := Theme{Renderer: r, Palette: p}

	fg := ThemeFg(p.Fg)
	bg := ThemeBg(p.Bg)

	t.Base = r.NewStyle().Foreground(fg)
	t.Muted = r.NewStyle().Foreground(ThemeFg(p.Muted))
	t.Accent = r.NewStyle().Foreground(ThemeFg(p.Accent))
	t.Bold = r.NewStyle().Foreground(fg).Bold(true)

	t.Selected = r.NewStyle().
		Background(lipgloss.Color(p.SelectionBg)).
		Foreground(ThemeFg(p.SelectionFg)).
		Bold(true)

	t.Pane = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ThemeFg(p.Border)).
		Background(bg)
	t.FocusedPane = t.Pane.BorderForeground(ThemeFg(p.FocusedBorder))

	t.Footer = r.NewStyle().Foreground(ThemeFg(p.Muted))
	t.FooterKey = r.NewStyle().Foreground(ThemeFg(p.Accent)).Bold(true)
	t.StatusError = r.NewStyle().Foreground(ThemeFg(p.StatusBlocked)).Bold(true)
	t.Cursor = r.NewStyle().Reverse(true)

	t.Modal = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ThemeFg(p.FocusedBorder)).
		Padding(0, 1)
	t.ModalTitle = r.NewStyle().Foreground(ThemeFg(p.Accent)).Bold(true)
	t.FieldLabel = r.NewStyle().Foreground(ThemeFg(p.Muted))
	t.FieldFocused = r.NewStyle().Foreground(ThemeFg(p.FocusedBorder)).Bold(true)
	t.SectionHeader = r.NewStyle().Foreground(ThemeFg(p.Accent)).Bold(true)

	return t
}

// DefaultTheme returns the first palette's theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return NewTheme(r, Palettes[0])
}

// StatusColor returns the foreground for a status.
func (t Theme) StatusColor(s model.Status) lipgloss.TerminalColor {
	switch s {
	case model.StatusInProgress:
		return ThemeFg(t.Palette.StatusInProgress)
	case model.StatusBlocked:
		return ThemeFg(t.Palette.StatusBlocked)
	case model.StatusClosed:
		return ThemeFg(t.Palette.StatusClosed)
	default:
		return ThemeFg(t.Palette.StatusOpen)
	}
}

// PriorityColor returns the foreground for a priority: P0 critical, P1 high,
// P2 medium, P3 and above low.
func (t Theme) PriorityColor(p int) lipgloss.TerminalColor {
	switch {
	case p <= 0:
		return ThemeFg(t.Palette.PriorityCritical)
	case p == 1:
		return ThemeFg(t.Palette.PriorityHigh)
	case p == 2:
		return ThemeFg(t.Palette.PriorityMedium)
	default:
		return ThemeFg(t.Palette.PriorityLow)
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
