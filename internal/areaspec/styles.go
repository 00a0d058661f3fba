package areaspec

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by Highlight.
type Styles struct {
	Selector    lipgloss.Style // "*", "1920x1080"
	Field       lipgloss.Style // x, y, width, height
	Number      lipgloss.Style // integer and decimal values
	Unit        lipgloss.Style // px, %
	Punctuation lipgloss.Style // { } : ;
	Error       lipgloss.Style // unknown characters and misplaced identifiers
}

// Palette names the colors of each style as hex strings.
type Palette struct {
	Selector    string
	Field       string
	Number      string
	Unit        string
	Punctuation string
	Error       string
}

// DefaultPalette returns the built-in highlight colors.
func DefaultPalette() Palette {
	return Palette{
		Selector:    "#C084FC",
		Field:       "#60A5FA",
		Number:      "#FBBF24",
		Unit:        "#34D399",
		Punctuation: "#9CA3AF",
		Error:       "#F87171",
	}
}

// NewStyles builds highlight styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Selector: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Selector)).
			Bold(true),
		Field: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Field)),
		Number: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Number)),
		Unit: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Unit)),
		Punctuation: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Punctuation)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)).
			Underline(true),
	}
}

var (
	stylesMu      sync.RWMutex
	currentStyles = NewStyles(DefaultPalette())
)

// SetStyles replaces the styles used by Highlight.
func SetStyles(s Styles) {
	stylesMu.Lock()
	defer stylesMu.Unlock()
	currentStyles = s
}

func activeStyles() Styles {
	stylesMu.RLock()
	defer stylesMu.RUnlock()
	return currentStyles
}
