// Package docs renders the built-in reference pages.
package docs

import (
	_ "embed"

	"github.com/charmbracelet/glamour"
)

//go:embed syntax.md
var syntax string

// noMarginStyle removes document margins while keeping auto dark/light styling.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Syntax returns the area specification reference as markdown.
func Syntax() string {
	return syntax
}

// Renderer wraps glamour with lumos-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewRenderer creates a markdown renderer wrapping at width. An empty style
// detects a dark or light terminal; otherwise it names a glamour style such
// as "notty" or "dark".
func NewRenderer(width int, style string) (*Renderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
