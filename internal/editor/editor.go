// Package editor is a terminal editor for area specification text.
//
// The text is validated on every edit. ctrl+s accepts the text only when it
// parses; a failed save shows the error and keeps editing. esc cancels.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/cachemanager"
	"github.com/lumos-rgb/lumos/internal/keys"
	"github.com/lumos-rgb/lumos/internal/log"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// Rows outside the textarea: title, blank, status, help, log.
	chromeHeight = 6
	// Rows for the error excerpt: the line and its caret.
	excerptHeight = 2
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"})
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"})
	faintStyle = lipgloss.NewStyle().Faint(true)
	caretStyle = errorStyle.Bold(true)
)

// Config configures the editor.
type Config struct {
	// Title is shown above the text, e.g. the profile being edited.
	Title string
	// Initial pre-populates the editor.
	Initial string
	// Cache validates the text. A nil cache parses with default options.
	Cache *cachemanager.ParseCache
	// MaxLength limits the text in characters; zero means unlimited.
	MaxLength int
	// Logs, when set, shows the latest log line below the editor.
	Logs *log.LogFeed
}

// Result is what the editor ended with.
type Result struct {
	// Saved is false when the user cancelled.
	Saved    bool
	Text     string
	Document areaspec.Document
}

// Model is the editor state.
type Model struct {
	ctx      context.Context
	cfg      Config
	input    textarea.Model
	help     help.Model
	showHelp bool

	doc     areaspec.Document
	err     error
	saveErr error
	lastLog string
	result  Result
	width   int
	height  int

	// Log lines replaced by a newer one before they were drawn.
	missedLogs int
}

// New creates an editor. ctx bounds validation and the log subscription.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Cache == nil {
		cfg.Cache = cachemanager.NewParseCache(cachemanager.ParseCacheConfig{})
	}

	ta := textarea.New()
	ta.Placeholder = "* { x: 0px; y: 0px; width: 100%; height: 100%; }"
	ta.CharLimit = cfg.MaxLength
	ta.MaxHeight = 0
	ta.ShowLineNumbers = true
	ta.SetValue(cfg.Initial)
	ta.Focus()

	m := Model{
		ctx:    ctx,
		cfg:    cfg,
		input:  ta,
		help:   help.New(),
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.resize()
	m.validate()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.cfg.Logs != nil {
		cmds = append(cmds, m.cfg.Logs.Next())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case log.LogBatch:
		m.lastLog = strings.TrimSpace(msg.Latest.Payload)
		m.missedLogs = msg.Skipped
		if m.cfg.Logs == nil {
			return m, nil
		}
		return m, m.cfg.Logs.Next()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Editor.Save):
			return m.save()
		case key.Matches(msg, keys.Editor.Cancel):
			m.result = Result{Saved: false, Text: m.input.Value()}
			return m, tea.Quit
		case key.Matches(msg, keys.Editor.Format):
			m.format()
			return m, nil
		case key.Matches(msg, keys.Editor.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			m.resize()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.saveErr = nil
		m.validate()
	}
	return m, cmd
}

func (m Model) save() (tea.Model, tea.Cmd) {
	m.validate()
	if m.err != nil {
		m.saveErr = m.err
		log.Debug(log.CatUI, "save rejected", "error", m.err)
		return m, nil
	}
	m.result = Result{Saved: true, Text: m.input.Value(), Document: m.doc}
	return m, tea.Quit
}

// format replaces valid text with its canonical form.
func (m *Model) format() {
	m.validate()
	if m.err != nil {
		m.saveErr = m.err
		return
	}
	m.input.SetValue(areaspec.Serialize(m.doc))
	m.validate()
}

func (m *Model) validate() {
	m.doc, m.err = m.cfg.Cache.Parse(m.ctx, m.input.Value())
}

func (m *Model) resize() {
	m.input.SetWidth(max(m.width, 20))
	helpRows := 1
	if m.showHelp {
		helpRows = len(keys.Editor.FullHelp()[0])
	}
	m.input.SetHeight(max(m.height-chromeHeight-helpRows-excerptHeight, 3))
	m.help.Width = m.width
}

// Result returns how the editor ended. It is meaningful after the program quits.
func (m Model) Result() Result {
	return m.result
}

// Err returns the current validation error, if any.
func (m Model) Err() error {
	return m.err
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := "Edit areas"
	if m.cfg.Title != "" {
		title += ": " + m.cfg.Title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys.Editor))
	if m.lastLog != "" {
		line := m.lastLog
		if m.missedLogs > 0 {
			line = fmt.Sprintf("(+%d) %s", m.missedLogs, line)
		}
		b.WriteString("\n")
		b.WriteString(faintStyle.Render(truncate(line, m.width)))
	}
	return b.String()
}

func (m Model) statusView() string {
	if m.err == nil {
		n := len(m.doc)
		noun := "areas"
		if n == 1 {
			noun = "area"
		}
		return okStyle.Render(fmt.Sprintf("✓ %d %s", n, noun))
	}

	prefix := "✗ "
	if m.saveErr != nil {
		prefix = "✗ cannot save: "
	}
	status := errorStyle.Render(wordwrap.String(prefix+m.err.Error(), max(m.width, 20)))
	if excerpt := errorExcerpt(m.input.Value(), m.err); excerpt != "" {
		status += "\n" + excerpt
	}
	return status
}

// errorExcerpt shows the offending line with a caret under the error column.
func errorExcerpt(text string, err error) string {
	var perr *areaspec.ParseError
	if !errors.As(err, &perr) || perr.EOF || perr.Line < 1 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if perr.Line > len(lines) {
		return ""
	}
	line := lines[perr.Line-1]
	col := max(perr.Col, 1)
	return "  " + areaspec.Highlight(line) + "\n  " + strings.Repeat(" ", col-1) + caretStyle.Render("^")
}

// truncate cuts s to width display cells, keeping escape sequences intact.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Run runs the editor full screen and returns its result.
func Run(ctx context.Context, cfg Config) (Result, error) {
	p := tea.NewProgram(New(ctx, cfg), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("running editor: %w", err)
	}
	return final.(Model).Result(), nil
}
