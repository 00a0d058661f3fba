package editor

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/cachemanager"
	"github.com/lumos-rgb/lumos/internal/pubsub"
)

const fullScreen = "* { x: 0px; y: 0px; width: 100%; height: 100%; }"

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func view(m Model) string {
	return ansiRegex.ReplaceAllString(m.View(), "")
}

func newTestEditor(t *testing.T, initial string) Model {
	t.Helper()
	cache := cachemanager.NewParseCache(cachemanager.ParseCacheConfig{Enabled: true})
	return New(context.Background(), Config{Title: "mpv", Initial: initial, Cache: cache})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(Model)
	require.True(t, ok)
	return em, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_ValidatesInitialText(t *testing.T) {
	m := newTestEditor(t, fullScreen)
	require.NoError(t, m.Err())
	assert.Contains(t, view(m), "✓ 1 area")
	assert.Contains(t, view(m), "Edit areas: mpv")

	m = newTestEditor(t, "")
	require.NoError(t, m.Err())
	assert.Contains(t, view(m), "✓ 0 areas")
}

func TestSave_Valid(t *testing.T) {
	m := newTestEditor(t, fullScreen)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, isQuit(cmd), "valid save should quit")

	res := m.Result()
	assert.True(t, res.Saved)
	assert.Equal(t, fullScreen, res.Text)
	require.Len(t, res.Document, 1)
	assert.Equal(t, areaspec.Percentage(100), res.Document[0].Width)
}

func TestSave_InvalidKeepsEditing(t *testing.T) {
	m := newTestEditor(t, "* {\n  x: 0px;\n  y: 200%;\n}")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, isQuit(cmd), "invalid save must not quit")
	assert.False(t, m.Result().Saved)

	view := view(m)
	assert.Contains(t, view, "cannot save")
	assert.Contains(t, view, "out of bounds")
	assert.Contains(t, view, "^", "caret points at the error")
}

func TestCancel(t *testing.T) {
	m := newTestEditor(t, fullScreen)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, isQuit(cmd))
	assert.False(t, m.Result().Saved)
	assert.Nil(t, m.Result().Document)
}

func TestFormat_Canonicalizes(t *testing.T) {
	m := newTestEditor(t, "*{height:4px;width:3px;y:2px;x:1px;}")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, isQuit(cmd))
	assert.Equal(t, "* {\n   x: 1px;\n   y: 2px;\n   width: 3px;\n   height: 4px;\n}", m.Result().Text)
}

func TestFormat_InvalidLeavesText(t *testing.T) {
	m := newTestEditor(t, "* {")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, "* {", m.input.Value())
	assert.Error(t, m.Err())
}

func TestTyping_Revalidates(t *testing.T) {
	m := newTestEditor(t, "")

	for _, r := range "* {" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Error(t, m.Err())
	assert.Contains(t, view(m), "got EOF")
}

func TestHelpToggle(t *testing.T) {
	m := newTestEditor(t, fullScreen)
	assert.NotContains(t, view(m), "format")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.Contains(t, view(m), "format")
}

func TestLogEventsShowLatestLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker := pubsub.NewBroker[string]()
	defer broker.Close()

	m := New(ctx, Config{Initial: fullScreen, Logs: pubsub.NewFeed[string](ctx, broker)})
	m, cmd := update(t, m, pubsub.Batch[string]{
		Latest: pubsub.Event[string]{Type: pubsub.CreatedEvent, Payload: "2026-01-02T03:04:05 [INFO] [db] opened\n"},
	})
	assert.NotNil(t, cmd, "feed is re-armed")
	assert.Contains(t, view(m), "[db] opened")
	assert.NotContains(t, view(m), "(+")

	m, _ = update(t, m, pubsub.Batch[string]{
		Latest:  pubsub.Event[string]{Type: pubsub.CreatedEvent, Payload: "2026-01-02T03:04:06 [INFO] [db] closed\n"},
		Skipped: 2,
	})
	assert.Contains(t, view(m), "(+2) 2026-01-02T03:04:06 [INFO] [db] closed")
}

func TestErrorExcerpt(t *testing.T) {
	_, err := areaspec.Parse("* {\n  x: 0px;\n  x: 1px;\n}")
	require.Error(t, err)

	excerpt := ansiRegex.ReplaceAllString(errorExcerpt("* {\n  x: 0px;\n  x: 1px;\n}", err), "")
	assert.Contains(t, excerpt, "x: 1px;")
	assert.Contains(t, excerpt, "\n    ^", "caret under column 3")

	_, err = areaspec.Parse("* {")
	assert.Empty(t, errorExcerpt("* {", err), "no excerpt at EOF")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}

func TestEditor_Program_SaveAfterTyping(t *testing.T) {
	tm := teatest.NewTestModel(t, newTestEditor(t, "* { x: 0px; y: 0px; width: 100%; height: 100%; "),
		teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("got EOF"))
	}, teatest.WithDuration(3*time.Second))

	tm.Type("}")
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("1 area"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	res := final.Result()
	require.True(t, res.Saved)
	require.Len(t, res.Document, 1)
	assert.True(t, res.Document[0].Selector.IsWildcard())
}

func TestEditor_Program_Cancel(t *testing.T) {
	tm := teatest.NewTestModel(t, newTestEditor(t, fullScreen), teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	assert.False(t, final.Result().Saved)
}
