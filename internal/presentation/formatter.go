package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const maxRegexWidth = 40

var headerStyle = lipgloss.NewStyle().Bold(true)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatJSON writes v as indented JSON
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatProfiles writes profiles as JSON
func (f *Formatter) FormatProfiles(profiles []ProfileDTO) error {
	return f.FormatJSON(profiles)
}

// FormatProfilesTable writes one row per profile.
func (f *Formatter) FormatProfilesTable(profiles []ProfileDTO) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(f.writer, "no profiles")
		return err
	}

	header := []string{"ID", "PRIORITY", "CATEGORY", "AREAS", "REGEX", "LAST PUSH"}
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		priority := "-"
		if p.Priority != nil {
			priority = strconv.Itoa(*p.Priority)
		}
		push := "never"
		if p.Push != nil {
			push = p.Push.At.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			priority,
			categoryLabel(p.Category),
			strconv.Itoa(p.AreaCount),
			runewidth.Truncate(p.Regex, maxRegexWidth, "…"),
			push,
		})
	}

	return f.writeTable(header, rows)
}

// categoryLabel names a category, marking disabled ones.
func categoryLabel(c *CategoryDTO) string {
	switch {
	case c == nil:
		return "-"
	case !c.Enabled:
		return c.Name + " (off)"
	}
	return c.Name
}

// FormatCategoriesTable writes one row per category.
func (f *Formatter) FormatCategoriesTable(categories []CategoryDTO) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(f.writer, "no categories")
		return err
	}

	header := []string{"NAME", "PRIORITY", "ENABLED"}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{
			runewidth.Truncate(c.Name, maxRegexWidth, "…"),
			strconv.Itoa(c.Priority),
			strconv.FormatBool(c.Enabled),
		})
	}
	return f.writeTable(header, rows)
}

// writeTable aligns columns by display width so wide characters line up.
func (f *Formatter) writeTable(header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	if _, err := fmt.Fprintln(f.writer, headerStyle.Render(joinRow(header, widths))); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(f.writer, joinRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

func joinRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			padded[i] = cell
			continue
		}
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.Join(padded, "  ")
}

// FormatCheckResults writes check outcomes as JSON
func (f *Formatter) FormatCheckResults(results []CheckResultDTO) error {
	return f.FormatJSON(results)
}

// FormatResolution writes a match as JSON
func (f *Formatter) FormatResolution(r ResolutionDTO) error {
	return f.FormatJSON(r)
}
