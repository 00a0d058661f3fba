package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

var (
	fmtWrite bool
	fmtDiff  bool
)

var (
	diffAddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	diffDeletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	diffHeaderStyle  = lipgloss.NewStyle().Bold(true)
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Rewrite area specifications in canonical form",
	Long: `Print each specification in canonical form: fields ordered x, y, width,
height, one per line, indented three spaces, blocks separated by a blank line.

Reads stdin when no file is given. Inputs that do not parse are reported and
left untouched.

Examples:
  lumos fmt areas.txt
  lumos fmt --write areas.txt
  lumos fmt --diff areas.txt`,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the result back to each file")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "print a diff instead of the formatted text")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	_, span := tracing.StartCommand(cmd.Context(), tracer(), "fmt")
	defer span.End()

	inputs, err := readInputs(cmd, args)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, in := range inputs {
		formatted, err := canonical(in.text)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", in.name, err)
			continue
		}

		switch {
		case fmtDiff:
			if formatted != in.text {
				fmt.Fprint(out, lineDiff(in.name, in.text, formatted))
			}
		case fmtWrite && in.path != "":
			if formatted == in.text {
				continue
			}
			if err := os.WriteFile(in.path, []byte(formatted), 0o644); err != nil { //nolint:gosec // G306: user file keeps readable mode
				return fmt.Errorf("writing %s: %w", in.path, err)
			}
			log.Info(log.CatCLI, "formatted file", "path", in.path)
			fmt.Fprintln(out, in.path)
		default:
			fmt.Fprint(out, formatted)
		}
	}

	if failed > 0 {
		return errCheckFailed
	}
	return nil
}

// canonical parses text and serializes it with a trailing newline.
func canonical(text string) (string, error) {
	doc, err := areaspec.ParseWithOptions(text, cfg.Parser.Options())
	if err != nil {
		return "", err
	}
	if len(doc) == 0 {
		return "", nil
	}
	return areaspec.Serialize(doc) + "\n", nil
}

// lineDiff renders a line-oriented diff of before and after.
func lineDiff(name, before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	sb.WriteString(diffHeaderStyle.Render("--- "+name) + "\n")
	sb.WriteString(diffHeaderStyle.Render("+++ "+name+" (formatted)") + "\n")
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				sb.WriteString(diffAddedStyle.Render("+"+line) + "\n")
			case diffmatchpatch.DiffDelete:
				sb.WriteString(diffDeletedStyle.Render("-"+line) + "\n")
			case diffmatchpatch.DiffEqual:
				sb.WriteString(" " + line + "\n")
			}
		}
	}
	return sb.String()
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
