package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

var (
	highlightNoColor bool
	highlightColor   bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [file]",
	Short: "Print an area specification with syntax highlighting",
	Long: `Print a specification with selectors, fields, numbers, units and
punctuation colored. Text that is not valid is shown in the error color but
never rejected, so partial input can be highlighted while it is written.

Colors come from the highlight section of the config file. Color is disabled
automatically when stdout is not a terminal; --color forces it on.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().BoolVar(&highlightNoColor, "no-color", false, "disable colors")
	highlightCmd.Flags().BoolVar(&highlightColor, "color", false, "force colors even when not writing to a terminal")
	highlightCmd.MarkFlagsMutuallyExclusive("no-color", "color")
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	_, span := tracing.StartCommand(cmd.Context(), tracer(), "highlight")
	defer span.End()

	inputs, err := readInputs(cmd, args)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	switch {
	case highlightNoColor:
		lipgloss.SetColorProfile(termenv.Ascii)
	case highlightColor:
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	for _, in := range inputs {
		fmt.Fprint(cmd.OutOrStdout(), areaspec.Highlight(in.text))
	}
	return nil
}
