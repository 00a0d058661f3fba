package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/presentation"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

var checkJSON bool

// errCheckFailed makes the command exit non-zero after reporting.
var errCheckFailed = errors.New("one or more inputs are invalid")

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate area specifications",
	Long: `Parse each file and report whether it is a valid area specification.

Reads stdin when no file (or "-") is given. Errors name the line and column
of the first problem. Exits non-zero if any input is invalid.

Examples:
  lumos check areas.txt
  lumos check *.area --json
  echo '* { x: 0px; y: 0px; width: 100%; height: 100%; }' | lumos check`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "check")
	defer span.End()

	inputs, err := readInputs(cmd, args)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	opts := cfg.Parser.Options()
	results := make([]presentation.CheckResultDTO, 0, len(inputs))
	failed := 0
	for _, in := range inputs {
		_, parseSpan := tracer().Start(ctx, tracing.SpanPrefixParse+"file")
		parseSpan.SetAttributes(attribute.String(tracing.AttrSpecFile, in.name))
		doc, err := areaspec.ParseWithOptions(in.text, opts)
		tracing.RecordParse(parseSpan, in.text, doc, err)
		parseSpan.End()

		if err != nil {
			failed++
		}
		results = append(results, presentation.FromCheck(in.name, doc, err))
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		if err := presentation.NewFormatter(out).FormatCheckResults(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.OK {
				fmt.Fprintf(out, "%s: ok (%s)\n", r.Input, plural(r.Areas, "area"))
			} else {
				fmt.Fprintf(out, "%s: %s\n", r.Input, r.Error)
			}
		}
	}

	if failed > 0 {
		span.SetAttributes(attribute.Int("check.failed", failed))
		return errCheckFailed
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
