package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumos-rgb/lumos/internal/docs"
)

var (
	syntaxRaw   bool
	syntaxWidth int
)

var syntaxCmd = &cobra.Command{
	Use:   "syntax",
	Short: "Show the area specification reference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if syntaxRaw {
			_, err := fmt.Fprint(cmd.OutOrStdout(), docs.Syntax())
			return err
		}

		r, err := docs.NewRenderer(syntaxWidth, "")
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := r.Render(docs.Syntax())
		if err != nil {
			return fmt.Errorf("rendering reference: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	syntaxCmd.Flags().BoolVar(&syntaxRaw, "raw", false, "print the markdown source")
	syntaxCmd.Flags().IntVar(&syntaxWidth, "width", 80, "wrap width")
	rootCmd.AddCommand(syntaxCmd)
}
