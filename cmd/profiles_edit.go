package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lumos-rgb/lumos/internal/editor"
	"github.com/lumos-rgb/lumos/internal/infrastructure/sqlite"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

var profilesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a profile's areas in the terminal",
	Long: `Open the areas of a profile in an editor. The text is checked as you
type; ctrl+s saves only when it is valid, esc leaves the profile unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesEdit,
}

func init() {
	profilesCmd.AddCommand(profilesEditCmd)
}

func runProfilesEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.edit")
	defer span.End()
	span.SetAttributes(attribute.Int64(tracing.AttrProfileID, id))

	return withDB(func(db *sqlite.DB) error {
		repo := db.Profiles()
		p, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		res, err := editor.Run(ctx, editor.Config{
			Title:     p.Regex(),
			Initial:   p.AreasText(),
			Cache:     newParseCache(),
			MaxLength: cfg.Parser.MaxInputLength,
			Logs:      log.NewFeed(ctx),
		})
		if err != nil {
			return err
		}
		if !res.Saved {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return err
		}

		p.SetAreas(res.Document)
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		span.SetAttributes(attribute.Int(tracing.AttrSpecAreas, len(res.Document)))
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved profile %d (%s)\n", id, plural(len(res.Document), "area"))
		return err
	})
}
