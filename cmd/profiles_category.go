package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumos-rgb/lumos/internal/infrastructure/sqlite"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/presentation"
	"github.com/lumos-rgb/lumos/internal/profile"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

var (
	categoryPriority int
	categoryEnabled  bool
)

var profilesCategoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage profile categories",
	Long: `Manage profile categories. Profiles in a disabled category are not pushed
to the capture backend. A profile without its own priority takes its
category's priority when pushed.`,
}

var profilesCategoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var profilesCategorySetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a category",
	Long: `Create a category, or update the priority and enabled state of an existing
one. Flags that are not given keep their stored value; a new category is
enabled with priority 0.

Examples:
  lumos profiles category set video --priority 10
  lumos profiles category set games --enabled=false`,
	Args: cobra.ExactArgs(1),
	RunE: runCategorySet,
}

var profilesCategoryRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a category; its profiles become uncategorised",
	Args:    cobra.ExactArgs(1),
	RunE:    runCategoryRm,
}

func init() {
	profilesCategorySetCmd.Flags().IntVar(&categoryPriority, "priority", 0, "priority for members without their own")
	profilesCategorySetCmd.Flags().BoolVar(&categoryEnabled, "enabled", true, "push the category's profiles to the backend")

	profilesCategoryCmd.AddCommand(profilesCategoryListCmd, profilesCategorySetCmd, profilesCategoryRmCmd)
	profilesCmd.AddCommand(profilesCategoryCmd)
}

// ensureCategory returns the stored category called name, creating it when
// missing.
func ensureCategory(ctx context.Context, repo profile.CategoryRepository, name string) (*profile.Category, error) {
	c, err := profile.NewCategory(name)
	if err != nil {
		return nil, err
	}
	existing, err := repo.FindByName(ctx, c.Name)
	switch {
	case err == nil:
		return existing, nil
	case !profile.IsNotFound(err):
		return nil, err
	}
	if err := repo.Save(ctx, c); err != nil {
		return nil, err
	}
	log.Info(log.CatCLI, "created category", "name", c.Name)
	return c, nil
}

func runCategoryList(cmd *cobra.Command, _ []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.category.list")
	defer span.End()

	return withDB(func(db *sqlite.DB) error {
		categories, err := db.Categories().List(ctx)
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		dtos := make([]presentation.CategoryDTO, 0, len(categories))
		for _, c := range categories {
			dtos = append(dtos, *presentation.FromDomainCategory(c))
		}
		f := presentation.NewFormatter(cmd.OutOrStdout())
		if profilesJSON {
			return f.FormatJSON(dtos)
		}
		return f.FormatCategoriesTable(dtos)
	})
}

func runCategorySet(cmd *cobra.Command, args []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.category.set")
	defer span.End()

	return withDB(func(db *sqlite.DB) error {
		repo := db.Categories()
		c, err := ensureCategory(ctx, repo, args[0])
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		if cmd.Flags().Changed("priority") {
			c.Priority = categoryPriority
		}
		if cmd.Flags().Changed("enabled") {
			c.Enabled = categoryEnabled
		}
		if err := repo.Save(ctx, c); err != nil {
			tracing.RecordError(span, err)
			return err
		}
		state := "enabled"
		if !c.Enabled {
			state = "disabled"
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "category %s: priority %d, %s\n", c.Name, c.Priority, state)
		return err
	})
}

func runCategoryRm(cmd *cobra.Command, args []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.category.rm")
	defer span.End()

	return withDB(func(db *sqlite.DB) error {
		repo := db.Categories()
		c, err := repo.FindByName(ctx, args[0])
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		if err := repo.Delete(ctx, c.ID); err != nil {
			tracing.RecordError(span, err)
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", c.Name)
		return err
	})
}
