package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/infrastructure/sqlite"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/presentation"
	"github.com/lumos-rgb/lumos/internal/profile"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

// defaultAreas covers the whole monitor.
const defaultAreas = "* { x: 0px; y: 0px; width: 100%; height: 100%; }"

var (
	profilesJSON bool

	addPriority int
	addAreas    string
	addFile     string
	addCategory string

	matchResolution string
)

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile", "p"},
	Short:   "Manage application profiles",
	Long: `Manage application profiles. A profile pairs a window-title regular
expression with the areas to sample while a matching window is focused.
Profiles are stored in the database at db_path.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <regex>",
	Short: "Add a profile",
	Long: `Add a profile for windows whose title matches <regex>.

Areas come from --areas, from --file, or default to the whole monitor.
--category puts the profile in a category, creating an enabled one with
priority 0 if it does not exist yet.

Examples:
  lumos profiles add '^mpv' --priority 10 --file mpv.area --category video
  lumos profiles add 'YouTube' --areas '* { x: 0px; y: 12.5%; width: 100%; height: 75%; }'`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesAdd,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a profile with its areas",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var profilesRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runProfilesRm,
}

var profilesMatchCmd = &cobra.Command{
	Use:   "match <window title>",
	Short: "Show which profile and area apply to a window",
	Long: `Resolve a window title against all profiles the way the capture backend
does: the first profile by id whose regex matches wins, skipping disabled
categories. Its area is the first one for the exact resolution, else its last
"*" area. A matching profile without such an area is still reported.

Example:
  lumos profiles match "mpv - movie.mkv" --resolution 2560x1440`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesMatch,
}

func init() {
	profilesCmd.PersistentFlags().BoolVar(&profilesJSON, "json", false, "print JSON")

	profilesAddCmd.Flags().IntVar(&addPriority, "priority", 0, "priority; higher wins (default: none)")
	profilesAddCmd.Flags().StringVar(&addAreas, "areas", "", "area specification text")
	profilesAddCmd.Flags().StringVarP(&addFile, "file", "f", "", "read the area specification from a file")
	profilesAddCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category name")
	profilesAddCmd.MarkFlagsMutuallyExclusive("areas", "file")

	profilesMatchCmd.Flags().StringVarP(&matchResolution, "resolution", "r", "1920x1080", "monitor resolution as WIDTHxHEIGHT")

	profilesCmd.AddCommand(profilesListCmd, profilesAddCmd, profilesShowCmd, profilesRmCmd, profilesMatchCmd)
	rootCmd.AddCommand(profilesCmd)
}

// withDB opens the profile database for the duration of fn.
func withDB(fn func(db *sqlite.DB) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid profile id %q", arg)
	}
	return id, nil
}

func lastPush(ctx context.Context, db *sqlite.DB, id int64) (*presentation.PushDTO, error) {
	rec, ok, err := db.SyncState().LastPush(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	return &presentation.PushDTO{At: rec.PushedAt, Address: rec.Address}, nil
}

func runProfilesList(cmd *cobra.Command, _ []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.list")
	defer span.End()

	return withDB(func(db *sqlite.DB) error {
		profiles, err := db.Profiles().List(ctx)
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		span.SetAttributes(attribute.Int(tracing.AttrProfiles, len(profiles)))

		profile.SortByPriority(profiles)
		dtos := make([]presentation.ProfileDTO, 0, len(profiles))
		for _, p := range profiles {
			push, err := lastPush(ctx, db, p.ID())
			if err != nil {
				return err
			}
			dtos = append(dtos, presentation.FromDomainProfile(p, push))
		}

		f := presentation.NewFormatter(cmd.OutOrStdout())
		if profilesJSON {
			return f.FormatProfiles(dtos)
		}
		return f.FormatProfilesTable(dtos)
	})
}

func runProfilesAdd(cmd *cobra.Command, args []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.add")
	defer span.End()

	text := defaultAreas
	switch {
	case cmd.Flags().Changed("areas"):
		text = addAreas
	case addFile != "":
		data, err := os.ReadFile(addFile) //nolint:gosec // G304: user-supplied path
		if err != nil {
			return fmt.Errorf("reading %s: %w", addFile, err)
		}
		text = string(data)
	}
	var priority *int
	if cmd.Flags().Changed("priority") {
		priority = &addPriority
	}

	p, err := profile.NewWithOptions(args[0], text, priority, cfg.Parser.Options())
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	return withDB(func(db *sqlite.DB) error {
		if addCategory != "" {
			c, err := ensureCategory(ctx, db.Categories(), addCategory)
			if err != nil {
				return err
			}
			p.SetCategory(c)
		}
		if err := db.Profiles().Save(ctx, p); err != nil {
			return err
		}
		span.SetAttributes(attribute.Int64(tracing.AttrProfileID, p.ID()))
		log.Info(log.CatCLI, "added profile", "id", p.ID(), "regex", p.Regex())
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "added profile %d (%s)\n", p.ID(), plural(len(p.Areas()), "area"))
		return err
	})
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.show")
	defer span.End()
	span.SetAttributes(attribute.Int64(tracing.AttrProfileID, id))

	return withDB(func(db *sqlite.DB) error {
		p, err := db.Profiles().FindByID(ctx, id)
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		push, err := lastPush(ctx, db, id)
		if err != nil {
			return err
		}
		dto := presentation.FromDomainProfile(p, push)
		if profilesJSON {
			return presentation.NewFormatter(cmd.OutOrStdout()).FormatJSON(dto)
		}
		return writeProfile(cmd.OutOrStdout(), dto)
	})
}

func writeProfile(w io.Writer, p presentation.ProfileDTO) error {
	priority := "none"
	if p.Priority != nil {
		priority = strconv.Itoa(*p.Priority)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "id:       %d\n", p.ID)
	fmt.Fprintf(&b, "guid:     %s\n", p.GUID)
	fmt.Fprintf(&b, "regex:    %s\n", p.Regex)
	fmt.Fprintf(&b, "priority: %s\n", priority)
	if c := p.Category; c != nil {
		state := "enabled"
		if !c.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&b, "category: %s (priority %d, %s)\n", c.Name, c.Priority, state)
	}
	if p.Push != nil {
		fmt.Fprintf(&b, "pushed:   %s to %s\n", p.Push.At.Format("2006-01-02 15:04:05"), p.Push.Address)
	}
	b.WriteString("\n")
	if p.Areas != "" {
		b.WriteString(areaspec.Highlight(p.Areas))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func runProfilesRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.rm")
	defer span.End()
	span.SetAttributes(attribute.Int64(tracing.AttrProfileID, id))

	return withDB(func(db *sqlite.DB) error {
		if err := db.Profiles().Delete(ctx, id); err != nil {
			tracing.RecordError(span, err)
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted profile %d\n", id)
		return err
	})
}

func parseResolution(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		width, err = strconv.Atoi(w)
		if err == nil {
			height, err = strconv.Atoi(h)
		}
	}
	if !ok || err != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid resolution %q, want WIDTHxHEIGHT like 1920x1080", s)
	}
	return width, height, nil
}

func runProfilesMatch(cmd *cobra.Command, args []string) error {
	width, height, err := parseResolution(matchResolution)
	if err != nil {
		return err
	}
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.match")
	defer span.End()

	return withDB(func(db *sqlite.DB) error {
		profiles, err := db.Profiles().List(ctx)
		if err != nil {
			return err
		}
		res, ok := profile.Resolve(profiles, args[0], width, height)
		if !ok {
			return fmt.Errorf("no profile applies to %q at %dx%d", args[0], width, height)
		}
		span.SetAttributes(attribute.Int64(tracing.AttrProfileID, res.Profile.ID()))

		dto := presentation.FromResolution(res)
		if profilesJSON {
			return presentation.NewFormatter(cmd.OutOrStdout()).FormatResolution(dto)
		}
		out := cmd.OutOrStdout()
		if dto.Rect == nil {
			_, err = fmt.Fprintf(out, "profile %d (%s)\nno area for %dx%d\n", dto.ProfileID, dto.Regex, width, height)
			return err
		}
		_, err = fmt.Fprintf(out, "profile %d (%s)\nrect: x=%d y=%d width=%d height=%d\n\n%s\n",
			dto.ProfileID, dto.Regex, dto.Rect.X, dto.Rect.Y, dto.Rect.Width, dto.Rect.Height,
			areaspec.Highlight(dto.Area))
		return err
	})
}
