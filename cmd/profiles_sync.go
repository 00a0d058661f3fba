package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lumos-rgb/lumos/internal/backend"
	"github.com/lumos-rgb/lumos/internal/infrastructure/sqlite"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/presentation"
	"github.com/lumos-rgb/lumos/internal/profile"
	"github.com/lumos-rgb/lumos/internal/profilefile"
	"github.com/lumos-rgb/lumos/internal/pubsub"
	"github.com/lumos-rgb/lumos/internal/tracing"
)

var (
	pushDryRun  bool
	pushListen  bool
	pushAddress string
)

var profilesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import profiles from a YAML or TOML file",
	Long: `Import profiles from a .yaml, .yml or .toml file. Profiles whose guid is
already stored are updated; the rest are added. Categories named in the file
are created, or updated to the file's priority and enabled state. Nothing is
imported if any entry is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesImport,
}

var profilesExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all profiles to a YAML or TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesExport,
}

var profilesPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send all profiles to the capture backend",
	Long: `Send every profile to the capture backend over its websocket API,
replacing the profiles it currently uses. Profiles in disabled categories are
left out, and a profile without a priority is sent with its category's.

With --listen the connection stays open and the backend's active profile
changes are printed until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runProfilesPush,
}

func init() {
	profilesPushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "print the message instead of sending it")
	profilesPushCmd.Flags().BoolVar(&pushListen, "listen", false, "keep listening for active profile changes")
	profilesPushCmd.Flags().StringVar(&pushAddress, "address", "", "backend address (default: backend.address)")

	profilesCmd.AddCommand(profilesImportCmd, profilesExportCmd, profilesPushCmd)
}

func runProfilesImport(cmd *cobra.Command, args []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.import")
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrSpecFile, args[0]))

	incoming, err := profilefile.Load(args[0], cfg.Parser.Options())
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	return withDB(func(db *sqlite.DB) error {
		if err := importCategories(ctx, db.Categories(), incoming); err != nil {
			tracing.RecordError(span, err)
			return err
		}
		added, updated, err := importProfiles(ctx, db.Profiles(), incoming)
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		span.SetAttributes(attribute.Int(tracing.AttrProfiles, len(incoming)))
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d added, %d updated)\n", plural(len(incoming), "profile"), added, updated)
		return err
	})
}

// importCategories saves each distinct category of incoming by name and
// points the profiles at the stored rows.
func importCategories(ctx context.Context, repo profile.CategoryRepository, incoming []*profile.Profile) error {
	stored := map[string]*profile.Category{}
	for _, p := range incoming {
		c := p.Category()
		if c == nil {
			continue
		}
		if saved, ok := stored[c.Name]; ok {
			p.SetCategory(saved)
			continue
		}
		existing, err := repo.FindByName(ctx, c.Name)
		switch {
		case err == nil:
			c.ID = existing.ID
		case !profile.IsNotFound(err):
			return err
		}
		if err := repo.Save(ctx, c); err != nil {
			return err
		}
		stored[c.Name] = c
		p.SetCategory(c)
	}
	return nil
}

// importProfiles upserts by GUID.
func importProfiles(ctx context.Context, repo profile.Repository, incoming []*profile.Profile) (added, updated int, err error) {
	for _, p := range incoming {
		existing, err := repo.FindByGUID(ctx, p.GUID())
		switch {
		case profile.IsNotFound(err):
			if err := repo.Save(ctx, p); err != nil {
				return added, updated, err
			}
			added++
		case err != nil:
			return added, updated, err
		default:
			if err := existing.SetRegex(p.Regex()); err != nil {
				return added, updated, err
			}
			existing.SetAreas(p.Areas())
			existing.SetPriority(p.Priority())
			existing.SetCategory(p.Category())
			if err := repo.Save(ctx, existing); err != nil {
				return added, updated, err
			}
			updated++
		}
	}
	return added, updated, nil
}

func runProfilesExport(cmd *cobra.Command, args []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.export")
	defer span.End()

	return withDB(func(db *sqlite.DB) error {
		profiles, err := db.Profiles().List(ctx)
		if err != nil {
			return err
		}
		if err := profilefile.Save(args[0], profiles); err != nil {
			tracing.RecordError(span, err)
			return err
		}
		span.SetAttributes(attribute.Int(tracing.AttrProfiles, len(profiles)))
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", plural(len(profiles), "profile"), args[0])
		return err
	})
}

func runProfilesPush(cmd *cobra.Command, _ []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "profiles.push")
	defer span.End()

	addr := cfg.Backend.Address
	if pushAddress != "" {
		addr = pushAddress
	}
	span.SetAttributes(attribute.String(tracing.AttrBackendAddr, addr))

	return withDB(func(db *sqlite.DB) error {
		all, err := db.Profiles().List(ctx)
		if err != nil {
			return err
		}
		profiles := profile.Enabled(all)
		span.SetAttributes(attribute.Int(tracing.AttrProfiles, len(profiles)))

		if pushDryRun {
			msg, err := backend.NewProfilesMessage(profiles)
			if err != nil {
				return err
			}
			return presentation.NewFormatter(cmd.OutOrStdout()).FormatJSON(msg)
		}

		client, err := pushProfiles(ctx, addr, profiles)
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		defer client.Close()

		ids := make([]int64, 0, len(profiles))
		for _, p := range profiles {
			ids = append(ids, p.ID())
		}
		if err := db.SyncState().RecordPush(ctx, ids, addr, time.Now()); err != nil {
			log.ErrorErr(log.CatSync, "recording push", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pushed %s to %s\n", plural(len(profiles), "profile"), addr)
		if skipped := len(all) - len(profiles); skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "skipped %s in disabled categories\n", plural(skipped, "profile"))
		}

		if !pushListen {
			return nil
		}
		return listenActive(ctx, cmd, client)
	})
}

func pushProfiles(ctx context.Context, addr string, profiles []*profile.Profile) (*backend.Client, error) {
	ctx, span := tracer().Start(ctx, tracing.SpanPrefixSync+"push")
	defer span.End()

	timeout := cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := backend.Dial(sendCtx, addr)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if err := client.SendProfiles(sendCtx, profiles); err != nil {
		_ = client.Close()
		tracing.RecordError(span, err)
		return nil, err
	}
	return client, nil
}

// listenActive prints active profile changes until ctx ends or the backend
// closes the connection.
func listenActive(ctx context.Context, cmd *cobra.Command, client *backend.Client) error {
	broker := pubsub.NewBroker[backend.ActiveProfile]()
	events := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		out := cmd.OutOrStdout()
		for ev := range events {
			if ev.Type == pubsub.DeletedEvent {
				fmt.Fprintf(out, "monitor %d: no profile\n", ev.Payload.Monitor)
				continue
			}
			fmt.Fprintf(out, "monitor %d: profile %d\n", ev.Payload.Monitor, *ev.Payload.ProfileID)
		}
	}()

	err := client.Listen(ctx, broker)
	broker.Close()
	<-done
	if ctx.Err() != nil {
		return nil
	}
	return err
}
