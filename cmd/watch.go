package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/cachemanager"
	"github.com/lumos-rgb/lumos/internal/log"
	"github.com/lumos-rgb/lumos/internal/profile"
	"github.com/lumos-rgb/lumos/internal/pubsub"
	"github.com/lumos-rgb/lumos/internal/tracing"
	"github.com/lumos-rgb/lumos/internal/watcher"
)

var watchProfileID int64

// CheckResult is the outcome of re-checking a watched file.
type CheckResult struct {
	Path     string
	Document areaspec.Document
	Err      error
	At       time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-check a specification every time it changes",
	Long: `Watch a file and check it after each save, printing either the number of
areas or the first error.

With --profile, every valid version is also stored as that profile's areas.

Examples:
  lumos watch areas.txt
  lumos watch areas.txt --profile 3`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Int64Var(&watchProfileID, "profile", 0, "store valid versions as the areas of this profile ID")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, span := tracing.StartCommand(cmd.Context(), tracer(), "watch")
	defer span.End()
	path := args[0]

	w, err := watcher.New(watcher.Config{Path: path, Debounce: cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	broker := pubsub.NewBroker[CheckResult]()
	var wg sync.WaitGroup

	// Subscribers drain until the broker closes so the last result is handled.
	printed := broker.Subscribe(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		printResults(cmd.OutOrStdout(), printed)
	}()

	if watchProfileID != 0 {
		db, err := openDB()
		if err != nil {
			broker.Close()
			wg.Wait()
			return err
		}
		defer db.Close()

		applied := broker.Subscribe(context.Background())
		wg.Add(1)
		go func() {
			defer wg.Done()
			applyResults(ctx, db.Profiles(), watchProfileID, applied, cmd.ErrOrStderr())
		}()
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl+c to stop)\n", path)
	watchLoop(ctx, path, changes, newParseCache(), broker)

	broker.Close()
	wg.Wait()
	if dropped := broker.Dropped(); dropped > 0 {
		log.Warn(log.CatWatcher, "dropped watch results", "count", dropped)
	}
	return nil
}

// watchLoop checks path once, then again for every change, until ctx ends.
func watchLoop(ctx context.Context, path string, changes <-chan struct{}, cache *cachemanager.ParseCache, pub pubsub.Publisher[CheckResult]) {
	publish := func() {
		result := checkFile(ctx, cache, path)
		if result.Err != nil {
			pub.Publish(pubsub.FailedEvent, result)
			return
		}
		pub.Publish(pubsub.UpdatedEvent, result)
	}

	publish()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			publish()
		}
	}
}

func checkFile(ctx context.Context, cache *cachemanager.ParseCache, path string) CheckResult {
	_, span := tracer().Start(ctx, tracing.SpanPrefixParse+"watch")
	defer span.End()

	result := CheckResult{Path: path, At: time.Now()}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied path
	if err != nil {
		result.Err = err
		tracing.RecordError(span, err)
		return result
	}
	result.Document, result.Err = cache.Parse(ctx, string(data))
	tracing.RecordParse(span, string(data), result.Document, result.Err)
	return result
}

func printResults(w io.Writer, events <-chan pubsub.Event[CheckResult]) {
	for ev := range events {
		r := ev.Payload
		stamp := r.At.Format("15:04:05")
		if ev.Type == pubsub.FailedEvent {
			fmt.Fprintf(w, "%s %s: %v\n", stamp, r.Path, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s: ok (%s)\n", stamp, r.Path, plural(len(r.Document), "area"))
	}
}

// applyResults stores each valid document as the areas of profile id.
func applyResults(ctx context.Context, repo profile.Repository, id int64, events <-chan pubsub.Event[CheckResult], errOut io.Writer) {
	for ev := range events {
		if ev.Type != pubsub.UpdatedEvent {
			continue
		}
		if err := storeAreas(ctx, repo, id, ev.Payload.Document); err != nil {
			fmt.Fprintf(errOut, "profile %d: %v\n", id, err)
		}
	}
}

func storeAreas(ctx context.Context, repo profile.Repository, id int64, doc areaspec.Document) error {
	// The last result is stored even after ctx is cancelled.
	ctx = context.WithoutCancel(ctx)
	p, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.SetAreas(doc)
	if err := repo.Save(ctx, p); err != nil {
		return err
	}
	log.Info(log.CatWatcher, "stored areas", "profile", id, "areas", len(doc))
	return nil
}
