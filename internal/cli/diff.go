package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumipallolabs/dirmap/internal/cache"
	"github.com/lumipallolabs/dirmap/internal/ui"
)

type diffOpts struct {
	rescan  bool
	top     int
	workers int
}

func newDiffCmd() *cobra.Command {
	opts := diffOpts{top: 20}

	cmd := &cobra.Command{
		Use:   "diff [path]",
		Short: "Show what changed between the two most recent snapshots",
		Long: `diff compares the two most recent snapshots of a directory and prints
the largest changes. With --rescan it scans now and compares the result
against the most recent snapshot instead; the fresh scan is not stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, argPath(args), &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.rescan, "rescan", false, "scan now and compare against the latest snapshot")
	cmd.Flags().IntVarP(&opts.top, "top", "n", opts.top, "number of changes to show (0 = all)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "scan parallelism for --rescan (default: one per CPU)")

	return cmd
}

func runDiff(cmd *cobra.Command, path string, opts *diffOpts) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.workers
	}

	abs, err := absTarget(path)
	if err != nil {
		return err
	}
	store := cache.New(cacheDir(cfg))

	var (
		changes           []cache.Change
		beforeAt, afterAt time.Time
	)

	if opts.rescan {
		snap, err := store.LoadLatest(abs)
		if errors.Is(err, cache.ErrNoSnapshot) {
			return fmt.Errorf("no snapshot of %s yet; scan it once first", abs)
		}
		if err != nil {
			return err
		}
		root, err := scanTree(ctx, cfg, abs)
		if err != nil {
			return err
		}
		changes = cache.Diff(snap.Tree, root)
		beforeAt, afterAt = snap.TakenAt, time.Now()
	} else {
		entries, err := store.History(abs)
		if err != nil {
			return err
		}
		if len(entries) < 2 {
			return fmt.Errorf("need two snapshots of %s to diff; scan it twice or use --rescan", abs)
		}
		prev, err := store.LoadFile(entries[len(entries)-2].File)
		if err != nil {
			return err
		}
		latest, err := store.LoadFile(entries[len(entries)-1].File)
		if err != nil {
			return err
		}
		changes = cache.Diff(prev.Tree, latest.Tree)
		beforeAt, afterAt = prev.TakenAt, latest.TakenAt
	}

	printChanges(cmd.OutOrStdout(), changes, beforeAt, afterAt, opts.top)
	return nil
}

// printChanges writes the diff in the order Diff produced, largest
// absolute delta first.
func printChanges(w io.Writer, changes []cache.Change, beforeAt, afterAt time.Time, top int) {
	fmt.Fprintf(w, "%s → %s\n", ui.FormatTime(beforeAt), ui.FormatTime(afterAt))

	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}

	var added, removed, grown, shrunk int
	for _, ch := range changes {
		switch ch.Kind {
		case cache.Added:
			added++
		case cache.Removed:
			removed++
		case cache.Grown:
			grown++
		case cache.Shrunk:
			shrunk++
		}
	}
	fmt.Fprintf(w, "%d added, %d removed, %d grown, %d shrunk\n\n", added, removed, grown, shrunk)

	shown := changes
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}

	pathWidth := 0
	for _, ch := range shown {
		if n := len(displayPath(ch.Path)); n > pathWidth {
			pathWidth = n
		}
	}
	for _, ch := range shown {
		fmt.Fprintf(w, "%-8s %-*s %s\n", ch.Kind, pathWidth, displayPath(ch.Path), ui.FormatDelta(ch.Delta()))
	}
	if hidden := len(changes) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "… and %d more\n", hidden)
	}
}

func displayPath(p string) string {
	if p == "" {
		return "."
	}
	return p
}
