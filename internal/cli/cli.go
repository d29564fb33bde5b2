// Package cli implements the dirmap command-line interface.
//
// The root command scans a directory and opens the interactive treemap.
// Subcommands work without the TUI: export writes a scan as SVG or
// JSON, diff compares snapshots. Subcommands log to stderr through a
// context logger; the TUI owns the terminal and logs only through
// DIRMAP_LOG.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/dirmap/internal/cache"
	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/config"
	"github.com/lumipallolabs/dirmap/internal/core"
	"github.com/lumipallolabs/dirmap/internal/model"
	"github.com/lumipallolabs/dirmap/internal/scanner"
	"github.com/lumipallolabs/dirmap/internal/stats"
	"github.com/lumipallolabs/dirmap/internal/ui"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion records the build information shown by --version. main
// injects the values via ldflags.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// Execute builds the command tree and runs it under ctx.
func Execute(ctx context.Context) error {
	var verbose bool
	opts := tuiOpts{resolution: config.DefaultResolution}

	root := &cobra.Command{
		Use:   "dirmap [path]",
		Short: "dirmap visualizes disk usage as an interactive treemap",
		Long: `dirmap scans a directory tree and shows where the bytes went as a
squarified treemap, navigable from the keyboard. Scans are snapshotted
so the next run can show what changed.`,
		Args:         cobra.MaximumNArgs(1),
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, argPath(args), &opts)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("dirmap %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("config", "", "config file (default: per-user config dir)")

	root.Flags().IntVar(&opts.workers, "workers", 0, "scan parallelism (default: one per CPU)")
	root.Flags().Int64Var(&opts.resolution, "resolution", opts.resolution, "hide entries smaller than total/resolution")
	root.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not load or store snapshots")

	root.AddCommand(newExportCmd())
	root.AddCommand(newDiffCmd())

	return root.ExecuteContext(ctx)
}

type tuiOpts struct {
	workers    int
	resolution int64
	noCache    bool
}

func runTUI(cmd *cobra.Command, path string, opts *tuiOpts) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.workers
	}
	if cmd.Flags().Changed("resolution") {
		if opts.resolution <= 0 {
			return fmt.Errorf("resolution must be positive, got %d", opts.resolution)
		}
		cfg.Resolution = opts.resolution
	}
	if opts.noCache {
		cfg.Cache = false
	}

	p := tea.NewProgram(
		ui.NewApp(core.New(cfg), path),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		// A cancelled context kills the program; report the signal,
		// not the kill.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// loadConfig reads the config file named by the persistent --config
// flag, falling back to the per-user location.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// argPath returns the positional path argument, defaulting to the
// current directory.
func argPath(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// scanTree walks path with the configured scanner and annotates the
// result with categories. Used by the commands that scan without the
// TUI.
func scanTree(ctx context.Context, cfg config.Config, path string) (*model.Node, error) {
	logger := loggerFromContext(ctx)

	walkerOpts := []scanner.WalkerOption{scanner.WithIgnore(cfg.Ignore)}
	if cfg.FollowSymlinks {
		walkerOpts = append(walkerOpts, scanner.WithFollowLinks(true))
	}
	w := scanner.NewWalker(cfg.Workers, walkerOpts...)

	start := time.Now()
	root, err := w.Scan(ctx, path)
	if err != nil {
		return nil, err
	}
	category.Annotate(root)

	s := stats.Collect(root)
	logger.Infof("Scanned %d files, %d dirs (%s) in %s",
		s.Files, s.Dirs, ui.FormatSize(root.Total), time.Since(start).Round(time.Millisecond))
	return root, nil
}

// cacheDir resolves the snapshot directory the same way the controller
// does, so CLI commands and the TUI read the same history.
func cacheDir(cfg config.Config) string {
	if cfg.CacheDir != "" {
		return cfg.CacheDir
	}
	return cache.DefaultDir()
}

// absTarget normalizes the scan target so snapshot keys match across
// invocations from different working directories.
func absTarget(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
