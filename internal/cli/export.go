package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/config"
	"github.com/lumipallolabs/dirmap/internal/export"
	"github.com/lumipallolabs/dirmap/internal/model"
	"github.com/lumipallolabs/dirmap/internal/treemap"
)

const (
	formatSVG  = "svg"
	formatJSON = "json"

	defaultExportWidth  = 1200.0
	defaultExportHeight = 800.0
)

type exportOpts struct {
	output  string
	format  string
	width   float64
	height  float64
	depth   int
	minSize int64
	workers int
}

func newExportCmd() *cobra.Command {
	opts := exportOpts{
		format: formatSVG,
		width:  defaultExportWidth,
		height: defaultExportHeight,
	}

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Scan a directory and write its treemap as SVG or JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatSVG && opts.format != formatJSON {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'json')", opts.format)
			}
			return runExport(cmd, argPath(args), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <dir>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg or json")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "svg width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "svg height")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "levels below the root to include (0 = all)")
	cmd.Flags().Int64Var(&opts.minSize, "min-size", 0, "drop entries smaller than this many bytes")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "scan parallelism (default: one per CPU)")

	return cmd
}

func runExport(cmd *cobra.Command, path string, opts *exportOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

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
	root, err := scanTree(ctx, cfg, abs)
	if err != nil {
		return err
	}
	if opts.minSize > 0 {
		root = model.Filter(root, opts.minSize)
	}

	out := opts.output
	if out == "" {
		out = filepath.Base(abs) + "." + opts.format
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := writeExport(f, root, opts, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Infof("Wrote %s", out)
	return nil
}

func writeExport(w io.Writer, root *model.Node, opts *exportOpts, cfg config.Config) error {
	switch opts.format {
	case formatJSON:
		return export.WriteJSON(w, root, export.WithJSONDepth(opts.depth))
	default:
		layoutOpts := []treemap.Option{treemap.WithWorkers(cfg.Workers)}
		if opts.depth > 0 {
			layoutOpts = append(layoutOpts, treemap.WithMaxDepth(opts.depth))
		}
		asn, err := treemap.NewLayouter(layoutOpts...).Compute(root, treemap.Rect{W: opts.width, H: opts.height})
		if err != nil {
			return err
		}
		return export.WriteSVG(w, root, asn,
			export.WithPalette(category.NewPalette(cfg.Colors)))
	}
}
