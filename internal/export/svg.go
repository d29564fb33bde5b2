// Package export renders a scanned tree to non-interactive formats so a
// scan can be archived, diffed, or embedded without the TUI. SVG output
// draws the treemap layout itself; JSON output preserves the tree shape
// with totals and categories.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/model"
	"github.com/lumipallolabs/dirmap/internal/treemap"
)

// ErrNoRootRect is returned when the assignment has no rectangle for the
// tree root, which means the layout was computed for a different tree.
var ErrNoRootRect = errors.New("export: assignment does not cover the tree root")

const (
	svgBackground = "#18181B"
	svgDirStroke  = "#52525B"
	svgDirFill    = "#3F3F46"
	svgLabelFill  = "#E4E4E7"

	// Labels are skipped on rectangles too small to hold readable text.
	labelMinWidth  = 50.0
	labelMinHeight = 14.0
)

type svgRenderer struct {
	width   float64
	height  float64
	depth   int
	labels  bool
	palette *category.Palette
}

// SVGOption adjusts how WriteSVG draws the layout.
type SVGOption func(*svgRenderer)

// WithSize sets the width and height attributes of the svg element. The
// viewBox always matches the layout bounds, so this only scales the image.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithDepth draws only nodes up to d levels below the root. Zero or
// negative means every node in the assignment is drawn.
func WithDepth(d int) SVGOption { return func(r *svgRenderer) { r.depth = d } }

// WithLabels toggles name labels on the top-level rectangles.
func WithLabels(enabled bool) SVGOption { return func(r *svgRenderer) { r.labels = enabled } }

// WithPalette supplies the palette used for category fills. Defaults to the
// built-in palette without overrides.
func WithPalette(p *category.Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WriteSVG renders the layout as nested rectangles colored by file
// category. Directories that contain drawn children are outlined so the
// hierarchy stays visible; everything else is filled. The assignment must
// come from a Layouter run over the same tree.
func WriteSVG(w io.Writer, tree *model.Node, assignment treemap.Assignment, opts ...SVGOption) error {
	r := &svgRenderer{labels: true}
	for _, opt := range opts {
		opt(r)
	}
	if r.palette == nil {
		r.palette = category.NewPalette(nil)
	}
	if tree == nil {
		return ErrNoRootRect
	}
	bounds, ok := assignment[tree]
	if !ok {
		return ErrNoRootRect
	}
	if r.width <= 0 || r.height <= 0 {
		r.width, r.height = bounds.W, bounds.H
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%.1f %.1f %.1f %.1f\" width=\"%.1f\" height=\"%.1f\" font-family=\"ui-monospace, monospace\">\n",
		bounds.X, bounds.Y, bounds.W, bounds.H, r.width, r.height)
	fmt.Fprintf(&buf, "  <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\"/>\n",
		bounds.X, bounds.Y, bounds.W, bounds.H, svgBackground)

	for _, child := range tree.Children {
		r.writeNode(&buf, child, assignment, 1)
	}
	if r.labels {
		r.writeLabels(&buf, tree, assignment)
	}
	buf.WriteString("</svg>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// writeNode draws n and recurses into its children. Directories whose
// children are also drawn become outlines; drawing is pre-order so child
// fills land on top of parent strokes.
func (r *svgRenderer) writeNode(buf *bytes.Buffer, n *model.Node, assignment treemap.Assignment, depth int) {
	rect, ok := assignment[n]
	if !ok || rect.W <= 0 || rect.H <= 0 {
		return
	}
	if r.depth > 0 && depth > r.depth {
		return
	}

	descend := n.IsDir && len(n.Children) > 0 && (r.depth <= 0 || depth < r.depth) && r.hasDrawnChild(n, assignment)
	if descend {
		fmt.Fprintf(buf, "  <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"none\" stroke=\"%s\" stroke-width=\"1\"/>\n",
			rect.X, rect.Y, rect.W, rect.H, svgDirStroke)
		for _, child := range n.Children {
			r.writeNode(buf, child, assignment, depth+1)
		}
		return
	}

	fill := svgDirFill
	if !n.IsDir {
		fill = r.palette.Color(category.Token(n.Category))
	}
	fmt.Fprintf(buf, "  <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\"><title>%s (%s)</title></rect>\n",
		rect.X, rect.Y, rect.W, rect.H, fill, svgBackground, escapeXML(nodePath(n)), humanSize(n.Total))
}

// writeLabels emits a text element for each top-level child large enough to
// hold one. Labels come last so no rectangle paints over them.
func (r *svgRenderer) writeLabels(buf *bytes.Buffer, tree *model.Node, assignment treemap.Assignment) {
	for _, child := range tree.Children {
		rect, ok := assignment[child]
		if !ok || rect.W < labelMinWidth || rect.H < labelMinHeight {
			continue
		}
		fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" font-size=\"11\" fill=\"%s\">%s</text>\n",
			rect.X+4, rect.Y+12, svgLabelFill, escapeXML(child.Name))
	}
}

func (r *svgRenderer) hasDrawnChild(n *model.Node, assignment treemap.Assignment) bool {
	for _, child := range n.Children {
		if rect, ok := assignment[child]; ok && rect.W > 0 && rect.H > 0 {
			return true
		}
	}
	return false
}

func nodePath(n *model.Node) string {
	if n.Path == "" {
		return n.Name
	}
	return n.Path
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string { return xmlReplacer.Replace(s) }

// humanSize formats a byte count for tooltips. The TUI has its own
// formatter; exports stay independent of it.
func humanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
