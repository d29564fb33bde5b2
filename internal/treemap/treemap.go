// Package treemap computes squarified treemap layouts. Every node of a
// size-aggregated tree is assigned a rectangle whose area is proportional
// to its share of the parent, with sibling rows chosen greedily to keep
// aspect ratios close to square (Bruls, Huizing, van Wijk).
package treemap

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// Rect is an axis-aligned region in layout space
type Rect struct {
	X, Y, W, H float64
}

// Area returns the rectangle's area
func (r Rect) Area() float64 { return r.W * r.H }

// Assignment maps each laid-out node to its rectangle. A fresh
// assignment is produced per layout pass and never reused across
// passes; the tree itself is never mutated.
type Assignment map[*model.Node]Rect

// Layout failures wrap one of these sentinels
var (
	ErrInvalidBounds = errors.New("invalid bounds")
	ErrInvalidSize   = errors.New("invalid size")
)

// LayoutError reports why a layout call was rejected
type LayoutError struct {
	Reason string
	kind   error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.Reason)
}

func (e *LayoutError) Unwrap() error { return e.kind }

func invalidBounds(b Rect) error {
	return &LayoutError{
		Reason: fmt.Sprintf("%g x %g at (%g, %g)", b.W, b.H, b.X, b.Y),
		kind:   ErrInvalidBounds,
	}
}

func invalidSize(n *model.Node) error {
	return &LayoutError{
		Reason: fmt.Sprintf("node %q has negative total %d", n.Path, n.Total),
		kind:   ErrInvalidSize,
	}
}

// Layouter computes rectangle assignments for trees. The zero value is
// not ready to use; construct with NewLayouter.
type Layouter struct {
	workers  int
	maxDepth int
}

// Option configures a Layouter
type Option func(*Layouter)

// WithWorkers lays out the root's subtrees on up to n goroutines.
// Results are identical to the serial pass; each subtree's assignment
// is independent once its bounds are known.
func WithWorkers(n int) Option {
	return func(l *Layouter) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxDepth stops subdividing below depth d, counting the root's
// children as depth 1. Zero means no limit. Display surfaces that only
// draw one level pass 1 and relayout on zoom.
func WithMaxDepth(d int) Option {
	return func(l *Layouter) {
		if d > 0 {
			l.maxDepth = d
		}
	}
}

// NewLayouter returns a serial, unlimited-depth Layouter unless options
// say otherwise
func NewLayouter(opts ...Option) *Layouter {
	l := &Layouter{workers: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Layout computes the assignment for root within bounds using default
// options
func Layout(root *model.Node, bounds Rect) (Assignment, error) {
	return NewLayouter().Compute(root, bounds)
}

// Compute assigns a rectangle to every node of the tree rooted at root,
// recursively subdividing bounds. The tree is read-only to Compute and
// is expected to be filtered and sorted already; sibling order is the
// layout order. Zero-total nodes and their descendants receive
// degenerate zero-area rectangles so the assignment still covers every
// node. Layout is a pure function of the tree, its order, and bounds.
func (l *Layouter) Compute(root *model.Node, bounds Rect) (Assignment, error) {
	if root == nil {
		return Assignment{}, nil
	}
	if !(bounds.W > 0) || !(bounds.H > 0) {
		return nil, invalidBounds(bounds)
	}
	if root.Total < 0 {
		return nil, invalidSize(root)
	}

	out := Assignment{root: bounds}
	if l.workers > 1 && len(root.Children) > 1 {
		if err := l.descendParallel(root, bounds, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	if err := l.descend(root, bounds, 1, out); err != nil {
		return nil, err
	}
	return out, nil
}

// descend places n's children inside r and recurses into each child.
// depth is the depth of the children being placed.
func (l *Layouter) descend(n *model.Node, r Rect, depth int, out Assignment) error {
	if len(n.Children) == 0 {
		return nil
	}
	if l.maxDepth > 0 && depth > l.maxDepth {
		return nil
	}
	rects, err := l.placeChildren(n, r)
	if err != nil {
		return err
	}
	for i, child := range n.Children {
		out[child] = rects[i]
		if err := l.descend(child, rects[i], depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// descendParallel lays out the top level serially, then one goroutine
// per subtree fills a private assignment; the maps merge afterwards
// without synchronization because the node sets are disjoint.
func (l *Layouter) descendParallel(root *model.Node, bounds Rect, out Assignment) error {
	rects, err := l.placeChildren(root, bounds)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(l.workers)
	parts := make([]Assignment, len(root.Children))
	for i, child := range root.Children {
		i, child := i, child
		out[child] = rects[i]
		parts[i] = Assignment{}
		g.Go(func() error {
			return l.descend(child, rects[i], 2, parts[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, part := range parts {
		for n, r := range part {
			out[n] = r
		}
	}
	return nil
}

// placeChildren computes one rectangle per child of n, in child order.
// Positive totals are normalized so their areas sum exactly to r's
// area; zero-total children get degenerate rectangles at r's origin.
func (l *Layouter) placeChildren(n *model.Node, r Rect) ([]Rect, error) {
	var sum float64
	for _, c := range n.Children {
		if c.Total < 0 {
			return nil, invalidSize(c)
		}
		sum += float64(c.Total)
	}

	rects := make([]Rect, len(n.Children))
	if sum == 0 || !(r.W > 0) || !(r.H > 0) {
		for i := range rects {
			rects[i] = Rect{X: r.X, Y: r.Y}
		}
		return rects, nil
	}

	scale := r.Area() / sum
	idx := make([]int, 0, len(n.Children))
	areas := make([]float64, 0, len(n.Children))
	for i, c := range n.Children {
		if c.Total == 0 {
			rects[i] = Rect{X: r.X, Y: r.Y}
			continue
		}
		idx = append(idx, i)
		areas = append(areas, float64(c.Total)*scale)
	}

	squarify(areas, r, func(j int, rc Rect) {
		rects[idx[j]] = rc
	})
	return rects, nil
}
