package treemap

import (
	"errors"
	"math"
	"testing"

	"github.com/lumipallolabs/dirmap/internal/model"
)

func buildSample(t *testing.T) *model.Node {
	t.Helper()
	root, err := model.Build("root", []model.Record{
		{Path: "a/x.txt", Size: 100},
		{Path: "a/y.txt", Size: 50},
		{Path: "b.txt", Size: 50},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return root
}

func almostEq(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func overlaps(a, b Rect, tol float64) bool {
	return a.X < b.X+b.W-tol && b.X < a.X+a.W-tol &&
		a.Y < b.Y+b.H-tol && b.Y < a.Y+a.H-tol
}

func TestLayoutScenarioAreas(t *testing.T) {
	root := buildSample(t)
	bounds := Rect{X: 0, Y: 0, W: 200, H: 100}

	got, err := Layout(root, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("expected 5 assigned nodes, got %d", len(got))
	}
	if got[root] != bounds {
		t.Errorf("root rect: expected %v, got %v", bounds, got[root])
	}

	a, b := root.Children[0], root.Children[1]
	if !almostEq(got[a].Area(), 15000, 1e-6) {
		t.Errorf("a area: expected 15000, got %g", got[a].Area())
	}
	if !almostEq(got[b].Area(), 5000, 1e-6) {
		t.Errorf("b.txt area: expected 5000, got %g", got[b].Area())
	}
	if overlaps(got[a], got[b], 1e-9) {
		t.Errorf("sibling rects overlap: %v and %v", got[a], got[b])
	}
	if !almostEq(got[a].Area()+got[b].Area(), bounds.Area(), 1e-6) {
		t.Errorf("children do not tile parent: %g + %g != %g",
			got[a].Area(), got[b].Area(), bounds.Area())
	}

	// a's own children subdivide a's rectangle the same way.
	x, y := a.Children[0], a.Children[1]
	if !almostEq(got[x].Area(), 10000, 1e-6) || !almostEq(got[y].Area(), 5000, 1e-6) {
		t.Errorf("a's children areas: expected 10000/5000, got %g/%g",
			got[x].Area(), got[y].Area())
	}
	t.Logf("a=%v b=%v x=%v y=%v", got[a], got[b], got[x], got[y])
}

// The classic squarified example: areas 6,6,4,3,2,2,1 in a 6x4 box.
// Row choices and strip orientations pin the algorithm down exactly.
func TestLayoutSquarifiedReference(t *testing.T) {
	sizes := []int64{6, 6, 4, 3, 2, 2, 1}
	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	root := &model.Node{Name: "root", IsDir: true, Total: 24}
	for i, s := range sizes {
		root.Children = append(root.Children, &model.Node{
			Name: names[i], Path: names[i], Size: s, Total: s, Parent: root,
		})
	}

	got, err := Layout(root, Rect{W: 6, H: 4})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	want := []Rect{
		{X: 0, Y: 0, W: 3, H: 2},
		{X: 0, Y: 2, W: 3, H: 2},
		{X: 3, Y: 0, W: 12.0 / 7, H: 7.0 / 3},
		{X: 3 + 12.0/7, Y: 0, W: 9.0 / 7, H: 7.0 / 3},
		{X: 3, Y: 7.0 / 3, W: 1.2, H: 5.0 / 3},
		{X: 4.2, Y: 7.0 / 3, W: 1.2, H: 5.0 / 3},
		{X: 5.4, Y: 7.0 / 3, W: 0.6, H: 5.0 / 3},
	}
	for i, child := range root.Children {
		r := got[child]
		w := want[i]
		if !almostEq(r.X, w.X, 1e-9) || !almostEq(r.Y, w.Y, 1e-9) ||
			!almostEq(r.W, w.W, 1e-9) || !almostEq(r.H, w.H, 1e-9) {
			t.Errorf("%s: expected %v, got %v", child.Name, w, r)
		}
	}
	t.Logf("reference layout reproduced for %d siblings", len(sizes))
}

func TestLayoutTilingAndProportionality(t *testing.T) {
	root, err := model.Build("root", []model.Record{
		{Path: "media/video.mp4", Size: 7000},
		{Path: "media/song.mp3", Size: 1500},
		{Path: "media/clip.mov", Size: 800},
		{Path: "docs/a.pdf", Size: 1200},
		{Path: "docs/b.pdf", Size: 900},
		{Path: "src/main.go", Size: 60},
		{Path: "src/util.go", Size: 40},
		{Path: "notes.txt", Size: 500},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bounds := Rect{X: 10, Y: 5, W: 320, H: 120}

	got, err := Layout(root, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	model.Walk(root, func(n *model.Node) {
		if len(n.Children) == 0 || n.Total == 0 {
			return
		}
		parent := got[n]
		var sum float64
		for i, a := range n.Children {
			ra := got[a]
			sum += ra.Area()
			// Inside the parent rectangle.
			if ra.X < parent.X-1e-6 || ra.Y < parent.Y-1e-6 ||
				ra.X+ra.W > parent.X+parent.W+1e-6 ||
				ra.Y+ra.H > parent.Y+parent.H+1e-6 {
				t.Errorf("%s escapes parent %s: %v not in %v", a.Path, n.Path, ra, parent)
			}
			for _, b := range n.Children[i+1:] {
				if overlaps(ra, got[b], 1e-6) {
					t.Errorf("%s and %s overlap: %v, %v", a.Path, b.Path, ra, got[b])
				}
			}
		}
		if !almostEq(sum, parent.Area(), parent.Area()*1e-9+1e-6) {
			t.Errorf("%s children tile %g of %g", n.Path, sum, parent.Area())
		}

		// Pairwise proportionality against totals.
		for i, a := range n.Children {
			for _, b := range n.Children[i+1:] {
				if a.Total == 0 || b.Total == 0 {
					continue
				}
				gotRatio := got[a].Area() / got[b].Area()
				wantRatio := float64(a.Total) / float64(b.Total)
				if !almostEq(gotRatio, wantRatio, wantRatio*1e-9) {
					t.Errorf("%s/%s area ratio %g, size ratio %g",
						a.Path, b.Path, gotRatio, wantRatio)
				}
			}
		}
	})
}

func TestLayoutDeterministic(t *testing.T) {
	root := buildSample(t)
	bounds := Rect{W: 173, H: 97}

	first, err := Layout(root, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	second, err := Layout(root, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("assignment sizes differ: %d vs %d", len(first), len(second))
	}
	for n, r := range first {
		if second[n] != r {
			t.Errorf("%s: %v vs %v", n.Path, r, second[n])
		}
	}
}

func TestLayoutParallelMatchesSerial(t *testing.T) {
	root, err := model.Build("root", []model.Record{
		{Path: "a/a1/deep.bin", Size: 4000},
		{Path: "a/a2.bin", Size: 2500},
		{Path: "b/b1.bin", Size: 3000},
		{Path: "b/b2/deeper/leaf.bin", Size: 1000},
		{Path: "c.bin", Size: 700},
		{Path: "d/d1.bin", Size: 300},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bounds := Rect{W: 400, H: 300}

	serial, err := NewLayouter().Compute(root, bounds)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := NewLayouter(WithWorkers(4)).Compute(root, bounds)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if len(serial) != len(parallel) {
		t.Fatalf("assignment sizes differ: %d vs %d", len(serial), len(parallel))
	}
	for n, r := range serial {
		if parallel[n] != r {
			t.Errorf("%s: serial %v, parallel %v", n.Path, r, parallel[n])
		}
	}
}

func TestLayoutSingleChildFillsBounds(t *testing.T) {
	root, err := model.Build("root", []model.Record{{Path: "only.bin", Size: 42}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bounds := Rect{X: 2, Y: 3, W: 50, H: 20}

	got, err := Layout(root, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	r := got[root.Children[0]]
	if !almostEq(r.X, bounds.X, 1e-9) || !almostEq(r.Y, bounds.Y, 1e-9) ||
		!almostEq(r.W, bounds.W, 1e-9) || !almostEq(r.H, bounds.H, 1e-9) {
		t.Errorf("single child should fill bounds %v, got %v", bounds, r)
	}
}

func TestLayoutRootOnly(t *testing.T) {
	root, err := model.Build("root", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bounds := Rect{W: 10, H: 10}

	got, err := Layout(root, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(got) != 1 || got[root] != bounds {
		t.Errorf("expected only the root assigned its bounds, got %v", got)
	}
}

func TestLayoutZeroSizeChildren(t *testing.T) {
	inner := &model.Node{Name: "inner", Path: "empty/inner"}
	empty := &model.Node{Name: "empty", Path: "empty", IsDir: true, Children: []*model.Node{inner}}
	big := &model.Node{Name: "big.bin", Path: "big.bin", Size: 10, Total: 10}
	root := &model.Node{Name: "root", IsDir: true, Total: 10, Children: []*model.Node{big, empty}}
	bounds := Rect{X: 1, Y: 1, W: 8, H: 4}

	got, err := Layout(root, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	// The positive child expands to the whole rectangle; zero-size
	// nodes still appear in the assignment, as degenerate rects.
	if r := got[big]; !almostEq(r.Area(), bounds.Area(), 1e-9) {
		t.Errorf("big.bin should cover the full bounds, got %v", r)
	}
	for _, n := range []*model.Node{empty, inner} {
		r, ok := got[n]
		if !ok {
			t.Fatalf("%s missing from assignment", n.Path)
		}
		if r.W != 0 || r.H != 0 {
			t.Errorf("%s: expected degenerate rect, got %v", n.Path, r)
		}
	}
}

func TestLayoutFilteredChildrenExpand(t *testing.T) {
	view := model.Filter(buildSample(t), 60)
	bounds := Rect{W: 200, H: 100}

	got, err := Layout(view, bounds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	// Only directory a survives the filter; its area grows to fill the
	// whole map even though its total stays 150 of 200.
	a := view.Children[0]
	if !almostEq(got[a].Area(), bounds.Area(), 1e-6) {
		t.Errorf("surviving child should fill bounds, got area %g", got[a].Area())
	}
	if a.Total != 150 {
		t.Errorf("filtering changed a's total: %d", a.Total)
	}
}

func TestLayoutMaxDepth(t *testing.T) {
	root := buildSample(t)

	got, err := NewLayouter(WithMaxDepth(1)).Compute(root, Rect{W: 100, H: 100})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	// Root plus its two children; nothing below.
	if len(got) != 3 {
		t.Errorf("expected 3 assigned nodes at depth 1, got %d", len(got))
	}
	x := root.Children[0].Children[0]
	if _, ok := got[x]; ok {
		t.Errorf("%s should not be assigned below max depth", x.Path)
	}
}

func TestLayoutInvalidBounds(t *testing.T) {
	root := buildSample(t)
	for _, bounds := range []Rect{
		{W: 0, H: 100},
		{W: 200, H: 0},
		{W: -10, H: 100},
		{W: 200, H: -1},
	} {
		got, err := Layout(root, bounds)
		if !errors.Is(err, ErrInvalidBounds) {
			t.Errorf("bounds %v: expected ErrInvalidBounds, got %v", bounds, err)
		}
		if got != nil {
			t.Errorf("bounds %v: expected no assignment on failure", bounds)
		}
	}
}

func TestLayoutInvalidSize(t *testing.T) {
	bad := &model.Node{Name: "bad", Path: "bad", Total: -5}
	root := &model.Node{Name: "root", IsDir: true, Total: 5,
		Children: []*model.Node{{Name: "ok", Path: "ok", Total: 10}, bad}}

	got, err := Layout(root, Rect{W: 10, H: 10})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if got != nil {
		t.Error("expected no assignment on failure")
	}

	negRoot := &model.Node{Name: "root", Total: -1}
	if _, err := Layout(negRoot, Rect{W: 10, H: 10}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("negative root: expected ErrInvalidSize, got %v", err)
	}
}
