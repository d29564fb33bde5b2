package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/model"
)

func TestTreemapBlocksStayInBounds(t *testing.T) {
	p := NewTreemapPanel()
	p.SetRoot(buildPanelTree(t))
	p.SetSize(80, 24)

	if len(p.blocks) == 0 {
		t.Fatal("no blocks laid out")
	}

	contentW := 80 - treemapBorderH
	contentH := 24 - treemapBorderV
	for _, b := range p.blocks {
		if b.X < 0 || b.Y < 0 || b.X+b.Width > contentW || b.Y+b.Height > contentH {
			t.Errorf("block %+v outside %dx%d content area", b, contentW, contentH)
		}
		if !b.IsGrouped && (b.Width < 1 || b.Height < 1) {
			t.Errorf("degenerate block %+v survived conversion", b)
		}
	}

	var foundMedia bool
	for _, b := range p.blocks {
		if b.Node != nil && b.Node.Name == "media" {
			foundMedia = true
		}
	}
	if !foundMedia {
		t.Error("largest child has no block")
	}
}

func TestTreemapTwoBlocksTileExactly(t *testing.T) {
	root, err := model.Build("data", []model.Record{
		{Path: "alpha.bin", Size: 6000},
		{Path: "beta.bin", Size: 4000},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	category.Annotate(root)

	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(80, 20)

	if len(p.blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(p.blocks))
	}

	contentW := 80 - treemapBorderH
	area := 0
	for _, b := range p.blocks {
		area += b.Width * b.Height
	}
	if area != contentW*20 {
		t.Errorf("blocks cover %d cells, want %d (no gaps, no overlap)", area, contentW*20)
	}
}

func TestTreemapGroupsOverflow(t *testing.T) {
	records := make([]model.Record, 0, 20)
	for i := 0; i < 20; i++ {
		records = append(records, model.Record{
			Path: fmt.Sprintf("file%02d.dat", i),
			Size: 1000,
		})
	}
	root, err := model.Build("data", records)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	category.Annotate(root)

	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(100, 30)

	var grouped *Block
	main := 0
	for i := range p.blocks {
		if p.blocks[i].IsGrouped {
			grouped = &p.blocks[i]
		} else {
			main++
		}
	}

	if grouped == nil {
		t.Fatal("20 equal items produced no grouped block")
	}
	if main > maxVisibleItems {
		t.Errorf("%d main blocks, want at most %d", main, maxVisibleItems)
	}
	if grouped.GroupCount != 20-main {
		t.Errorf("GroupCount = %d, want %d", grouped.GroupCount, 20-main)
	}
	if want := int64(grouped.GroupCount) * 1000; grouped.GroupSize != want {
		t.Errorf("GroupSize = %d, want %d", grouped.GroupSize, want)
	}

	if view := p.View(); !strings.Contains(view, fmt.Sprintf("%d more", grouped.GroupCount)) {
		t.Error("view does not label the grouped block")
	}
}

func TestTreemapResolutionCutoff(t *testing.T) {
	root, err := model.Build("data", []model.Record{
		{Path: "big.bin", Size: 9950},
		{Path: "tiny.txt", Size: 50},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	category.Annotate(root)

	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(80, 24)

	kept := p.displayChildren()
	if len(kept) != 2 {
		t.Fatalf("no resolution set: displayChildren = %d, want 2", len(kept))
	}

	// Cutoff is total/resolution = 10000/100 = 100 bytes. Setting the
	// resolution relays out immediately.
	p.SetResolution(100)
	kept = p.displayChildren()
	if len(kept) != 1 || kept[0].Name != "big.bin" {
		t.Fatalf("displayChildren = %v, want [big.bin]", kept)
	}
	for _, b := range p.blocks {
		if b.Node != nil && b.Node.Name == "tiny.txt" {
			t.Error("block laid out for a child below the cutoff")
		}
	}
}

func TestTreemapZoomNavigation(t *testing.T) {
	root := buildPanelTree(t)
	media := findNode(t, root, "media")

	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(80, 24)

	p.SetSelected(media)
	p.ZoomIn()
	if p.focus != media {
		t.Fatalf("focus = %v, want media", p.focus)
	}

	p.ZoomOut()
	if p.focus != root {
		t.Errorf("focus after zoom out = %v, want root", p.focus)
	}

	// Zooming into a file does nothing
	readme := findNode(t, root, "README.md")
	p.SetSelected(readme)
	p.ZoomIn()
	if p.focus != root {
		t.Errorf("zooming into a file moved focus to %v", p.focus)
	}
}

func TestTreemapFocusOnFileShowsParent(t *testing.T) {
	root := buildPanelTree(t)
	movie := findNode(t, root, "media/movie.mp4")
	media := findNode(t, root, "media")

	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(80, 24)

	p.SetFocus(movie)
	if p.focus != media {
		t.Errorf("focus = %v, want the file's parent", p.focus)
	}
}

func TestTreemapSelectionOutsideFocusRefocuses(t *testing.T) {
	root := buildPanelTree(t)
	docs := findNode(t, root, "docs")
	movie := findNode(t, root, "media/movie.mp4")
	media := findNode(t, root, "media")

	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(80, 24)

	p.SetSelected(docs)
	p.ZoomIn()
	if p.focus != docs {
		t.Fatalf("focus = %v, want docs", p.focus)
	}

	p.SetSelected(movie)
	if p.focus != media {
		t.Errorf("focus = %v, want media (ancestor of new selection under root)", p.focus)
	}
	if p.Selected() != movie {
		t.Errorf("Selected() = %v, want movie.mp4", p.Selected())
	}
}

func TestTreemapMoveToBlock(t *testing.T) {
	root, err := model.Build("data", []model.Record{
		{Path: "alpha.bin", Size: 6000},
		{Path: "beta.bin", Size: 4000},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	category.Annotate(root)

	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(80, 20)

	p.SelectFirst()
	if p.Selected().Name != "alpha.bin" {
		t.Fatalf("SelectFirst picked %q, want alpha.bin", p.Selected().Name)
	}

	p.MoveToBlock(1, 0)
	if p.Selected().Name != "beta.bin" {
		t.Errorf("move right selected %q, want beta.bin", p.Selected().Name)
	}

	p.MoveToBlock(-1, 0)
	if p.Selected().Name != "alpha.bin" {
		t.Errorf("move left selected %q, want alpha.bin", p.Selected().Name)
	}

	// No block further right; selection stays put
	p.MoveToBlock(1, 0)
	p.MoveToBlock(1, 0)
	if p.Selected().Name != "beta.bin" {
		t.Errorf("move past the edge selected %q, want beta.bin", p.Selected().Name)
	}
}

func TestTreemapViewCache(t *testing.T) {
	root := buildPanelTree(t)
	p := NewTreemapPanel()
	p.SetRoot(root)
	p.SetSize(80, 24)

	first := p.View()
	if !p.cacheValid {
		t.Fatal("cache not primed by View")
	}
	if second := p.View(); second != first {
		t.Error("cached render differs from the first")
	}

	p.SetSelected(findNode(t, root, "docs"))
	if p.cacheValid {
		t.Error("selection change did not invalidate the render cache")
	}
}
