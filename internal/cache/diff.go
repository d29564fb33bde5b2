package cache

import (
	"sort"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// ChangeKind classifies one diff entry
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Grown
	Shrunk
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Grown:
		return "grown"
	case Shrunk:
		return "shrunk"
	default:
		return "unknown"
	}
}

// Change reports how one path moved between two scans. Directories
// appear alongside the files that moved them, since their totals
// change with their contents.
type Change struct {
	Path   string
	Kind   ChangeKind
	Before int64
	After  int64
}

// Delta returns the signed size difference
func (c Change) Delta() int64 { return c.After - c.Before }

// Diff aligns two trees by path and reports every node whose total
// changed, biggest absolute delta first, ties broken by path. Neither
// tree is modified.
func Diff(before, after *model.Node) []Change {
	prev := make(map[string]int64)
	model.Walk(before, func(n *model.Node) { prev[n.Path] = n.Total })

	var changes []Change
	seen := make(map[string]struct{})
	model.Walk(after, func(n *model.Node) {
		seen[n.Path] = struct{}{}
		b, existed := prev[n.Path]
		switch {
		case !existed:
			changes = append(changes, Change{Path: n.Path, Kind: Added, After: n.Total})
		case n.Total > b:
			changes = append(changes, Change{Path: n.Path, Kind: Grown, Before: b, After: n.Total})
		case n.Total < b:
			changes = append(changes, Change{Path: n.Path, Kind: Shrunk, Before: b, After: n.Total})
		}
	})
	model.Walk(before, func(n *model.Node) {
		if _, ok := seen[n.Path]; !ok {
			changes = append(changes, Change{Path: n.Path, Kind: Removed, Before: n.Total})
		}
	})

	sort.Slice(changes, func(i, j int) bool {
		di, dj := abs(changes[i].Delta()), abs(changes[j].Delta())
		if di != dj {
			return di > dj
		}
		return changes[i].Path < changes[j].Path
	})
	return changes
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
