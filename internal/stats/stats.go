// Package stats aggregates per-category totals from a scanned tree.
package stats

import (
	"sort"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// CategoryTotal is the aggregate footprint of one category.
type CategoryTotal struct {
	Category string
	Files    int64
	Bytes    int64
}

// Summary holds whole-tree counters plus a per-category breakdown.
// Dirs excludes the root itself; Bytes counts file sizes only.
type Summary struct {
	Files int64
	Dirs  int64
	Bytes int64

	categories map[string]*CategoryTotal
}

// Collect tallies files, directories and bytes per category. Categories
// are read from Node.Category as stamped by the caller; nodes without
// one are grouped under the empty string.
func Collect(root *model.Node) *Summary {
	s := &Summary{categories: make(map[string]*CategoryTotal)}
	if root == nil {
		return s
	}
	model.Walk(root, func(n *model.Node) {
		if n.IsDir {
			if n != root {
				s.Dirs++
			}
			return
		}
		s.Files++
		s.Bytes += n.Size
		ct, ok := s.categories[n.Category]
		if !ok {
			ct = &CategoryTotal{Category: n.Category}
			s.categories[n.Category] = ct
		}
		ct.Files++
		ct.Bytes += n.Size
	})
	return s
}

// Category returns the totals recorded for one category.
func (s *Summary) Category(name string) (CategoryTotal, bool) {
	ct, ok := s.categories[name]
	if !ok {
		return CategoryTotal{}, false
	}
	return *ct, true
}

// Top returns the n largest categories by bytes, ties broken by name.
// n <= 0 returns all of them.
func (s *Summary) Top(n int) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(s.categories))
	for _, ct := range s.categories {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bytes != out[j].Bytes {
			return out[i].Bytes > out[j].Bytes
		}
		return out[i].Category < out[j].Category
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
