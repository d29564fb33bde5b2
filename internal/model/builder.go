package model

import "strings"

// Builder assembles a tree from records, creating intermediate
// directories on demand. Inserts must come from a single goroutine;
// partition by top-level subtree and merge if producers are parallel.
type Builder struct {
	root     *Node
	nodes    map[string]*Node
	recorded map[string]struct{}
	err      error
}

// New returns a Builder whose root directory carries the given name
func New(name string) *Builder {
	root := &Node{Name: name, IsDir: true}
	return &Builder{
		root:     root,
		nodes:    map[string]*Node{"": root},
		recorded: make(map[string]struct{}),
	}
}

// Add inserts one record. The first failure sticks: every later call
// returns the same error and Build reports it instead of a tree.
func (b *Builder) Add(rec Record) error {
	if b.err != nil {
		return b.err
	}
	if err := b.insert(rec); err != nil {
		b.err = err
	}
	return b.err
}

// Build finalizes the tree: aggregate sizes are computed bottom-up and
// every child list is sorted by total descending, name ascending. The
// builder must not be reused afterwards. No tree is returned if any
// record was rejected.
func (b *Builder) Build() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.root.computeTotals()
	sortTree(b.root)
	return b.root, nil
}

// Build constructs a tree named name from records in any order
func Build(name string, records []Record) (*Node, error) {
	b := New(name)
	for _, rec := range records {
		if err := b.Add(rec); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func (b *Builder) insert(rec Record) error {
	segs, reason := splitSegments(rec.Path)
	if reason != "" {
		return malformed(rec, reason)
	}
	if rec.Size < 0 {
		return malformed(rec, "negative size")
	}

	cur := b.root
	path := ""
	for i, seg := range segs {
		if path == "" {
			path = seg
		} else {
			path += "/" + seg
		}
		last := i == len(segs)-1

		child, ok := b.nodes[path]
		if !ok {
			child = &Node{Path: path, Name: seg, IsDir: true, Parent: cur}
			if last {
				child.IsDir = rec.IsDir
				child.Size = rec.Size
			}
			cur.Children = append(cur.Children, child)
			b.nodes[path] = child
		} else if last {
			if _, dup := b.recorded[path]; dup {
				return duplicate(rec, "path already recorded")
			}
			// The node exists only as an intermediate directory created
			// by a deeper record, so a file record here is a kind clash.
			if !rec.IsDir {
				return duplicate(rec, "recorded as file but other records make it a directory")
			}
			child.Size = rec.Size
		} else if !child.IsDir {
			return duplicate(rec, "ancestor "+child.Path+" already recorded as a file")
		}

		if last {
			b.recorded[path] = struct{}{}
		}
		cur = child
	}
	return nil
}

// splitSegments validates and splits a record path. The empty reason
// means the path is acceptable.
func splitSegments(p string) ([]string, string) {
	if p == "" {
		return nil, "empty path"
	}
	if strings.HasPrefix(p, "/") {
		return nil, "absolute path"
	}
	segs := strings.Split(p, "/")
	for _, s := range segs {
		switch s {
		case "":
			return nil, "empty segment"
		case ".":
			return nil, "path not cleaned"
		case "..":
			return nil, "path escapes root"
		}
	}
	return segs, ""
}

func sortTree(n *Node) {
	SortBySize(n.Children)
	for _, child := range n.Children {
		sortTree(child)
	}
}
