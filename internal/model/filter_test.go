package model

import "testing"

func buildSample(t *testing.T) *Node {
	t.Helper()
	root, err := Build("root", []Record{
		{Path: "a/x.txt", Size: 100},
		{Path: "a/y.txt", Size: 50},
		{Path: "b.txt", Size: 50},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return root
}

func TestFilterKeepsAncestorTotals(t *testing.T) {
	root := buildSample(t)

	view := Filter(root, 60)

	// b.txt (50) and a/y.txt (50) fall below the threshold; a survives.
	if len(view.Children) != 1 || view.Children[0].Name != "a" {
		t.Fatalf("expected only 'a' to survive, got %d children", len(view.Children))
	}
	a := view.Children[0]
	if len(a.Children) != 1 || a.Children[0].Name != "x.txt" {
		t.Fatalf("expected only x.txt under a, got %d children", len(a.Children))
	}

	// Displayed totals still reflect the unfiltered tree.
	if a.Total != 150 {
		t.Errorf("a total after filter: expected 150, got %d", a.Total)
	}
	if view.Total != 200 {
		t.Errorf("root total after filter: expected 200, got %d", view.Total)
	}
	t.Logf("filtered view keeps a=%d root=%d", a.Total, view.Total)
}

func TestFilterZeroIsIsomorphic(t *testing.T) {
	root := buildSample(t)

	view := Filter(root, 0)

	if view == root {
		t.Fatal("filter must return a copy, not the input")
	}
	if !treesEqual(root, view) {
		t.Error("minSize 0 should preserve the tree exactly")
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	root := buildSample(t)
	before := countNodes(root)

	Filter(root, 1000)

	if after := countNodes(root); after != before {
		t.Errorf("input tree changed: %d nodes before, %d after", before, after)
	}
	if root.Children[0].Total != 150 {
		t.Errorf("input totals changed: got %d", root.Children[0].Total)
	}
}

func TestFilterParentLinks(t *testing.T) {
	view := Filter(buildSample(t), 0)

	Walk(view, func(n *Node) {
		for _, c := range n.Children {
			if c.Parent != n {
				t.Errorf("child %s points at the wrong parent", c.Path)
			}
		}
	})
	if view.Parent != nil {
		t.Error("filtered root must have no parent")
	}
}

func TestFilterFuncPredicate(t *testing.T) {
	root := buildSample(t)

	dirsOnly := FilterFunc(root, func(n *Node) bool { return n.IsDir })

	if len(dirsOnly.Children) != 1 || dirsOnly.Children[0].Name != "a" {
		t.Fatalf("expected only directory children, got %d", len(dirsOnly.Children))
	}
	if len(dirsOnly.Children[0].Children) != 0 {
		t.Error("files should have been pruned under a")
	}
}

func countNodes(n *Node) int {
	total := 0
	Walk(n, func(*Node) { total++ })
	return total
}
