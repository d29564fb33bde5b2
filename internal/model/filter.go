package model

// Filter returns a pruned copy of the tree for display: any node whose
// Total is below minSize disappears from its parent's children, but the
// totals carried by surviving nodes stay exactly as computed on the
// unfiltered tree. What is shown shrinks; what is counted never does.
// minSize of 0 returns a copy isomorphic to the input.
func Filter(root *Node, minSize int64) *Node {
	return FilterFunc(root, func(n *Node) bool { return n.Total >= minSize })
}

// FilterFunc generalizes Filter to an arbitrary predicate over children.
// The root is always kept. Callers wanting zero-size placeholders in a
// tree view but not in the map pass different predicates per surface.
func FilterFunc(root *Node, keep func(*Node) bool) *Node {
	if root == nil {
		return nil
	}
	return cloneKept(root, nil, keep)
}

func cloneKept(n, parent *Node, keep func(*Node) bool) *Node {
	clone := &Node{
		Path:     n.Path,
		Name:     n.Name,
		Size:     n.Size,
		Total:    n.Total,
		IsDir:    n.IsDir,
		Category: n.Category,
		Parent:   parent,
	}
	for _, child := range n.Children {
		if !keep(child) {
			continue
		}
		clone.Children = append(clone.Children, cloneKept(child, clone, keep))
	}
	return clone
}
