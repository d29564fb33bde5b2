package model

// Node represents a file or directory in the built tree
type Node struct {
	Path     string // slash path relative to the tree root, "" for the root
	Name     string
	Size     int64 // bytes owned directly (0 for directories with no direct content)
	Total    int64 // bytes including all descendants
	IsDir    bool
	Category string // opaque classification token, set by a collaborator
	Children []*Node
	Parent   *Node
}

// computeTotals caches aggregate sizes for the entire subtree, bottom-up.
// Files contribute their own size; directories add all descendants.
func (n *Node) computeTotals() int64 {
	n.Total = n.Size
	for _, child := range n.Children {
		n.Total += child.computeTotals()
	}
	return n.Total
}
