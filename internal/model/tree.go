package model

import "sort"

// SortBySize sorts nodes by total size descending, then by name ascending
func SortBySize(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Total != nodes[j].Total {
			return nodes[i].Total > nodes[j].Total
		}
		return nodes[i].Name < nodes[j].Name
	})
}

// Walk visits n and every descendant in depth-first pre-order
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		Walk(child, fn)
	}
}
