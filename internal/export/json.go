package export

import (
	"encoding/json"
	"io"

	"github.com/lumipallolabs/dirmap/internal/model"
)

type jsonRenderer struct {
	depth int
}

// JSONOption adjusts how WriteJSON serializes the tree.
type JSONOption func(*jsonRenderer)

// WithJSONDepth keeps only nodes up to d levels below the root. Zero or
// negative means the whole tree.
func WithJSONDepth(d int) JSONOption { return func(r *jsonRenderer) { r.depth = d } }

// jsonNode mirrors model.Node without the parent back-reference so the
// output stays acyclic.
type jsonNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path,omitempty"`
	Size     int64       `json:"size"`
	Total    int64       `json:"total"`
	Dir      bool        `json:"dir,omitempty"`
	Category string      `json:"category,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

// WriteJSON emits the tree as indented JSON with sizes, totals, and
// categories. Children keep the tree's largest-first order.
func WriteJSON(w io.Writer, tree *model.Node, opts ...JSONOption) error {
	r := &jsonRenderer{}
	for _, opt := range opts {
		opt(r)
	}

	out := r.convert(tree, 0)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (r *jsonRenderer) convert(n *model.Node, depth int) *jsonNode {
	if n == nil {
		return nil
	}
	out := &jsonNode{
		Name:     n.Name,
		Path:     n.Path,
		Size:     n.Size,
		Total:    n.Total,
		Dir:      n.IsDir,
		Category: n.Category,
	}
	if r.depth > 0 && depth >= r.depth {
		return out
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, r.convert(child, depth+1))
	}
	return out
}
