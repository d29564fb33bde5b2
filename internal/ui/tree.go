package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/dirmap/internal/model"
)

const treeSizeBarWidth = 4 // Width of size proportion bar [████]

// TreePanel displays the folder tree
type TreePanel struct {
	root     *model.Node
	cursor   int
	expanded map[string]bool
	visible  []*model.Node
	width    int
	height   int
	focused  bool
	offset   int // scroll offset
}

// NewTreePanel creates a new tree panel
func NewTreePanel() TreePanel {
	return TreePanel{
		expanded: make(map[string]bool),
	}
}

// SetRoot sets the root node
func (t *TreePanel) SetRoot(root *model.Node) {
	t.root = root
	t.cursor = 0
	t.offset = 0
	t.expanded = make(map[string]bool)
	if root != nil {
		t.expanded[root.Path] = true
	}
	t.updateVisible()
}

// SetSize sets the panel dimensions
func (t *TreePanel) SetSize(w, h int) {
	t.width = w
	t.height = h
}

// SetFocused sets focus state
func (t *TreePanel) SetFocused(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected node
func (t TreePanel) Selected() *model.Node {
	if t.cursor >= 0 && t.cursor < len(t.visible) {
		return t.visible[t.cursor]
	}
	return nil
}

// MoveUp moves cursor up
func (t *TreePanel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureVisible()
	}
}

// MoveDown moves cursor down
func (t *TreePanel) MoveDown() {
	if t.cursor < len(t.visible)-1 {
		t.cursor++
		t.ensureVisible()
	}
}

// PageUp moves cursor up by quarter page
func (t *TreePanel) PageUp() {
	pageSize := (t.height - 4) / 4
	if pageSize < 1 {
		pageSize = 1
	}
	t.cursor -= pageSize
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureVisible()
}

// PageDown moves cursor down by quarter page
func (t *TreePanel) PageDown() {
	pageSize := (t.height - 4) / 4
	if pageSize < 1 {
		pageSize = 1
	}
	t.cursor += pageSize
	if t.cursor >= len(t.visible) {
		t.cursor = len(t.visible) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureVisible()
}

// Collapse collapses current folder
func (t *TreePanel) Collapse() {
	if node := t.Selected(); node != nil && node.IsDir {
		delete(t.expanded, node.Path)
		t.updateVisible()
	}
}

// Expand expands current folder
func (t *TreePanel) Expand() {
	if node := t.Selected(); node != nil && node.IsDir {
		t.expanded[node.Path] = true
		t.updateVisible()
	}
}

// Toggle toggles expand/collapse of current folder
func (t *TreePanel) Toggle() {
	if node := t.Selected(); node != nil && node.IsDir {
		if t.expanded[node.Path] {
			delete(t.expanded, node.Path)
		} else {
			t.expanded[node.Path] = true
		}
		t.updateVisible()
	}
}

// GoToTop moves to first item
func (t *TreePanel) GoToTop() {
	t.cursor = 0
	t.offset = 0
}

// GoToBottom moves to last item
func (t *TreePanel) GoToBottom() {
	t.cursor = len(t.visible) - 1
	t.ensureVisible()
}

// ExpandTo expands the tree to show and select a specific node
func (t *TreePanel) ExpandTo(node *model.Node) {
	if node == nil {
		return
	}

	for n := node; n != nil; n = n.Parent {
		if n.IsDir {
			t.expanded[n.Path] = true
		}
	}
	t.updateVisible()

	for i, n := range t.visible {
		if n == node {
			t.cursor = i
			t.ensureVisible()
			break
		}
	}
}

func (t *TreePanel) ensureVisible() {
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	maxVisible := t.height - 2 // account for borders
	if maxVisible < 1 {
		maxVisible = 1
	}
	if t.cursor >= t.offset+maxVisible {
		t.offset = t.cursor - maxVisible + 1
	}
}

func (t *TreePanel) updateVisible() {
	t.visible = nil
	if t.root == nil {
		return
	}
	t.collectVisible(t.root)
}

// collectVisible walks expanded directories. Children are already in
// display order: the builder sorts them largest first.
func (t *TreePanel) collectVisible(node *model.Node) {
	t.visible = append(t.visible, node)

	if node.IsDir && t.expanded[node.Path] {
		for _, child := range node.Children {
			t.collectVisible(child)
		}
	}
}

func (t TreePanel) getDepth(node *model.Node) int {
	depth := 0
	for p := node.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// RequiredWidth calculates the minimum width needed to display all visible content
func (t TreePanel) RequiredWidth() int {
	if t.root == nil || len(t.visible) == 0 {
		return 30
	}

	maxWidth := 0
	for _, node := range t.visible {
		width := lipgloss.Width(t.buildLine(node))
		if width > maxWidth {
			maxWidth = width
		}
	}

	// Add border width (2 for left+right)
	return maxWidth + 2
}

// buildLine creates the text content for a node. View applies styling
// on top, so this must stay in sync for width measurement.
func (t TreePanel) buildLine(node *model.Node) string {
	depth := t.getDepth(node)

	prefix := strings.Repeat("  ", depth)
	if node.IsDir {
		if t.expanded[node.Path] {
			prefix += "▼ " // down triangle
		} else {
			prefix += "▶ " // right triangle
		}
	} else {
		prefix += "  "
	}

	// Size bar shows the share of the parent for directories
	var sizeBar string
	if node.IsDir && node.Parent != nil && node.Parent.Total > 0 {
		pct := float64(node.Total) / float64(node.Parent.Total)
		filledFloat := pct * float64(treeSizeBarWidth)
		filled := int(filledFloat)
		var bar strings.Builder
		for j := 0; j < treeSizeBarWidth; j++ {
			if j < filled {
				bar.WriteRune('█')
			} else if float64(j) < filledFloat+0.5 && filled < treeSizeBarWidth {
				bar.WriteRune('▓')
			} else {
				bar.WriteRune('░')
			}
		}
		sizeBar = "[" + bar.String() + "] "
	}

	return fmt.Sprintf("%s%s %s%s", prefix, node.Name, sizeBar, FormatSize(node.Total))
}

// View renders the tree
func (t TreePanel) View() string {
	if t.root == nil {
		return TreePanelStyle.Width(t.width).Height(t.height).Render("No data")
	}

	var lines []string
	maxVisible := t.height - 2
	if maxVisible < 1 {
		maxVisible = 1
	}

	for i := t.offset; i < len(t.visible) && len(lines) < maxVisible; i++ {
		node := t.visible[i]
		line := t.buildLine(node)

		var itemStyle lipgloss.Style
		maxW := t.width - 2
		switch {
		case i == t.cursor && t.focused:
			itemStyle = TreeItemSelected.Width(maxW).MaxWidth(maxW)
		case i == t.cursor:
			itemStyle = TreeItemSelectedUnfocused.Width(maxW).MaxWidth(maxW)
		case node.IsDir:
			itemStyle = lipgloss.NewStyle().Foreground(ColorDir).MaxWidth(maxW)
		default:
			itemStyle = lipgloss.NewStyle().Foreground(ColorFile).MaxWidth(maxW)
		}

		lines = append(lines, itemStyle.Render(line))
	}

	content := strings.Join(lines, "\n")

	style := TreePanelStyle.Width(t.width).Height(t.height)
	if t.focused {
		style = style.BorderForeground(ColorPrimary)
	}

	return style.Render(content)
}
