package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/model"
	"github.com/lumipallolabs/dirmap/internal/treemap"
)

// Block represents a rectangle in the treemap
type Block struct {
	Node          *model.Node
	X, Y          int
	Width, Height int
	// For grouped items (when Node is nil)
	IsGrouped  bool
	GroupCount int
	GroupSize  int64
}

// TreemapPanel displays a treemap visualization
type TreemapPanel struct {
	root       *model.Node
	focus      *model.Node
	selected   *model.Node
	blocks     []Block
	width      int
	height     int
	focused    bool
	palette    *category.Palette
	resolution int64
	layouter   *treemap.Layouter

	// Render cache
	cachedView     string
	cacheValid     bool
	cachedFocus    *model.Node
	cachedSelected *model.Node
	cachedFocused  bool
}

// NewTreemapPanel creates a new treemap panel
func NewTreemapPanel() TreemapPanel {
	return TreemapPanel{
		palette:  category.NewPalette(nil),
		layouter: treemap.NewLayouter(treemap.WithMaxDepth(1)),
	}
}

// SetRoot sets the root node
func (t *TreemapPanel) SetRoot(root *model.Node) {
	t.root = root
	t.focus = root
	t.selected = root
	t.layout()
}

// SetPalette sets the category color palette
func (t *TreemapPanel) SetPalette(p *category.Palette) {
	if p != nil {
		t.palette = p
		t.cacheValid = false
	}
}

// SetResolution hides children smaller than the scan total divided by
// resolution, mirroring the minimum pixel size of a graphical treemap
func (t *TreemapPanel) SetResolution(resolution int64) {
	if t.resolution == resolution {
		return
	}
	t.resolution = resolution
	t.layout()
}

// SetSize sets the panel dimensions
func (t *TreemapPanel) SetSize(w, h int) {
	if t.width != w || t.height != h {
		t.width = w
		t.height = h
		t.cacheValid = false
		t.layout()
	}
}

// SetFocused sets focus state
func (t *TreemapPanel) SetFocused(focused bool) {
	t.focused = focused
}

// SetFocus sets the focus node (what to display in treemap).
// If a file is selected, shows its parent directory contents instead.
func (t *TreemapPanel) SetFocus(node *model.Node) {
	if node == nil {
		return
	}
	// Files: show parent directory so file appears among siblings
	if !node.IsDir && node.Parent != nil {
		t.focus = node.Parent
	} else {
		t.focus = node
	}
	t.layout()
}

// SetSelected sets the selected node (for sync from tree)
func (t *TreemapPanel) SetSelected(node *model.Node) {
	if node == nil {
		return
	}
	t.selected = node
	t.cacheValid = false

	// Update focus if selected is outside current focus
	if t.focus != nil && !t.isDescendant(node, t.focus) {
		t.focus = t.findAncestorUnderRoot(node)
		t.layout()
	}
}

// Selected returns the currently selected node
func (t TreemapPanel) Selected() *model.Node {
	return t.selected
}

// SelectFirst selects the first non-grouped block
func (t *TreemapPanel) SelectFirst() {
	for i := range t.blocks {
		if !t.blocks[i].IsGrouped && t.blocks[i].Node != nil {
			t.selected = t.blocks[i].Node
			t.cacheValid = false
			return
		}
	}
}

// ZoomIn focuses on the selected folder
func (t *TreemapPanel) ZoomIn() {
	if t.selected != nil && t.selected.IsDir && len(t.selected.Children) > 0 {
		t.focus = t.selected
		t.layout()
	}
}

// ZoomOut goes to parent folder
func (t *TreemapPanel) ZoomOut() {
	if t.focus != nil && t.focus.Parent != nil {
		t.focus = t.focus.Parent
		t.layout()
	}
}

// MoveToBlock moves selection to an adjacent block
func (t *TreemapPanel) MoveToBlock(dx, dy int) {
	if len(t.blocks) == 0 {
		return
	}

	var currentBlock *Block
	for i := range t.blocks {
		if !t.blocks[i].IsGrouped && t.blocks[i].Node == t.selected {
			currentBlock = &t.blocks[i]
			break
		}
	}

	if currentBlock == nil {
		t.SelectFirst()
		return
	}

	// Find center of current block
	cx := currentBlock.X + currentBlock.Width/2
	cy := currentBlock.Y + currentBlock.Height/2

	// Find best candidate in the requested direction
	var bestBlock *Block
	bestDist := -1

	for i := range t.blocks {
		block := &t.blocks[i]
		if block.IsGrouped || block.Node == nil || block.Node == t.selected {
			continue
		}

		bx := block.X + block.Width/2
		by := block.Y + block.Height/2

		if dx > 0 && bx <= cx {
			continue
		}
		if dx < 0 && bx >= cx {
			continue
		}
		if dy > 0 && by <= cy {
			continue
		}
		if dy < 0 && by >= cy {
			continue
		}

		dist := abs(bx-cx) + abs(by-cy)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestBlock = block
		}
	}

	if bestBlock != nil && bestBlock.Node != nil {
		t.selected = bestBlock.Node
		t.cacheValid = false
	}
}

const (
	minBlockWidth   = 8  // minimum width for any block (fits short label)
	minBlockHeight  = 3  // minimum height for any block (border + 1 line text)
	maxVisibleItems = 15 // max items before grouping remainder into "N more"

	// Layout constants for treemap panel (no outer border - blocks have their own)
	treemapBorderH = 2 // margin for rightmost block borders
	treemapBorderV = 0 // no vertical margin needed
)

// layout calculates block positions
func (t *TreemapPanel) layout() {
	t.blocks = nil
	t.cacheValid = false

	if t.focus == nil || t.width <= 2 || t.height <= 2 {
		return
	}

	contentW := t.width - treemapBorderH
	contentH := t.height - treemapBorderV
	if contentW < 1 {
		contentW = 1
	}
	if contentH < 1 {
		contentH = 1
	}

	items := t.displayChildren()
	if len(items) == 0 {
		return
	}

	var total int64
	for _, n := range items {
		total += n.Total
	}
	if total == 0 {
		// Nothing measurable to tile; show the focus as one block
		t.blocks = append(t.blocks, Block{
			Node: t.focus, X: 0, Y: 0, Width: contentW, Height: contentH,
		})
		return
	}

	bounds := treemap.Rect{W: float64(contentW), H: float64(contentH)}

	var (
		placed  treemap.Assignment
		display []*model.Node
		grouped bool
	)

	// Shrink the visible count until every block meets the minimum
	// dimensions, grouping the remainder into a bottom "N more" strip.
	maxVisible := len(items)
	if maxVisible > maxVisibleItems {
		maxVisible = maxVisibleItems
	}
	// Grouping needs room for a main block above the strip
	canGroup := contentH >= minBlockHeight*2

	for maxVisible >= 2 {
		numVisible := maxVisible
		if numVisible > len(items) {
			numVisible = len(items)
		}

		// Only group when 2+ items remain (never show "1 more")
		grouped = canGroup && len(items)-numVisible >= 2
		mainRect := bounds
		if grouped {
			mainRect.H = float64(contentH - minBlockHeight)
			numVisible = maxVisible - 1
			if numVisible > len(items) {
				numVisible = len(items)
			}
			grouped = len(items)-numVisible >= 2
		}

		display = items[:numVisible]
		asn, err := t.layouter.Compute(syntheticRoot(display), mainRect)
		if err != nil {
			return
		}

		allFit := true
		for _, n := range display {
			r := asn[n]
			w := int(math.Floor(r.X+r.W)) - int(math.Floor(r.X))
			h := int(math.Floor(r.Y+r.H)) - int(math.Floor(r.Y))
			if w < minBlockWidth || h < minBlockHeight {
				allFit = false
				break
			}
		}

		if allFit {
			placed = asn
			break
		}
		maxVisible--
	}

	// Edge case: not even 2 items fit, show the largest alone
	if placed == nil {
		display = items[:1]
		grouped = canGroup && len(items) > 2
		mainRect := bounds
		if grouped {
			mainRect.H = float64(contentH - minBlockHeight)
		}
		asn, err := t.layouter.Compute(syntheticRoot(display), mainRect)
		if err != nil {
			return
		}
		placed = asn
	}

	if grouped {
		var groupSize int64
		for _, n := range items[len(display):] {
			groupSize += n.Total
		}
		t.blocks = append(t.blocks, Block{
			X:          0,
			Y:          contentH - minBlockHeight,
			Width:      contentW,
			Height:     minBlockHeight,
			IsGrouped:  true,
			GroupCount: len(items) - len(display),
			GroupSize:  groupSize,
		})
	}

	// Convert layout rects to character cells. Rounding both edges
	// keeps adjacent blocks from overwriting each other's borders.
	maxMainBlockEndY := 0
	for _, n := range display {
		r := placed[n]
		x := int(math.Round(r.X))
		y := int(math.Round(r.Y))
		endX := int(math.Round(r.X + r.W))
		endY := int(math.Round(r.Y + r.H))
		w := endX - x
		h := endY - y

		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		if endX > contentW {
			w = contentW - x
		}
		if endY > contentH {
			h = contentH - y
		}
		if w < 1 || h < 1 || x >= contentW || y >= contentH {
			continue
		}

		if y+h > maxMainBlockEndY {
			maxMainBlockEndY = y + h
		}

		t.blocks = append(t.blocks, Block{
			Node:   n,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})
	}

	// Snap the "N more" block against the main blocks so no gap shows
	for i := range t.blocks {
		if t.blocks[i].IsGrouped {
			t.blocks[i].Y = maxMainBlockEndY
			t.blocks[i].Height = contentH - maxMainBlockEndY
			if t.blocks[i].Height < 1 {
				t.blocks[i].Height = 1
			}
			break
		}
	}
}

// displayChildren returns the focus children that survive the
// resolution cutoff, largest first. A file or childless directory is
// displayed as itself.
func (t *TreemapPanel) displayChildren() []*model.Node {
	if !t.focus.IsDir || len(t.focus.Children) == 0 {
		return []*model.Node{t.focus}
	}

	var minSize int64
	if t.resolution > 0 && t.root != nil {
		minSize = t.root.Total / t.resolution
	}

	// Children arrive sorted from the builder
	kept := make([]*model.Node, 0, len(t.focus.Children))
	for _, child := range t.focus.Children {
		if minSize > 0 && child.Total < minSize {
			continue
		}
		kept = append(kept, child)
	}
	if len(kept) == 0 {
		return []*model.Node{t.focus}
	}
	return kept
}

// syntheticRoot wraps the display nodes so the layouter tiles exactly
// this set, normalized to the full rect.
func syntheticRoot(display []*model.Node) *model.Node {
	root := &model.Node{IsDir: true, Children: display}
	for _, n := range display {
		root.Total += n.Total
	}
	return root
}

// View renders the treemap
func (t *TreemapPanel) View() string {
	if t.focus == nil {
		return TreemapPanelStyle.Render("No data")
	}

	if t.cacheValid &&
		t.cachedFocus == t.focus &&
		t.cachedSelected == t.selected &&
		t.cachedFocused == t.focused {
		return t.cachedView
	}

	contentW := t.width - treemapBorderH
	contentH := t.height - treemapBorderV
	if contentW < 1 {
		contentW = 1
	}
	if contentH < 1 {
		contentH = 1
	}

	// Render each block with lipgloss, then composite line by line
	type renderedBlock struct {
		block Block
		lines []string
	}

	var rendered []renderedBlock
	for _, block := range t.blocks {
		if block.Width < 1 || block.Height < 1 {
			continue
		}
		lines := strings.Split(t.renderBlock(block), "\n")
		rendered = append(rendered, renderedBlock{block, lines})
	}

	var outputLines []string
	for y := 0; y < contentH; y++ {
		type blockSegment struct {
			x     int
			width int
			line  string
		}
		var segments []blockSegment

		for _, rb := range rendered {
			lineIdx := y - rb.block.Y
			if lineIdx >= 0 && lineIdx < len(rb.lines) && lineIdx < rb.block.Height {
				segments = append(segments, blockSegment{
					x:     rb.block.X,
					width: rb.block.Width,
					line:  rb.lines[lineIdx],
				})
			}
		}

		sort.Slice(segments, func(i, j int) bool {
			return segments[i].x < segments[j].x
		})

		var lineBuilder strings.Builder
		currentX := 0
		for _, seg := range segments {
			if seg.x > currentX {
				lineBuilder.WriteString(strings.Repeat(" ", seg.x-currentX))
			}
			lineBuilder.WriteString(seg.line)
			currentX = seg.x + seg.width
		}
		outputLines = append(outputLines, lineBuilder.String())
	}

	content := strings.Join(outputLines, "\n")
	style := lipgloss.NewStyle().Height(t.height).MaxHeight(t.height)

	t.cachedView = style.Render(content)
	t.cacheValid = true
	t.cachedFocus = t.focus
	t.cachedSelected = t.selected
	t.cachedFocused = t.focused

	return t.cachedView
}

// renderBlock renders a complete block with its border and label
func (t TreemapPanel) renderBlock(block Block) string {
	var fgColor, borderColor lipgloss.Color

	if block.IsGrouped {
		fgColor = lipgloss.Color("#6B7280")
		borderColor = lipgloss.Color("#4B5563")
	} else if block.Node != nil {
		// Border carries the category color
		c := lipgloss.Color(t.palette.Color(category.Token(block.Node.Category)))
		fgColor = c
		borderColor = c
	}

	isSelected := block.Node == t.selected && block.Node != nil
	if isSelected && t.focused {
		fgColor = lipgloss.Color("#FFFFFF")
		borderColor = ColorPrimary
	} else if isSelected {
		fgColor = lipgloss.Color("#E0E0E0")
		borderColor = lipgloss.Color("#9D7CD8") // dimmer violet
	}

	var label, sizeStr string
	if block.IsGrouped {
		label = fmt.Sprintf("%d more", block.GroupCount)
		sizeStr = FormatSize(block.GroupSize)
	} else if block.Node != nil {
		label = block.Node.Name
		sizeStr = FormatSize(block.Node.Total)
	}

	innerW := block.Width - 2
	innerH := block.Height - 2
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}

	text := label
	if innerH > 1 && sizeStr != "" {
		text = label + "\n" + sizeStr
	}

	blockStyle := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Foreground(fgColor)

	if isSelected {
		blockStyle = blockStyle.Bold(true)
	}

	return blockStyle.Render(text)
}

// isDescendant checks if node is a descendant of ancestor
func (t TreemapPanel) isDescendant(node, ancestor *model.Node) bool {
	if node == nil || ancestor == nil {
		return false
	}
	for n := node; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// findAncestorUnderRoot finds the ancestor of node that is a direct child of root
func (t TreemapPanel) findAncestorUnderRoot(node *model.Node) *model.Node {
	if node == nil || t.root == nil {
		return t.root
	}

	for n := node; n != nil; n = n.Parent {
		if n.Parent == t.root {
			return n
		}
		if n == t.root {
			return t.root
		}
	}
	return t.root
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
