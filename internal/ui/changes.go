package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/dirmap/internal/cache"
)

const (
	changesMaxRows         = 16 // rows shown before scrolling
	changesPathColumnWidth = 40 // width for the path column
)

// ChangesOverlay lists what grew, shrank, appeared or disappeared since
// the previous snapshot in a centered, scrollable overlay
type ChangesOverlay struct {
	visible bool
	width   int
	height  int
	changes []cache.Change
	since   time.Time
	offset  int
}

// NewChangesOverlay creates a new changes overlay component
func NewChangesOverlay() ChangesOverlay {
	return ChangesOverlay{}
}

// Toggle toggles the visibility of the changes overlay
func (c *ChangesOverlay) Toggle() {
	c.visible = !c.visible
	if c.visible {
		c.offset = 0
	}
}

// SetVisible sets the visibility of the changes overlay
func (c *ChangesOverlay) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the changes overlay is visible
func (c ChangesOverlay) IsVisible() bool {
	return c.visible
}

// SetSize sets the dimensions of the changes overlay
func (c *ChangesOverlay) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// SetChanges sets the change list and the previous snapshot time
func (c *ChangesOverlay) SetChanges(changes []cache.Change, since time.Time) {
	c.changes = changes
	c.since = since
	c.offset = 0
}

// ScrollUp moves the view up one row
func (c *ChangesOverlay) ScrollUp() {
	if c.offset > 0 {
		c.offset--
	}
}

// ScrollDown moves the view down one row
func (c *ChangesOverlay) ScrollDown() {
	if c.offset < len(c.changes)-changesMaxRows {
		c.offset++
	}
}

// View renders the changes overlay
func (c ChangesOverlay) View() string {
	if !c.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	pathStyle := lipgloss.NewStyle().Foreground(ColorText)

	var content strings.Builder

	title := "Changes"
	if !c.since.IsZero() {
		title = "Changes since " + FormatTime(c.since)
	}
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n")

	if len(c.changes) == 0 {
		content.WriteString(mutedStyle.Render("Nothing changed since the last scan"))
	} else {
		end := c.offset + changesMaxRows
		if end > len(c.changes) {
			end = len(c.changes)
		}

		for i := c.offset; i < end; i++ {
			ch := c.changes[i]
			kindStyle := changeKindStyle(ch.Kind)

			path := ch.Path
			if path == "" {
				path = "."
			}
			if len(path) > changesPathColumnWidth-1 {
				runes := []rune(path)
				if len(runes) > changesPathColumnWidth-2 {
					runes = runes[len(runes)-(changesPathColumnWidth-2):]
				}
				path = "…" + string(runes)
			}

			row := kindStyle.Render(changeKindSymbol(ch.Kind)) + " " +
				pathStyle.Width(changesPathColumnWidth).Render(path) +
				kindStyle.Render(FormatDelta(ch.Delta()))

			content.WriteString(row)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		if remaining := len(c.changes) - end; remaining > 0 {
			content.WriteString("\n")
			content.WriteString(mutedStyle.Render(fmt.Sprintf("… %d more (↑↓ to scroll)", remaining)))
		} else if c.offset > 0 {
			content.WriteString("\n")
			content.WriteString(mutedStyle.Render("↑↓ to scroll"))
		}
	}

	box := boxStyle.Render(content.String())

	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, box)
}

// changeKindSymbol returns the one-character marker for a change kind
func changeKindSymbol(kind cache.ChangeKind) string {
	switch kind {
	case cache.Added:
		return "+"
	case cache.Removed:
		return "-"
	case cache.Grown:
		return "▲"
	case cache.Shrunk:
		return "▼"
	}
	return "?"
}

// changeKindStyle returns the color style for a change kind
func changeKindStyle(kind cache.ChangeKind) lipgloss.Style {
	switch kind {
	case cache.Added:
		return lipgloss.NewStyle().Foreground(ColorAdded)
	case cache.Removed:
		return lipgloss.NewStyle().Foreground(ColorRemoved)
	case cache.Grown:
		return GrownStyle
	case cache.Shrunk:
		return ShrunkStyle
	}
	return lipgloss.NewStyle().Foreground(ColorMuted)
}
