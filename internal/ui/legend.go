package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/stats"
)

const (
	legendMaxRows         = 12 // largest categories shown
	legendNameColumnWidth = 14 // width for the category name column
)

// LegendOverlay lists the largest file categories with their treemap
// colors in a centered overlay
type LegendOverlay struct {
	visible bool
	width   int
	height  int
	summary *stats.Summary
	palette *category.Palette
}

// NewLegendOverlay creates a new legend overlay component
func NewLegendOverlay() LegendOverlay {
	return LegendOverlay{
		palette: category.NewPalette(nil),
	}
}

// Toggle toggles the visibility of the legend overlay
func (l *LegendOverlay) Toggle() {
	l.visible = !l.visible
}

// SetVisible sets the visibility of the legend overlay
func (l *LegendOverlay) SetVisible(visible bool) {
	l.visible = visible
}

// IsVisible returns whether the legend overlay is visible
func (l LegendOverlay) IsVisible() bool {
	return l.visible
}

// SetSize sets the dimensions of the legend overlay
func (l *LegendOverlay) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// SetSummary sets the category summary to display
func (l *LegendOverlay) SetSummary(s *stats.Summary) {
	l.summary = s
}

// SetPalette sets the category color palette
func (l *LegendOverlay) SetPalette(p *category.Palette) {
	if p != nil {
		l.palette = p
	}
}

// View renders the legend overlay
func (l LegendOverlay) View() string {
	if !l.visible {
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

	nameStyle := lipgloss.NewStyle().Foreground(ColorText)
	countStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var content strings.Builder
	content.WriteString(titleStyle.Render("Categories"))
	content.WriteString("\n")

	if l.summary == nil {
		content.WriteString(countStyle.Render("No scan data yet"))
	} else {
		top := l.summary.Top(legendMaxRows)
		if len(top) == 0 {
			content.WriteString(countStyle.Render("No files found"))
		}
		for i, ct := range top {
			swatch := lipgloss.NewStyle().
				Foreground(lipgloss.Color(l.palette.Color(category.Token(ct.Category)))).
				Render("████")

			name := legendLabel(ct.Category)
			row := swatch + " " +
				nameStyle.Width(legendNameColumnWidth).Render(name) +
				nameStyle.Render(FormatSize(ct.Bytes)) +
				countStyle.Render(fmt.Sprintf("  (%d files)", ct.Files))

			content.WriteString(row)
			if i < len(top)-1 {
				content.WriteString("\n")
			}
		}
	}

	box := boxStyle.Render(content.String())

	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, box)
}

// legendLabel turns a category token into a display name
func legendLabel(cat string) string {
	switch category.Token(cat) {
	case category.Plain:
		return "no extension"
	case category.Dir:
		return "directories"
	case "":
		return "other"
	}
	return "." + cat
}
