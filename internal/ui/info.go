package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// infoBar creates the info bar showing metadata for the selection
func (a App) infoBar() string {
	node := a.tree.Selected()
	if node == nil {
		return ""
	}

	borderColor := ColorBorder
	if a.activePanel == PanelTreemap {
		borderColor = ColorDir
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	content := " " + a.buildNodeInfo(node) + " "
	contentWidth := lipgloss.Width(content)
	topBorder := borderStyle.Render("╭" + strings.Repeat("─", contentWidth) + "╮")
	middleLine := borderStyle.Render("│") + content + borderStyle.Render("│")

	return topBorder + "\n" + middleLine
}

// buildNodeInfo creates the info string for a node
func (a App) buildNodeInfo(node *model.Node) string {
	dimStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	iconStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	var icon string
	if node.IsDir {
		icon = iconStyle.Render("📁")
	} else {
		icon = iconStyle.Render("📄")
	}

	sep := dimStyle.Render(" │ ")
	name := nameStyle.Render(node.Name)

	var parts []string
	parts = append(parts, icon, " ", name)

	if node.IsDir {
		count := countFiles(node)
		parts = append(parts, sep, dimStyle.Render(fmt.Sprintf("%d files", count)))

		if info, err := os.Stat(a.absPath(node)); err == nil {
			createTime := getCreationTime(info)
			modTime := info.ModTime()

			if createTimeStr := FormatTime(createTime); createTimeStr != "unknown" {
				parts = append(parts, sep, dimStyle.Render("C: "+createTimeStr))
			}

			modTimeStr := FormatTime(modTime)
			if modTimeStr != FormatTime(createTime) {
				parts = append(parts, sep, dimStyle.Render("M: "+modTimeStr))
			}
		}
	}

	return strings.Join(parts, "")
}

// fileDetailsPanel renders detailed file information in place of the
// treemap when a file is selected
func (a App) fileDetailsPanel() string {
	node := a.tree.Selected()
	if node == nil || node.IsDir {
		return ""
	}

	panelHeight := a.height - 5
	panelWidth := a.rightPanelWidth - 2
	innerWidth := panelWidth - 2
	innerHeight := panelHeight - 2
	if innerWidth < 1 || innerHeight < 1 {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	pathStyle := lipgloss.NewStyle().Foreground(ColorDir)

	var contentLines []string

	// MIME type arrives async once the sniff command completes
	if kind := a.fileKinds[node.Path]; kind != "" {
		contentLines = append(contentLines, labelStyle.Render("Type: ")+valueStyle.Render(kind))
	}

	contentLines = append(contentLines, labelStyle.Render("Category: ")+valueStyle.Render(legendLabel(node.Category)))
	contentLines = append(contentLines, labelStyle.Render("Size: ")+valueStyle.Render(FormatSize(node.Total)))

	if info, err := os.Stat(a.absPath(node)); err == nil {
		if timeStr := FormatTime(getCreationTime(info)); timeStr != "unknown" {
			contentLines = append(contentLines, labelStyle.Render("Created: ")+valueStyle.Render(timeStr))
		}
		contentLines = append(contentLines, labelStyle.Render("Modified: ")+valueStyle.Render(FormatTime(info.ModTime())))
		contentLines = append(contentLines, labelStyle.Render("Permissions: ")+valueStyle.Render(info.Mode().String()))
	}

	contentLines = append(contentLines, "")
	contentLines = append(contentLines, labelStyle.Render("Path:"))
	contentLines = append(contentLines, pathStyle.Render(a.absPath(node)))

	borderColor := ColorBorder
	if a.activePanel == PanelTreemap {
		borderColor = ColorDir
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	var result strings.Builder
	result.WriteString(borderStyle.Render("╭" + strings.Repeat("─", innerWidth) + "╮"))
	result.WriteString("\n")

	for i := 0; i < innerHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = " " + contentLines[i]
		}
		lineWidth := lipgloss.Width(line)
		if lineWidth < innerWidth {
			line += strings.Repeat(" ", innerWidth-lineWidth)
		} else if lineWidth > innerWidth {
			line = lipgloss.NewStyle().MaxWidth(innerWidth).Render(line)
		}
		result.WriteString(borderStyle.Render("│") + line + borderStyle.Render("│"))
		result.WriteString("\n")
	}

	result.WriteString(borderStyle.Render("╰" + strings.Repeat("─", innerWidth) + "╯"))
	return result.String()
}

// countFiles counts all files in a node tree
func countFiles(node *model.Node) int {
	if !node.IsDir {
		return 1
	}
	count := 0
	for _, child := range node.Children {
		count += countFiles(child)
	}
	return count
}
