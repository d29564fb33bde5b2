package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Header displays the scanned path and scan stats
type Header struct {
	path     string
	width    int
	scanning bool
	files    int64
	dirs     int64
	total    int64
	elapsed  time.Duration
	changes  int
}

// NewHeader creates a new header component
func NewHeader(path string) Header {
	return Header{path: path}
}

// SetPath updates the scanned path
func (h *Header) SetPath(path string) {
	h.path = path
}

// SetScanning sets the scanning state
func (h *Header) SetScanning(scanning bool) {
	h.scanning = scanning
}

// SetStats sets the completed-scan statistics
func (h *Header) SetStats(files, dirs, total int64, elapsed time.Duration) {
	h.files = files
	h.dirs = dirs
	h.total = total
	h.elapsed = elapsed
}

// SetChanges sets the number of changes since the previous snapshot
func (h *Header) SetChanges(n int) {
	h.changes = n
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// Update handles messages
func (h Header) Update(msg tea.Msg) (Header, tea.Cmd) {
	return h, nil
}

// View renders the header
func (h Header) View() string {
	appName := TitleStyle.Render("DIRMAP")

	pathLabel := lipgloss.NewStyle().Foreground(ColorText).Render(h.path)

	// Changes badge (show in middle once a snapshot diff exists)
	var changesBadge string
	if h.changes > 0 {
		changesLabel := lipgloss.NewStyle().Foreground(ColorMuted).Render("Changes: ")
		changesCount := lipgloss.NewStyle().Foreground(ColorGrown).Render(fmt.Sprintf("%d since last scan", h.changes))
		changesBadge = changesLabel + changesCount
	}

	// Stats (only show when not scanning - scanning status shown in center panel)
	var stats, statsCompact string
	if !h.scanning && h.total > 0 {
		stats = StatsStyle.Render(fmt.Sprintf(
			"%d files, %d dirs  •  %s  •  %s",
			h.files,
			h.dirs,
			FormatSize(h.total),
			h.elapsed.Truncate(time.Second),
		))
		statsCompact = StatsStyle.Render(FormatSize(h.total))
	}

	// Layout: app name and path on left, changes in middle, stats on right
	appNameWidth := lipgloss.Width(appName)
	pathWidth := lipgloss.Width(pathLabel)
	changesWidth := lipgloss.Width(changesBadge)
	statsWidth := lipgloss.Width(stats)

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")
	sepWidth := lipgloss.Width(sep)

	// Calculate total content width
	totalContent := appNameWidth + sepWidth + pathWidth + changesWidth + statsWidth + 4 // +4 for min gaps

	// For narrow terminals, progressively hide elements
	if h.width < totalContent {
		// First: switch to compact stats
		if statsWidth > 0 && statsCompact != "" {
			stats = statsCompact
			statsWidth = lipgloss.Width(stats)
			totalContent = appNameWidth + sepWidth + pathWidth + changesWidth + statsWidth + 4
		}
	}
	if h.width < totalContent {
		// Then drop the changes badge
		if changesWidth > 0 {
			changesBadge = ""
			changesWidth = 0
			totalContent = appNameWidth + sepWidth + pathWidth + statsWidth + 2
		}
	}
	if h.width < totalContent {
		// Then drop stats entirely
		if statsWidth > 0 {
			stats = ""
			statsWidth = 0
			totalContent = appNameWidth + sepWidth + pathWidth
		}
	}
	if h.width < totalContent {
		// Finally shorten the path, keeping its tail
		avail := h.width - appNameWidth - sepWidth - 2
		if avail > 1 && avail < pathWidth {
			runes := []rune(h.path)
			if len(runes) > avail-1 {
				runes = runes[len(runes)-(avail-1):]
			}
			pathLabel = lipgloss.NewStyle().Foreground(ColorText).Render("…" + string(runes))
		}
	}

	// Calculate gaps to distribute remaining space
	remainingSpace := h.width - totalContent
	if remainingSpace < 2 {
		remainingSpace = 2
	}

	leftGap := remainingSpace / 2
	rightGap := remainingSpace - leftGap
	if leftGap < 1 {
		leftGap = 1
	}
	if rightGap < 1 {
		rightGap = 1
	}

	line := appName + sep + pathLabel + strings.Repeat(" ", leftGap) + changesBadge + strings.Repeat(" ", rightGap) + stats

	return HeaderStyle.MaxHeight(1).Render(line)
}
