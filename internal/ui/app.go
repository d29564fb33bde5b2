// Package ui is the terminal front end: a tree panel and a treemap
// panel over one scanned directory, kept in sync with the controller
// through its event channel.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/core"
	"github.com/lumipallolabs/dirmap/internal/logging"
	"github.com/lumipallolabs/dirmap/internal/model"
	"github.com/lumipallolabs/dirmap/internal/stats"
)

var uiLog = logging.For("ui")

// Panel identifies which panel is active
type Panel int

const (
	PanelTree Panel = iota
	PanelTreemap
)

// Message types for Bubble Tea
type (
	scanStartMsg struct{}
	scanEventMsg struct {
		event core.Event
	}
	scanCompleteDelayMsg struct {
		event core.ScanFinishedEvent
	}
	focusDebounceMsg struct {
		version int
		node    *model.Node
	}
	spinnerTickMsg struct{}
	sniffDoneMsg   struct {
		path string
		kind string
	}
)

// Spinner frames - modern braille dots spinner
var spinnerFrames = []string{
	"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏",
}

// Timing constants
const (
	spinnerTickInterval  = 80 * time.Millisecond
	borderRotationSpeed  = 33 // milliseconds per frame
	focusDebounceTimeout = 300 * time.Millisecond
	completeFlashDelay   = 500 * time.Millisecond

	// Runtime bounds for the display threshold divisor
	minResolution = 100
	maxResolution = 1_000_000
)

// App is the main TUI application model
type App struct {
	// Core controller (business logic)
	ctrl *core.Controller
	path string

	// UI Components
	header  Header
	tree    TreePanel
	treemap TreemapPanel
	help    HelpOverlay
	legend  LegendOverlay
	changes ChangesOverlay
	keys    KeyMap

	// UI state (TUI-specific)
	root         *model.Node
	activePanel  Panel
	err          error
	focusVersion int // for debouncing
	fileKinds    map[string]string
	resolution   int64

	// Event channel (for continuing to listen after each event)
	scanEventCh <-chan core.Event

	// Dimensions
	width           int
	height          int
	rightPanelWidth int
}

// NewApp creates a new application instance. The controller's
// configuration supplies the palette and resolution.
func NewApp(ctrl *core.Controller, path string) App {
	cfg := ctrl.Config()
	palette := category.NewPalette(cfg.Colors)

	app := App{
		ctrl:        ctrl,
		path:        path,
		header:      NewHeader(path),
		tree:        NewTreePanel(),
		treemap:     NewTreemapPanel(),
		help:        NewHelpOverlay(),
		legend:      NewLegendOverlay(),
		changes:     NewChangesOverlay(),
		keys:        DefaultKeyMap(),
		activePanel: PanelTree,
		fileKinds:   make(map[string]string),
		resolution:  cfg.Resolution,
	}

	app.tree.SetFocused(true)
	app.treemap.SetFocused(false)
	app.treemap.SetPalette(palette)
	app.treemap.SetResolution(cfg.Resolution)
	app.legend.SetPalette(palette)
	app.header.SetScanning(true)

	return app
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return func() tea.Msg {
		return scanStartMsg{}
	}
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case scanStartMsg:
		return a.startScan()

	case scanEventMsg:
		// Handle scan events and always continue listening
		return a.handleScanEvent(msg.event)

	case scanCompleteDelayMsg:
		return a.finalizeScan(msg.event)

	case focusDebounceMsg:
		if msg.version == a.focusVersion && msg.node != nil {
			a.treemap.SetFocus(msg.node)
		}
		return a, nil

	case sniffDoneMsg:
		a.fileKinds[msg.path] = msg.kind
		return a, nil

	case spinnerTickMsg:
		state := a.ctrl.State()
		if state.Running() || (a.root == nil && a.err == nil) {
			return a, tea.Tick(spinnerTickInterval, func(t time.Time) tea.Msg {
				return spinnerTickMsg{}
			})
		}
		return a, nil
	}

	return a, nil
}

// startScan begins the scanning process
func (a App) startScan() (tea.Model, tea.Cmd) {
	eventCh, err := a.ctrl.Start(context.Background(), a.path)
	if err != nil {
		a.err = err
		return a, nil
	}

	// Store channel for continued listening
	a.scanEventCh = eventCh
	a.err = nil
	a.root = nil
	a.header.SetScanning(true)
	a.tree.SetRoot(nil)
	a.treemap.SetRoot(nil)

	// Start listening for events and ticking spinner
	return a, tea.Batch(
		a.listenForScanEvents(),
		tea.Tick(spinnerTickInterval, func(t time.Time) tea.Msg {
			return spinnerTickMsg{}
		}),
	)
}

// listenForScanEvents creates a command that listens for scan events
func (a App) listenForScanEvents() tea.Cmd {
	if a.scanEventCh == nil {
		return nil
	}
	eventCh := a.scanEventCh
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil // Channel closed
		}
		return scanEventMsg{event: event}
	}
}

// handleScanEvent processes scan events and continues listening
func (a App) handleScanEvent(event core.Event) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case core.ScanStartedEvent:
		a.header.SetPath(e.Path)
		return a, a.listenForScanEvents()

	case core.ScanFinishedEvent:
		// Show "Complete" briefly before showing data
		return a, tea.Tick(completeFlashDelay, func(t time.Time) tea.Msg {
			return scanCompleteDelayMsg{event: e}
		})

	case core.ScanFailedEvent:
		a.err = e.Err
		a.header.SetScanning(false)
		return a, nil

	default:
		// Progress and phase events re-render from controller state
		return a, a.listenForScanEvents()
	}
}

// finalizeScan installs the completed tree into the panels
func (a App) finalizeScan(e core.ScanFinishedEvent) (tea.Model, tea.Cmd) {
	summary := stats.Collect(e.Root)

	a.root = e.Root
	a.tree.SetRoot(e.Root)
	a.treemap.SetRoot(e.Root)
	a.legend.SetSummary(summary)
	a.changes.SetChanges(a.ctrl.Changes(), a.ctrl.LastSnapshot())
	a.header.SetScanning(false)
	a.header.SetStats(summary.Files, summary.Dirs, e.Root.Total, e.Elapsed)
	a.header.SetChanges(e.Changes)
	a.err = nil
	a.updateLayout()

	return a, nil
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help and legend overlays - any key closes them
	if a.help.IsVisible() {
		a.help.SetVisible(false)
		return a, nil
	}
	if a.legend.IsVisible() {
		a.legend.SetVisible(false)
		return a, nil
	}

	// Changes overlay scrolls; other keys close it
	if a.changes.IsVisible() {
		switch {
		case key.Matches(msg, a.keys.Up):
			a.changes.ScrollUp()
		case key.Matches(msg, a.keys.Down):
			a.changes.ScrollDown()
		case key.Matches(msg, a.keys.Quit):
			a.ctrl.Stop()
			return a, tea.Quit
		default:
			a.changes.SetVisible(false)
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.ctrl.Stop()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.Changes):
		a.changes.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.Legend):
		a.legend.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.Tab):
		if a.activePanel == PanelTree {
			a.activePanel = PanelTreemap
			a.tree.SetFocused(false)
			a.treemap.SetFocused(true)
			a.treemap.SelectFirst()
		} else {
			a.activePanel = PanelTree
			a.tree.SetFocused(true)
			a.treemap.SetFocused(false)
			cmd := a.syncSelection()
			return a, cmd
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.activePanel == PanelTree {
			a.tree.MoveUp()
			cmd := a.syncSelection()
			return a, cmd
		}
		a.treemap.MoveToBlock(0, -1)
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if a.activePanel == PanelTree {
			a.tree.MoveDown()
			cmd := a.syncSelection()
			return a, cmd
		}
		a.treemap.MoveToBlock(0, 1)
		return a, nil

	case key.Matches(msg, a.keys.Left):
		if a.activePanel == PanelTree {
			a.tree.Collapse()
			a.updateLayout()
		} else {
			a.treemap.MoveToBlock(-1, 0)
		}
		return a, nil

	case key.Matches(msg, a.keys.Right):
		if a.activePanel == PanelTree {
			a.tree.Expand()
			a.updateLayout()
		} else {
			a.treemap.MoveToBlock(1, 0)
		}
		return a, nil

	case key.Matches(msg, a.keys.Top):
		if a.activePanel == PanelTree {
			a.tree.GoToTop()
			cmd := a.syncSelection()
			return a, cmd
		}
		return a, nil

	case key.Matches(msg, a.keys.Bottom):
		if a.activePanel == PanelTree {
			a.tree.GoToBottom()
			cmd := a.syncSelection()
			return a, cmd
		}
		return a, nil

	case key.Matches(msg, a.keys.PageUp):
		if a.activePanel == PanelTree {
			a.tree.PageUp()
			cmd := a.syncSelection()
			return a, cmd
		}
		return a, nil

	case key.Matches(msg, a.keys.PageDown):
		if a.activePanel == PanelTree {
			a.tree.PageDown()
			cmd := a.syncSelection()
			return a, cmd
		}
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		if a.activePanel == PanelTreemap {
			a.treemap.ZoomIn()
			if node := a.treemap.Selected(); node != nil {
				a.tree.ExpandTo(node)
				a.updateLayout()
			}
		} else {
			a.tree.Toggle()
			a.updateLayout()
			cmd := a.syncSelection()
			return a, cmd
		}
		return a, nil

	case key.Matches(msg, a.keys.Back):
		if a.activePanel == PanelTreemap {
			a.treemap.ZoomOut()
		} else {
			a.tree.Collapse()
			a.updateLayout()
		}
		return a, nil

	case key.Matches(msg, a.keys.Rescan):
		if !a.ctrl.State().Running() {
			return a.startScan()
		}
		return a, nil

	case key.Matches(msg, a.keys.MoreDetail):
		a.setResolution(a.resolution * 2)
		return a, nil

	case key.Matches(msg, a.keys.LessDetail):
		a.setResolution(a.resolution / 2)
		return a, nil

	case key.Matches(msg, a.keys.OpenExplorer):
		a.openInExplorer()
		return a, nil
	}

	return a, nil
}

// setResolution clamps and applies a new display threshold divisor.
// Totals are untouched; only which children get drawn changes.
func (a *App) setResolution(resolution int64) {
	if resolution < minResolution {
		resolution = minResolution
	}
	if resolution > maxResolution {
		resolution = maxResolution
	}
	a.resolution = resolution
	a.treemap.SetResolution(resolution)
}

// syncSelection syncs tree selection to treemap
func (a *App) syncSelection() tea.Cmd {
	node := a.tree.Selected()
	if node == nil {
		return nil
	}
	a.treemap.SetSelected(node)

	var cmds []tea.Cmd
	if !node.IsDir {
		if _, done := a.fileKinds[node.Path]; !done {
			cmds = append(cmds, a.sniffFile(node))
		}
	}

	var focusTarget *model.Node
	if node.IsDir && len(node.Children) > 0 {
		focusTarget = node
	} else if !node.IsDir && node.Parent != nil {
		focusTarget = node.Parent
	}

	if focusTarget == nil {
		return tea.Batch(cmds...)
	}

	// For directories, update immediately; for files, debounce
	if node.IsDir {
		a.treemap.SetFocus(focusTarget)
		return tea.Batch(cmds...)
	}

	a.focusVersion++
	version := a.focusVersion
	cmds = append(cmds, tea.Tick(focusDebounceTimeout, func(t time.Time) tea.Msg {
		return focusDebounceMsg{version: version, node: focusTarget}
	}))
	return tea.Batch(cmds...)
}

// sniffFile detects the selected file's MIME type off the update loop
func (a App) sniffFile(node *model.Node) tea.Cmd {
	relPath := node.Path
	absPath := a.absPath(node)
	return func() tea.Msg {
		kind, err := category.Sniff(absPath)
		if err != nil {
			return sniffDoneMsg{path: relPath}
		}
		return sniffDoneMsg{path: relPath, kind: kind}
	}
}

// absPath resolves a tree node to its on-disk location
func (a App) absPath(node *model.Node) string {
	root := a.ctrl.State().Path
	if node == nil || node.Path == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(node.Path))
}

// openInExplorer opens the selected item in the file manager
func (a App) openInExplorer() {
	node := a.tree.Selected()
	if node == nil {
		return
	}
	path := a.absPath(node)
	if err := openInFileManager(path); err != nil {
		uiLog.Warn("open in file manager failed", "path", path, "err", err)
	}
}

// updateLayout calculates component sizes
func (a *App) updateLayout() {
	headerHeight := 1
	helpBarHeight := 1
	infoBarHeight := 2

	panelHeight := a.height - headerHeight - helpBarHeight
	if panelHeight < 1 {
		panelHeight = 1
	}

	treeWidth := a.tree.RequiredWidth()
	maxTreeWidth := a.width / 2
	if treeWidth > maxTreeWidth {
		treeWidth = maxTreeWidth
	}
	if treeWidth < 20 {
		treeWidth = 20
	}

	a.header.SetWidth(a.width)
	a.tree.SetSize(treeWidth, panelHeight)
	a.rightPanelWidth = a.width - treeWidth
	a.treemap.SetSize(a.rightPanelWidth, panelHeight-infoBarHeight)
	a.help.SetSize(a.width, a.height)
	a.legend.SetSize(a.width, a.height)
	a.changes.SetSize(a.width, a.height)
}

// View implements tea.Model
func (a App) View() string {
	state := a.ctrl.State()

	if a.width == 0 || a.height == 0 {
		if state.Running() {
			return "Scanning..."
		}
		return "Loading..."
	}

	var sections []string
	sections = append(sections, a.header.View())

	if a.err != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(ColorDanger).
			Padding(0, 1)
		sections = append(sections, errStyle.Render(fmt.Sprintf("Error: %v", a.err)))
	}

	if state.Running() || a.root == nil {
		sections = append(sections, a.renderScanningPanel(state))
	} else {
		sections = append(sections, a.renderMainPanels())
	}

	sections = append(sections, HelpBar(a.width))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Overlays
	if a.help.IsVisible() {
		return a.renderOverlay(a.help.View())
	}
	if a.changes.IsVisible() {
		return a.renderOverlay(a.changes.View())
	}
	if a.legend.IsVisible() {
		return a.renderOverlay(a.legend.View())
	}

	return content
}

// renderOverlay renders an overlay centered on screen
func (a App) renderOverlay(overlay string) string {
	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Center,
		overlay,
		lipgloss.WithWhitespaceChars(" "),
	)
}

// renderScanningPanel renders the scanning progress panel
func (a App) renderScanningPanel(state core.ScanState) string {
	panelHeight := a.height - 4
	if panelHeight < 1 {
		panelHeight = 1
	}

	if state.Phase == core.PhaseFailed {
		msg := lipgloss.NewStyle().Foreground(ColorDanger).Bold(true).Render("✗ Scan failed")
		hint := HelpStyle.Render("r to retry, q to quit")
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(1, 3).
			Render(msg + "\n" + hint)
		return lipgloss.Place(a.width, panelHeight, lipgloss.Center, lipgloss.Center, box)
	}

	var logLines []string
	doneStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	spinnerStyle := lipgloss.NewStyle().Foreground(ColorDir).Bold(true)

	spinnerIdx := int(time.Now().UnixMilli()/spinnerTickInterval.Milliseconds()) % len(spinnerFrames)
	spinner := spinnerFrames[spinnerIdx]

	// Phase display
	phases := []struct {
		phase core.Phase
		name  string
	}{
		{core.PhaseScanning, "Scanning files"},
		{core.PhaseBuilding, "Building tree"},
		{core.PhaseReady, "Complete"},
	}

	for _, p := range phases {
		if p.phase > state.Phase {
			break
		}
		var line string
		if p.phase < state.Phase || p.phase == core.PhaseReady {
			check := doneStyle.Render("✓")
			text := doneStyle.Render(p.name)
			line = fmt.Sprintf("  %s %s", check, text)
		} else {
			spin := spinnerStyle.Render(spinner)
			textStyle := lipgloss.NewStyle().Foreground(ColorDir).Bold(true)
			text := textStyle.Render(p.name)
			line = fmt.Sprintf("  %s %s", spin, text)
		}
		logLines = append(logLines, line)
	}

	// Stats
	if state.FilesScanned > 0 {
		labelStyle := lipgloss.NewStyle().Foreground(ColorMuted)
		fileStyle := lipgloss.NewStyle().Foreground(ColorDir).Bold(true)
		dataStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true)

		logLines = append(logLines, "")
		logLines = append(logLines, fmt.Sprintf("    %s %s", labelStyle.Render("FILES"), fileStyle.Render(fmt.Sprintf("%d files", state.FilesScanned))))
		logLines = append(logLines, fmt.Sprintf("    %s  %s", labelStyle.Render("DATA"), dataStyle.Render(FormatSize(state.BytesFound))))
		logLines = append(logLines, fmt.Sprintf("    %s  %s", labelStyle.Render("TIME"), timeStyle.Render(state.Elapsed().String())))
		if state.Errors > 0 {
			errStyle := lipgloss.NewStyle().Foreground(ColorDanger)
			logLines = append(logLines, fmt.Sprintf("    %s  %s", labelStyle.Render("ERRS"), errStyle.Render(fmt.Sprintf("%d skipped", state.Errors))))
		}
	}

	logContent := strings.Join(logLines, "\n")
	innerContent := lipgloss.NewStyle().
		Padding(0, 3).
		Width(48).
		Render(logContent)

	boxHeight := 10
	scanningBox := renderSpinningBorder(
		lipgloss.Place(48, boxHeight-2, lipgloss.Left, lipgloss.Center, innerContent),
		50, boxHeight, time.Now())

	return lipgloss.Place(a.width, panelHeight, lipgloss.Center, lipgloss.Center, scanningBox)
}

// renderMainPanels renders the tree and treemap panels
func (a App) renderMainPanels() string {
	treeView := a.tree.View()
	infoBar := a.infoBar()

	var rightContent string
	selected := a.tree.Selected()
	if selected != nil && !selected.IsDir && a.activePanel == PanelTree {
		rightContent = a.fileDetailsPanel()
	} else {
		rightContent = a.treemap.View()
	}

	rightPanel := lipgloss.JoinVertical(lipgloss.Left, infoBar, rightContent)
	return lipgloss.JoinHorizontal(lipgloss.Top, treeView, rightPanel)
}

// renderSpinningBorder draws a box with spinning gradient border
func renderSpinningBorder(content string, width, height int, t time.Time) string {
	shades := []string{
		"#00FFFF", "#30EBE0", "#5EEAD4", "#70E0D8", "#85D5E0", "#9AC5E8", "#A8B0F0", "#B89AF8",
		"#C084FC", "#C880F0", "#D080E8", "#D87CDE", "#E07CD4", "#F079CC", "#FF79C6", "#F079CC",
		"#E07CD4", "#D87CDE", "#D080E8", "#C880F0", "#C084FC", "#B89AF8", "#A8B0F0", "#9AC5E8",
		"#85D5E0", "#70E0D8", "#5EEAD4", "#30EBE0",
	}

	innerW := width - 2
	innerH := height - 2
	perimeter := 2*innerW + 2*innerH + 4

	offset := int(t.UnixMilli()/borderRotationSpeed) % perimeter

	getColor := func(pos int) lipgloss.Style {
		adjustedPos := (pos - offset + perimeter) % perimeter
		shadeIdx := (adjustedPos * len(shades) / perimeter) % len(shades)
		return lipgloss.NewStyle().Foreground(lipgloss.Color(shades[shadeIdx]))
	}

	const (
		topLeft     = "╭"
		topRight    = "╮"
		bottomLeft  = "╰"
		bottomRight = "╯"
		horizontal  = "─"
		vertical    = "│"
	)

	var result strings.Builder
	pos := 0

	result.WriteString(getColor(pos).Render(topLeft))
	pos++
	for i := 0; i < innerW; i++ {
		result.WriteString(getColor(pos).Render(horizontal))
		pos++
	}
	result.WriteString(getColor(pos).Render(topRight))
	pos++
	result.WriteString("\n")

	contentLines := strings.Split(content, "\n")
	for len(contentLines) < innerH {
		contentLines = append(contentLines, "")
	}

	for i := 0; i < innerH; i++ {
		leftColor := getColor(perimeter - 1 - i)
		result.WriteString(leftColor.Render(vertical))

		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lineWidth := lipgloss.Width(line)
		if lineWidth < innerW {
			line += strings.Repeat(" ", innerW-lineWidth)
		}
		result.WriteString(line)

		result.WriteString(getColor(pos).Render(vertical))
		pos++
		result.WriteString("\n")
	}

	bottomStart := pos
	result.WriteString(getColor(perimeter - innerH - 1).Render(bottomLeft))
	for i := 0; i < innerW; i++ {
		result.WriteString(getColor(bottomStart + innerW - i).Render(horizontal))
	}
	result.WriteString(getColor(bottomStart).Render(bottomRight))

	return result.String()
}
