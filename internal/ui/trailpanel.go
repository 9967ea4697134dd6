package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/doctrail/internal/theme"
	"github.com/vidyasagar/doctrail/internal/trail"
)

// TrailPanel displays the recently-visited trail. Collapsed it shows a
// fixed window of the most recent entries; expanded it shows the whole
// capped trail with cursor navigation.
type TrailPanel struct {
	entries    []trail.Entry
	cursor     int
	offset     int // scroll offset for the expanded window
	width      int
	height     int
	visible    bool
	expanded   bool
	windowSize int // entries shown while collapsed
}

// NewTrailPanel creates a trail panel with the given collapsed window size.
func NewTrailPanel(windowSize int) TrailPanel {
	if windowSize <= 0 {
		windowSize = trail.DefaultVisible
	}
	return TrailPanel{windowSize: windowSize}
}

// SetEntries updates the entries displayed, newest first.
func (tp *TrailPanel) SetEntries(entries []trail.Entry) {
	tp.entries = entries
	if tp.cursor >= len(entries) {
		tp.cursor = len(entries) - 1
	}
	if tp.cursor < 0 {
		tp.cursor = 0
	}
	tp.ensureVisible()
}

// SetSize updates the panel dimensions.
func (tp *TrailPanel) SetSize(w, h int) {
	tp.width = w
	tp.height = h
}

// Show makes the panel visible, collapsed.
func (tp *TrailPanel) Show() {
	tp.visible = true
	tp.expanded = false
	tp.cursor = 0
	tp.offset = 0
}

// Hide closes the panel.
func (tp *TrailPanel) Hide() {
	tp.visible = false
}

// IsVisible reports whether the panel is shown.
func (tp *TrailPanel) IsVisible() bool {
	return tp.visible
}

// Toggle switches visibility.
func (tp *TrailPanel) Toggle() {
	if tp.visible {
		tp.Hide()
	} else {
		tp.Show()
	}
}

// ToggleExpand switches between the collapsed window and the full trail.
func (tp *TrailPanel) ToggleExpand() {
	tp.expanded = !tp.expanded
	if !tp.expanded && tp.cursor >= tp.windowSize {
		tp.cursor = tp.windowSize - 1
	}
	tp.offset = 0
	tp.ensureVisible()
}

// IsExpanded reports whether the full trail is shown.
func (tp *TrailPanel) IsExpanded() bool {
	return tp.expanded
}

// CursorUp moves the cursor up one entry.
func (tp *TrailPanel) CursorUp() {
	if tp.cursor > 0 {
		tp.cursor--
		tp.ensureVisible()
	}
}

// CursorDown moves the cursor down one entry.
func (tp *TrailPanel) CursorDown() {
	if tp.cursor < tp.shownCount()-1 {
		tp.cursor++
		tp.ensureVisible()
	}
}

// SelectedEntry returns the entry at the cursor, or nil if empty.
func (tp *TrailPanel) SelectedEntry() *trail.Entry {
	if len(tp.entries) == 0 || tp.cursor < 0 || tp.cursor >= tp.shownCount() {
		return nil
	}
	e := tp.entries[tp.cursor]
	return &e
}

// shownCount is how many entries the current collapse state exposes.
func (tp *TrailPanel) shownCount() int {
	if tp.expanded || len(tp.entries) < tp.windowSize {
		return len(tp.entries)
	}
	return tp.windowSize
}

// visibleCount returns how many entries fit in the rendered area. Each
// entry takes 2 lines, plus header space.
func (tp *TrailPanel) visibleCount() int {
	available := tp.height - 3
	if available <= 0 {
		return 1
	}
	count := available / 2
	if count < 1 {
		count = 1
	}
	return count
}

// ensureVisible adjusts offset so the cursor is within the rendered window.
func (tp *TrailPanel) ensureVisible() {
	visible := tp.visibleCount()
	if tp.cursor < tp.offset {
		tp.offset = tp.cursor
	}
	if tp.cursor >= tp.offset+visible {
		tp.offset = tp.cursor - visible + 1
	}
	if tp.offset < 0 {
		tp.offset = 0
	}
}

// View renders the trail panel.
func (tp *TrailPanel) View() string {
	if !tp.visible {
		return ""
	}

	t := theme.Current

	panelStyle := lipgloss.NewStyle().
		Width(tp.width).
		Height(tp.height).
		Background(t.Background)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Background(t.Surface).
		Width(tp.width).
		Padding(0, 1)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	selectedStyle := lipgloss.NewStyle().
		Foreground(t.TextBright).
		Background(t.Primary).
		Bold(true).
		Width(tp.width).
		Padding(0, 1)

	selectedURLStyle := lipgloss.NewStyle().
		Foreground(t.Link).
		Background(t.Primary).
		Width(tp.width).
		Padding(0, 1)

	normalStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Width(tp.width).
		Padding(0, 1)

	urlStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Width(tp.width).
		Padding(0, 1)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Padding(0, 1)

	var sb strings.Builder

	header := "Recent pages"
	if tp.expanded {
		header = fmt.Sprintf("Recent pages (%d)", len(tp.entries))
	}
	sb.WriteString(titleStyle.Render(header))
	sb.WriteString("\n")

	sepWidth := tp.width - 2
	if sepWidth < 1 {
		sepWidth = 1
	}
	sb.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)))
	sb.WriteString("\n")

	if len(tp.entries) == 0 {
		sb.WriteString(dimStyle.Render("Nothing visited yet."))
		sb.WriteString("\n")
		return panelStyle.Render(sb.String())
	}

	shown := tp.shownCount()
	visible := tp.visibleCount()
	end := tp.offset + visible
	if end > shown {
		end = shown
	}

	maxLen := tp.width - 4
	if maxLen < 10 {
		maxLen = 10
	}

	for i := tp.offset; i < end; i++ {
		entry := tp.entries[i]

		lbl := entry.Label
		if lbl == "" {
			lbl = entry.URL
		}
		lbl = truncate(lbl, maxLen)
		url := truncate(entry.URL, maxLen)

		timeStr := timeAgo(entry.VisitedAt)

		if i == tp.cursor {
			sb.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", lbl)))
			sb.WriteString("\n")
			sb.WriteString(selectedURLStyle.Render(fmt.Sprintf("  %s  %s", url, timeStr)))
			sb.WriteString("\n")
		} else {
			sb.WriteString(normalStyle.Render(fmt.Sprintf("  %s", lbl)))
			sb.WriteString("\n")
			sb.WriteString(urlStyle.Render(fmt.Sprintf("  %s  %s", url, timeStr)))
			sb.WriteString("\n")
		}
	}

	if !tp.expanded && len(tp.entries) > shown {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more (Tab to expand)", len(tp.entries)-shown)))
		sb.WriteString("\n")
	}

	// Footer hint.
	linesUsed := 2 + (end-tp.offset)*2
	remaining := tp.height - linesUsed
	if remaining > 1 {
		for i := 0; i < remaining-1; i++ {
			sb.WriteString("\n")
		}
		hintStyle := lipgloss.NewStyle().
			Foreground(t.TextDim).
			Italic(true).
			Padding(0, 1)
		sb.WriteString(hintStyle.Render("j/k:move  Enter:open  Tab:expand  d:del  C:clear  Esc:close"))
	}

	return panelStyle.Render(sb.String())
}

// truncate shortens s to at most max runes, ending in "..." when cut.
// Labels come from page headings and may be non-ASCII, so cutting on
// bytes could split a rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// timeAgo returns a human-readable relative time string.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
