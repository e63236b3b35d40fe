package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	headerRows         = 1
	headerSeparator    = " → "
	columnSeparator    = "│"
	columnChrome       = 4 // "▌ " before the label, " ›" after it
	minColumnWidth     = 10
	maxColumnWidth     = 32
	loadingColumnWidth = 12
	expandMarker       = "›"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// columnBox is the horizontal extent of one rendered column. depth is -1
// for the loading placeholder.
type columnBox struct {
	depth int
	x     int
	width int
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	lines := make([]styledLine, 0, 16)
	if m.machine.Visible() {
		lines = append(lines, styledLine{text: m.header(), style: styles.Header})
		lines = append(lines, m.columnLines()...)
	} else {
		lines = append(lines, styledLine{text: m.closedSummary(), style: styles.Header})
		lines = append(lines, styledLine{text: "click or press space to open", style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		for _, row := range strings.Split(m.help.View(m.keys), "\n") {
			lines = append(lines, styledLine{text: row, raw: true})
		}
	}
	lines = limitHeight(lines, m.height-1, m.width)
	lines = applyWidth(lines, m.width)

	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	lines = append(lines, applyWidth([]styledLine{statusLine}, m.width)...)
	return renderLines(lines)
}

// header shows the labels along the active path.
func (m *Model) header() string {
	labels := optionLabels(m.machine.ActiveOptions())
	if len(labels) == 0 {
		return "select"
	}
	return strings.Join(labels, headerSeparator)
}

func (m *Model) closedSummary() string {
	labels := optionLabels(m.machine.ValueOptions())
	if len(labels) == 0 {
		return "(nothing selected)"
	}
	return strings.Join(labels, " "+m.separator+" ")
}

func optionLabels(options []*cascade.Option) []string {
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		labels = append(labels, opt.DisplayLabel())
	}
	return labels
}

func (m *Model) columnLines() []styledLine {
	maxVisible := m.maxVisibleItems()
	m.prepareColumns(maxVisible)
	boxes := m.layout()
	rows := 0
	for _, box := range boxes {
		n := 1
		if box.depth >= 0 {
			start, end := m.columns[box.depth].VisibleRange(maxVisible)
			n = end - start
		}
		if n > rows {
			rows = n
		}
	}
	sep := render(styles.Separator, columnSeparator)
	lines := make([]styledLine, 0, rows)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for i, box := range boxes {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(m.renderCell(box, r, maxVisible))
		}
		lines = append(lines, styledLine{text: b.String(), raw: true})
	}
	return lines
}

func (m *Model) renderCell(box columnBox, row, maxVisible int) string {
	if box.depth < 0 {
		if row != 0 {
			return strings.Repeat(" ", box.width)
		}
		text := m.spinner.View() + " " + render(styles.Loading, "loading")
		return padRight(text, box.width)
	}
	col := m.columns[box.depth]
	start, end := col.VisibleRange(maxVisible)
	idx := start + row
	if idx >= end {
		return strings.Repeat(" ", box.width)
	}
	opt := col.Items[idx]
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	markerStyle := styles.Expand
	switch {
	case idx == col.Active:
		lineStyle = styles.SelectedItem
		indicatorStyle = styles.SelectedItemIndicator
		markerStyle = styles.SelectedItem
	case opt.Disabled:
		lineStyle = styles.DisabledItem
	}
	labelWidth := box.width - columnChrome
	label := opt.DisplayLabel()
	if lipgloss.Width(label) > labelWidth {
		label = truncate.StringWithTail(label, uint(labelWidth), "…")
	}
	marker := " "
	if opt.HasChildren() || opt.PendingChildren() {
		marker = expandMarker
	}
	body := " " + padRight(label, labelWidth) + " "
	return render(indicatorStyle, "▌") + render(lineStyle, body) + render(markerStyle, marker)
}

// layout places the visible columns left to right. When they do not fit
// the width, the shallowest columns are dropped first.
func (m *Model) layout() []columnBox {
	boxes := make([]columnBox, 0, len(m.columns)+1)
	for depth, col := range m.columns {
		boxes = append(boxes, columnBox{depth: depth, width: columnWidth(col.Items)})
	}
	if m.loadingActive() {
		boxes = append(boxes, columnBox{depth: -1, width: loadingColumnWidth})
	}
	if m.width > 0 {
		for len(boxes) > 1 && totalWidth(boxes) > m.width {
			boxes = boxes[1:]
		}
	}
	x := 0
	for i := range boxes {
		boxes[i].x = x
		x += boxes[i].width + lipgloss.Width(columnSeparator)
	}
	return boxes
}

func totalWidth(boxes []columnBox) int {
	total := 0
	for i, box := range boxes {
		if i > 0 {
			total += lipgloss.Width(columnSeparator)
		}
		total += box.width
	}
	return total
}

func columnWidth(items cascade.Tree) int {
	widest := 0
	for _, opt := range items {
		if w := lipgloss.Width(opt.DisplayLabel()); w > widest {
			widest = w
		}
	}
	width := widest + columnChrome
	if width < minColumnWidth {
		return minColumnWidth
	}
	if width > maxColumnWidth {
		return maxColumnWidth
	}
	return width
}

// prepareColumns scrolls each column so its active option is visible.
func (m *Model) prepareColumns(maxVisible int) {
	for _, col := range m.columns {
		col.EnsureVisible(maxVisible)
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.help.Width = m.width
	return nil
}

// maxVisibleItems is the number of option rows each column may show, or
// -1 when the height is unknown.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := headerRows + 1 // header + error/status
	if m.showFooter {
		used += 1 + strings.Count(m.help.View(m.keys), "\n") + 1
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func render(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

func padRight(text string, width int) string {
	if pad := width - lipgloss.Width(text); pad > 0 {
		return text + strings.Repeat(" ", pad)
	}
	return text
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw {
			out[i] = line.text
			continue
		}
		out[i] = render(line.style, line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
