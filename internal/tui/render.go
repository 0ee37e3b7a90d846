package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/database/repository"
	"github.com/jask/stitchlist/internal/draggable"
)

func (l *List) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("stitchlist"))
	b.WriteString("  " + statusStyle.Render(l.engine.MoveMode().String()))
	if q := l.filter.Query(); q != "" {
		b.WriteString("  " + inputStyle.Render("filter: "+q))
	}
	b.WriteString("\n")

	for i, h := range l.visible {
		b.WriteString(l.renderRow(h, l.scroll+i == l.cursor))
		b.WriteString("\n")
	}
	for i := len(l.visible); i < l.listHeight(); i++ {
		b.WriteString("\n")
	}

	b.WriteString(l.statusLine())
	b.WriteString("\n")
	b.WriteString(l.help.View(l.keys))
	return b.String()
}

func dragFlags(h *adapter.Holder) int {
	if h.DragState < 0 {
		return 0
	}
	return h.DragState
}

func (l *List) renderRow(h *adapter.Holder, cursor bool) string {
	var line string
	switch d := h.Data.(type) {
	case repository.Source:
		line = headerStyle.Render("▸ " + h.Content)
	case repository.Item:
		mark, style := "[ ]", itemStyle
		if d.Done {
			mark, style = "[x]", doneStyle
		}
		line = "  " + mark + " " + style.Render(h.Content)
	default:
		line = "  " + h.Content
	}

	flags := dragFlags(h)
	switch {
	case flags&draggable.StateActive != 0:
		line = dragStyle.Render("≡ " + h.Content)
	case flags&draggable.StateDragging != 0 && flags&draggable.StateInRange == 0:
		line = frozenStyle.Render(h.Content)
	case flags&draggable.StateDragging != 0:
		line = rangeStyle.Render(line)
	case cursor:
		line = cursorStyle.Render(line)
	}
	if l.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(l.width).Render(line)
	}
	return line
}

func (l *List) statusLine() string {
	switch l.mode {
	case modeFilter:
		return inputStyle.Render("/" + l.input)
	case modeAdd:
		name := ""
		if l.addTarget != nil {
			name = l.addTarget.Source().Name
		}
		return inputStyle.Render(fmt.Sprintf("add to %s: %s", name, l.input))
	}
	if l.dragging() {
		return statusStyle.Render(fmt.Sprintf("%s  %d → %d",
			l.status, l.drag.InitialPosition(), l.drag.CurrentPosition()))
	}
	switch {
	case strings.HasPrefix(l.status, "error: "):
		return errorStyle.Render(l.status)
	case strings.HasPrefix(l.status, "moved "):
		return successStyle.Render(l.status)
	}
	return statusStyle.Render(l.status)
}
