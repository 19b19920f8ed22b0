package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shifa-s11/board-task/internal/dnd"
	"github.com/shifa-s11/board-task/internal/task/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	emptyStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	statusColors = map[models.TaskStatus]lipgloss.Color{
		models.StatusPending:  lipgloss.Color("75"),
		models.StatusCritical: lipgloss.Color("203"),
		models.StatusUrgent:   lipgloss.Color("214"),
		models.StatusComplete: lipgloss.Color("114"),
	}
)

const helpText = "drag cards with the mouse · tab next board · n new task · r reseed · esc cancel · q quit"

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.currentBoard() == nil {
		b.WriteString(lipgloss.NewStyle().Height(m.layout.bodyHeight).Render(
			emptyStyle.Render("No boards. Press r to load the sample board.")))
	} else {
		b.WriteString(m.boardView())
	}
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(truncate(helpText, m.width)))
	return b.String()
}

func (m *Model) headerView() string {
	board := m.currentBoard()
	if board == nil {
		return titleStyle.Render("board-task")
	}
	text := fmt.Sprintf("board-task · %s (%d/%d)", board.Name, m.boardIdx+1, len(m.boards))
	return titleStyle.Render(truncate(text, m.width))
}

func (m *Model) boardView() string {
	snap := m.engine.Snapshot()
	dragging := snap.Phase >= dnd.PhaseDragging

	cols := make([]string, 0, len(models.Statuses)*2)
	for i, status := range models.Statuses {
		if i > 0 {
			cols = append(cols, strings.Repeat(" ", columnGap))
		}
		hovered := dragging && snap.OverID == dnd.ColumnZoneID(status)
		cols = append(cols, m.columnView(i, status, hovered, snap))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) columnView(i int, status models.TaskStatus, hovered bool, snap dnd.Snapshot) string {
	w := m.layout.columnWidth
	color := statusColors[status]

	count := 0
	for _, t := range m.tasks {
		if t.Status == status {
			count++
		}
	}
	head := lipgloss.NewStyle().Bold(true).Foreground(color).Width(w)
	if hovered {
		head = head.Reverse(true)
	}
	parts := []string{head.Render(truncate(fmt.Sprintf("%s (%d)", status, count), w))}

	for _, c := range m.layout.visible(i) {
		card := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Width(w - 2)
		if snap.TaskID == c.task.ID && snap.Phase >= dnd.PhaseDragging {
			card = card.Faint(true).BorderForeground(lipgloss.Color("241"))
		}
		parts = append(parts, card.Render(truncate(c.task.Title, w-2)))
	}

	return lipgloss.NewStyle().
		Width(w).
		Height(m.layout.bodyHeight).
		MaxHeight(m.layout.bodyHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *Model) statusView() string {
	snap := m.engine.Snapshot()
	if snap.Phase >= dnd.PhaseDragging {
		target := "no column"
		if status, ok := dnd.ParseColumnZoneID(snap.OverID); ok {
			target = string(status)
		}
		return infoStyle.Render(truncate(fmt.Sprintf("Moving %s → %s", m.taskTitle(snap.TaskID), target), m.width))
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(truncate(m.status, m.width))
	}
	return infoStyle.Render(truncate(m.status, m.width))
}

// truncate shortens s to at most n cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
