package tui

import (
	"github.com/shifa-s11/board-task/internal/dnd"
	"github.com/shifa-s11/board-task/internal/task/models"
)

// Screen geometry in terminal cells. The view renders exactly these
// positions so hit testing and drop zones line up with what is drawn.
const (
	headerLines    = 2 // title, blank
	footerLines    = 2 // status, help
	columnHeader   = 1
	cardLines      = 3 // rounded border around one line of text
	columnGap      = 1
	minColumnWidth = 12
)

type cardBox struct {
	task models.Task
	rect dnd.Rect
}

type layout struct {
	columnWidth int
	bodyHeight  int
	columns     []dnd.Rect // in models.Statuses order
	cards       []cardBox
}

// computeLayout places the four status columns side by side below the
// header and stacks each column's cards under its title. Cards that do not
// fit the body height are left out.
func computeLayout(width, height int, tasks []models.Task) layout {
	n := len(models.Statuses)
	colW := (width - (n-1)*columnGap) / n
	if colW < minColumnWidth {
		colW = minColumnWidth
	}
	bodyH := height - headerLines - footerLines
	if bodyH < columnHeader+cardLines {
		bodyH = columnHeader + cardLines
	}

	l := layout{columnWidth: colW, bodyHeight: bodyH}
	for i := range models.Statuses {
		l.columns = append(l.columns, dnd.Rect{
			X: float64(i * (colW + columnGap)),
			Y: float64(headerLines),
			W: float64(colW),
			H: float64(bodyH),
		})
	}

	slots := make([]int, n)
	maxCards := (bodyH - columnHeader) / cardLines
	for _, t := range tasks {
		i := t.Status.Index()
		if i < 0 || slots[i] >= maxCards {
			continue
		}
		col := l.columns[i]
		l.cards = append(l.cards, cardBox{
			task: t,
			rect: dnd.Rect{
				X: col.X,
				Y: col.Y + float64(columnHeader+slots[i]*cardLines),
				W: col.W,
				H: float64(cardLines),
			},
		})
		slots[i]++
	}
	return l
}

// visible returns the cards laid out in column i, top to bottom.
func (l layout) visible(i int) []cardBox {
	var out []cardBox
	for _, c := range l.cards {
		if c.task.Status.Index() == i {
			out = append(out, c)
		}
	}
	return out
}

// cardAt returns the card drawn under p.
func (l layout) cardAt(p dnd.Point) (cardBox, bool) {
	for _, c := range l.cards {
		// Cells are half-open; a point on the bottom or right edge belongs
		// to the next cell.
		r := c.rect
		if p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H {
			return c, true
		}
	}
	return cardBox{}, false
}

// zones returns the drop zones of the laid out columns.
func (l layout) zones() []dnd.DropZone {
	return dnd.ColumnZones(l.columns)
}

// cellCenter converts a terminal cell to the point at its centre.
func cellCenter(x, y int) dnd.Point {
	return dnd.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}
