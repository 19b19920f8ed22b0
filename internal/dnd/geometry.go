package dnd

import (
	"math"
	"strings"

	"github.com/shifa-s11/board-task/internal/task/models"
)

// Point is a position in the host surface's coordinate space.
type Point struct {
	X, Y float64
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle. X/Y is the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports whether r and o overlap with a non-zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Center returns the centroid of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Corners returns top-left, top-right, bottom-left and bottom-right.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X, Y: r.Y + r.H},
		{X: r.X + r.W, Y: r.Y + r.H},
	}
}

// DropZone is a status column that accepts dropped cards.
type DropZone struct {
	ID     string
	Status models.TaskStatus
	Rect   Rect
}

const zonePrefix = "column-"

// ColumnZoneID returns the drop zone id of a status column.
func ColumnZoneID(status models.TaskStatus) string {
	return zonePrefix + string(status)
}

// ParseColumnZoneID maps a drop zone id back to its status.
func ParseColumnZoneID(id string) (models.TaskStatus, bool) {
	if !strings.HasPrefix(id, zonePrefix) {
		return "", false
	}
	status := models.TaskStatus(strings.TrimPrefix(id, zonePrefix))
	return status, status.Valid()
}

// ColumnZones builds one zone per status from rects given in column order.
// Extra rects are ignored.
func ColumnZones(rects []Rect) []DropZone {
	zones := make([]DropZone, 0, len(models.Statuses))
	for i, status := range models.Statuses {
		if i >= len(rects) {
			break
		}
		zones = append(zones, DropZone{ID: ColumnZoneID(status), Status: status, Rect: rects[i]})
	}
	return zones
}
