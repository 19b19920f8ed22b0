package dnd

import (
	"math"
	"sort"
)

// Collision is a candidate drop zone with its ranking distances.
type Collision struct {
	Zone     DropZone
	Corners  float64 // mean distance between matching corners
	Centroid float64 // zone centroid to release point
	order    int
}

// closestCorners ranks the zones a dragged card can land in.
//
// A zone is a candidate when it overlaps the card's current rect or contains
// the pointer. Candidates are ordered by the mean distance between matching
// corners of the card and the zone, then by the distance from the zone's
// centroid to the pointer, then by column order.
func closestCorners(zones []DropZone, card Rect, pointer Point) []Collision {
	cardCorners := card.Corners()
	out := make([]Collision, 0, len(zones))
	for i, z := range zones {
		if !z.Rect.Intersects(card) && !z.Rect.Contains(pointer) {
			continue
		}
		zoneCorners := z.Rect.Corners()
		var sum float64
		for j := range zoneCorners {
			sum += cardCorners[j].Dist(zoneCorners[j])
		}
		order := z.Status.Index()
		if order < 0 {
			order = len(zones) + i
		}
		out = append(out, Collision{
			Zone:     z,
			Corners:  round4(sum / 4),
			Centroid: round4(z.Rect.Center().Dist(pointer)),
			order:    order,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Corners != b.Corners {
			return a.Corners < b.Corners
		}
		if a.Centroid != b.Centroid {
			return a.Centroid < b.Centroid
		}
		return a.order < b.order
	})
	return out
}

// overTarget reports whether pointer is over a zone, or in the gap between two
// zones the card overlaps and within their vertical span. A pointer anywhere
// else resolves to no zone even if the card still overlaps one.
func overTarget(zones []DropZone, card Rect, p Point) bool {
	var left, right bool
	for _, z := range zones {
		r := z.Rect
		if r.Contains(p) {
			return true
		}
		if !r.Intersects(card) || p.Y < r.Y || p.Y > r.Y+r.H {
			continue
		}
		if r.X+r.W <= p.X {
			left = true
		}
		if r.X >= p.X {
			right = true
		}
	}
	return left && right
}

// Resolve returns the zone a card released at pointer lands in. The pointer
// must be over a zone or between two zones the card overlaps; among the
// candidates closestCorners picks.
func Resolve(zones []DropZone, card Rect, pointer Point) (DropZone, bool) {
	if !overTarget(zones, card, pointer) {
		return DropZone{}, false
	}
	ranked := closestCorners(zones, card, pointer)
	if len(ranked) == 0 {
		return DropZone{}, false
	}
	return ranked[0].Zone, true
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
