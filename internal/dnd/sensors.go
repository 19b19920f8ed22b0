package dnd

import (
	"time"

	"github.com/shifa-s11/board-task/internal/common/config"
)

// PointerKind tells the engine which activation constraint applies.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
)

func (k PointerKind) String() string {
	if k == PointerTouch {
		return "touch"
	}
	return "mouse"
}

// PointerEvent is one pointer sample from the host surface.
type PointerEvent struct {
	Kind PointerKind
	Pos  Point
	At   time.Time
}

// MouseSensor promotes a press to a drag once the pointer has travelled
// more than Distance from where it was pressed.
type MouseSensor struct {
	Distance float64
}

// TouchSensor promotes a press to a drag once it has been held for Delay
// without drifting more than Tolerance. Drifting further before the delay
// aborts the press.
type TouchSensor struct {
	Delay     time.Duration
	Tolerance float64
}

type verdict int

const (
	verdictPending verdict = iota
	verdictActivate
	verdictAbort
)

func (s MouseSensor) check(origin Point, _ time.Time, ev PointerEvent) verdict {
	if ev.Pos.Dist(origin) > s.Distance {
		return verdictActivate
	}
	return verdictPending
}

func (s TouchSensor) check(origin Point, pressedAt time.Time, ev PointerEvent) verdict {
	held := ev.At.Sub(pressedAt) >= s.Delay
	drift := ev.Pos.Dist(origin)
	switch {
	case !held && drift > s.Tolerance:
		return verdictAbort
	case held:
		return verdictActivate
	default:
		return verdictPending
	}
}

// Config holds the activation constraints of both sensors.
type Config struct {
	Mouse MouseSensor
	Touch TouchSensor
}

// DefaultConfig returns a 5 unit mouse distance and a 100ms / 5 unit touch
// hold.
func DefaultConfig() Config {
	return Config{
		Mouse: MouseSensor{Distance: 5},
		Touch: TouchSensor{Delay: 100 * time.Millisecond, Tolerance: 5},
	}
}

// ConfigFrom converts the drag section of the application config.
func ConfigFrom(dc config.DragConfig) Config {
	return Config{
		Mouse: MouseSensor{Distance: dc.MouseDistance},
		Touch: TouchSensor{Delay: dc.TouchDelay(), Tolerance: dc.TouchTolerance},
	}
}
