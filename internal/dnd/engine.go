// Package dnd turns pointer gestures on task cards into status moves.
//
// A gesture runs Idle -> Pressed -> Dragging -> Resolving -> Committing and
// always ends back in Idle. The engine does no rendering: hosts feed it
// pointer samples and drop zone geometry and read Snapshot for highlighting.
package dnd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/common/metrics"
	"github.com/shifa-s11/board-task/internal/task/models"
)

// Phase is the engine state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePressed
	PhaseDragging
	PhaseResolving
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	case PhaseResolving:
		return "resolving"
	case PhaseCommitting:
		return "committing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome is how a gesture ended.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeClick     Outcome = "click"
	OutcomeAborted   Outcome = "aborted"
	OutcomeDiscarded Outcome = "discarded"
	OutcomeCommitted Outcome = "committed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Mover applies a status move. *service.Service satisfies it.
type Mover interface {
	MoveTask(ctx context.Context, taskID string, status models.TaskStatus) error
}

// Draggable is the card under the pointer at press time.
type Draggable struct {
	TaskID string
	Status models.TaskStatus
	Rect   Rect
}

// Result describes a finished gesture.
type Result struct {
	Outcome Outcome
	TaskID  string
	From    models.TaskStatus
	To      models.TaskStatus
	ZoneID  string
	Reason  string
}

// Snapshot is the engine state exposed to hosts.
type Snapshot struct {
	Phase   Phase
	TaskID  string
	From    models.TaskStatus
	Pointer Point
	Delta   Point
	Card    Rect   // card rect translated by Delta
	OverID  string // highlighted drop zone, empty when none
}

type gesture struct {
	item      Draggable
	kind      PointerKind
	origin    Point
	pressedAt time.Time
	pointer   Point
	over      string
}

// Engine runs one gesture at a time.
type Engine struct {
	cfg    Config
	mover  Mover
	logger *logger.Logger

	mu        sync.Mutex
	zones     []DropZone
	phase     Phase
	g         *gesture
	listeners []func(Snapshot)
}

// NewEngine creates an idle engine that commits through mover.
func NewEngine(cfg Config, mover Mover, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Default()
	}
	return &Engine{
		cfg:    cfg,
		mover:  mover,
		logger: log.WithFields(zap.String("component", "dnd-engine")),
	}
}

// SetZones replaces the drop zone layout. Hosts call it whenever columns
// are laid out again.
func (e *Engine) SetZones(zones []DropZone) {
	e.mu.Lock()
	e.zones = append([]DropZone(nil), zones...)
	e.mu.Unlock()
}

// OnChange registers fn to receive a snapshot after every state change.
// fn runs on the caller's goroutine without the engine lock held.
func (e *Engine) OnChange(fn func(Snapshot)) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{Phase: e.phase}
	if e.g == nil {
		return s
	}
	s.TaskID = e.g.item.TaskID
	s.From = e.g.item.Status
	s.Pointer = e.g.pointer
	if e.phase >= PhaseDragging {
		s.Delta = e.g.pointer.Sub(e.g.origin)
		s.Card = e.g.item.Rect.Translate(s.Delta)
		s.OverID = e.g.over
	} else {
		s.Card = e.g.item.Rect
	}
	return s
}

// PointerDown arms a gesture on item. It returns false when another gesture
// is still in progress.
func (e *Engine) PointerDown(item Draggable, ev PointerEvent) bool {
	e.mu.Lock()
	if e.phase != PhaseIdle {
		e.mu.Unlock()
		return false
	}
	e.phase = PhasePressed
	e.g = &gesture{
		item:      item,
		kind:      ev.Kind,
		origin:    ev.Pos,
		pressedAt: ev.At,
		pointer:   ev.Pos,
	}
	snap, listeners := e.changedLocked()
	e.mu.Unlock()

	notify(listeners, snap)
	return true
}

// PointerMove feeds a pointer sample. While pressed it applies the sensor
// constraint; while dragging it tracks the hovered zone.
func (e *Engine) PointerMove(ev PointerEvent) {
	e.mu.Lock()
	var finished *Result
	switch e.phase {
	case PhasePressed:
		e.g.pointer = ev.Pos
		switch e.sensorVerdictLocked(ev) {
		case verdictActivate:
			e.activateLocked()
		case verdictAbort:
			res := e.finishLocked(OutcomeAborted, "pointer drifted before hold delay")
			finished = &res
		default:
			e.mu.Unlock()
			return
		}
	case PhaseDragging:
		e.g.pointer = ev.Pos
		e.g.over = e.hoverLocked()
	default:
		e.mu.Unlock()
		return
	}
	snap, listeners := e.changedLocked()
	e.mu.Unlock()

	if finished != nil {
		e.record(*finished)
	}
	notify(listeners, snap)
}

// Tick lets a held touch press activate without further movement.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	if e.phase != PhasePressed || e.g.kind != PointerTouch {
		e.mu.Unlock()
		return
	}
	if now.Sub(e.g.pressedAt) < e.cfg.Touch.Delay {
		e.mu.Unlock()
		return
	}
	e.activateLocked()
	snap, listeners := e.changedLocked()
	e.mu.Unlock()
	notify(listeners, snap)
}

// PointerUp ends the gesture. A press that never activated is a click; a
// drag released over no zone is discarded; otherwise exactly one MoveTask is
// issued for the resolved column, even when it is the source column. The
// mover's error is returned as is. The engine is Idle when PointerUp returns.
func (e *Engine) PointerUp(ctx context.Context, ev PointerEvent) (Result, error) {
	e.mu.Lock()
	switch e.phase {
	case PhasePressed:
		res := e.finishLocked(OutcomeClick, "")
		snap, listeners := e.changedLocked()
		e.mu.Unlock()
		e.record(res)
		notify(listeners, snap)
		return res, nil
	case PhaseDragging:
	default:
		e.mu.Unlock()
		return Result{}, nil
	}

	e.g.pointer = ev.Pos
	e.phase = PhaseResolving
	card := e.g.item.Rect.Translate(ev.Pos.Sub(e.g.origin))
	zone, ok := Resolve(e.zones, card, ev.Pos)
	if !ok {
		res := e.finishLocked(OutcomeDiscarded, "released outside any column")
		snap, listeners := e.changedLocked()
		e.mu.Unlock()
		e.record(res)
		notify(listeners, snap)
		return res, nil
	}

	e.phase = PhaseCommitting
	e.g.over = zone.ID
	item := e.g.item
	snap, listeners := e.changedLocked()
	e.mu.Unlock()
	notify(listeners, snap)

	err := e.mover.MoveTask(ctx, item.TaskID, zone.Status)

	e.mu.Lock()
	outcome := OutcomeCommitted
	reason := ""
	if err != nil {
		outcome = OutcomeFailed
		reason = err.Error()
	}
	res := e.finishLocked(outcome, reason)
	res.To = zone.Status
	res.ZoneID = zone.ID
	snap, listeners = e.changedLocked()
	e.mu.Unlock()

	e.record(res)
	notify(listeners, snap)
	return res, err
}

// Cancel abandons a pressed or dragging gesture without a store call. A
// gesture that is already committing runs to completion and is unaffected.
func (e *Engine) Cancel(reason string) Result {
	e.mu.Lock()
	if e.phase != PhasePressed && e.phase != PhaseDragging {
		e.mu.Unlock()
		return Result{}
	}
	res := e.finishLocked(OutcomeCancelled, reason)
	snap, listeners := e.changedLocked()
	e.mu.Unlock()

	e.record(res)
	notify(listeners, snap)
	return res
}

func (e *Engine) sensorVerdictLocked(ev PointerEvent) verdict {
	if e.g.kind == PointerTouch {
		return e.cfg.Touch.check(e.g.origin, e.g.pressedAt, ev)
	}
	return e.cfg.Mouse.check(e.g.origin, e.g.pressedAt, ev)
}

func (e *Engine) activateLocked() {
	e.phase = PhaseDragging
	e.g.over = e.hoverLocked()
}

func (e *Engine) hoverLocked() string {
	card := e.g.item.Rect.Translate(e.g.pointer.Sub(e.g.origin))
	if zone, ok := Resolve(e.zones, card, e.g.pointer); ok {
		return zone.ID
	}
	return ""
}

// finishLocked returns the engine to Idle and describes the gesture.
func (e *Engine) finishLocked(outcome Outcome, reason string) Result {
	res := Result{Outcome: outcome, Reason: reason}
	if e.g != nil {
		res.TaskID = e.g.item.TaskID
		res.From = e.g.item.Status
	}
	e.phase = PhaseIdle
	e.g = nil
	return res
}

func (e *Engine) changedLocked() (Snapshot, []func(Snapshot)) {
	listeners := make([]func(Snapshot), len(e.listeners))
	copy(listeners, e.listeners)
	return e.snapshotLocked(), listeners
}

func (e *Engine) record(res Result) {
	metrics.DragGestures.WithLabelValues(string(res.Outcome)).Inc()
	fields := []zap.Field{
		zap.String("outcome", string(res.Outcome)),
		zap.String("task_id", res.TaskID),
	}
	switch res.Outcome {
	case OutcomeFailed:
		e.logger.Warn("drag commit failed", append(fields, zap.String("reason", res.Reason))...)
	case OutcomeCommitted:
		e.logger.Debug("drag committed", append(fields,
			zap.String("from", string(res.From)),
			zap.String("to", string(res.To)))...)
	default:
		e.logger.Debug("gesture finished", fields...)
	}
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}
