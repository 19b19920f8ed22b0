package dnd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/task/models"
)

type moveCall struct {
	taskID string
	status models.TaskStatus
}

type recordingMover struct {
	calls  []moveCall
	err    error
	during func()
}

func (m *recordingMover) MoveTask(_ context.Context, taskID string, status models.TaskStatus) error {
	m.calls = append(m.calls, moveCall{taskID, status})
	if m.during != nil {
		m.during()
	}
	return m.err
}

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Four 100x400 columns with 10 units between them.
func testZones() []DropZone {
	return ColumnZones([]Rect{
		{X: 0, Y: 0, W: 100, H: 400},
		{X: 110, Y: 0, W: 100, H: 400},
		{X: 220, Y: 0, W: 100, H: 400},
		{X: 330, Y: 0, W: 100, H: 400},
	})
}

func pendingCard() Draggable {
	return Draggable{TaskID: "task_1", Status: models.StatusPending, Rect: Rect{X: 10, Y: 20, W: 80, H: 30}}
}

func mouse(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMouse, Pos: Point{X: x, Y: y}, At: t0}
}

func touch(x, y float64, after time.Duration) PointerEvent {
	return PointerEvent{Kind: PointerTouch, Pos: Point{X: x, Y: y}, At: t0.Add(after)}
}

func newTestEngine(m *recordingMover) *Engine {
	e := NewEngine(DefaultConfig(), m, logger.Nop())
	e.SetZones(testZones())
	return e
}

func TestDragCommitsExactlyOneMove(t *testing.T) {
	m := &recordingMover{}
	e := newTestEngine(m)

	require.True(t, e.PointerDown(pendingCard(), mouse(50, 35)))
	e.PointerMove(mouse(60, 35))
	assert.Equal(t, PhaseDragging, e.Snapshot().Phase)
	e.PointerMove(mouse(380, 35))

	snap := e.Snapshot()
	assert.Equal(t, ColumnZoneID(models.StatusComplete), snap.OverID)
	assert.Equal(t, Point{X: 330, Y: 0}, snap.Delta)

	res, err := e.PointerUp(context.Background(), mouse(380, 35))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, res.Outcome)
	assert.Equal(t, models.StatusPending, res.From)
	assert.Equal(t, models.StatusComplete, res.To)
	assert.Equal(t, []moveCall{{"task_1", models.StatusComplete}}, m.calls)
	assert.Equal(t, PhaseIdle, e.Snapshot().Phase)
}

func TestReleaseOutsideAnyZoneIsDiscarded(t *testing.T) {
	m := &recordingMover{}
	e := newTestEngine(m)

	e.PointerDown(pendingCard(), mouse(50, 35))
	e.PointerMove(mouse(50, 900))
	assert.Empty(t, e.Snapshot().OverID)

	res, err := e.PointerUp(context.Background(), mouse(50, 900))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDiscarded, res.Outcome)
	assert.Empty(t, m.calls)
	assert.Equal(t, PhaseIdle, e.Snapshot().Phase)
}

func TestReleaseNearColumnEdge(t *testing.T) {
	tests := []struct {
		name    string
		release Point
		calls   []moveCall
	}{
		{"card overlaps column but pointer below it", Point{X: 50, Y: 402}, nil},
		{"pointer in gap between overlapped columns", Point{X: 105, Y: 35},
			[]moveCall{{"task_1", models.StatusCritical}}},
		{"pointer in gap but below the columns", Point{X: 105, Y: 402}, nil},
		{"pointer beside the last column", Point{X: 435, Y: 35}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &recordingMover{}
			e := newTestEngine(m)

			e.PointerDown(pendingCard(), mouse(50, 35))
			e.PointerMove(mouse(tt.release.X, tt.release.Y))
			res, err := e.PointerUp(context.Background(), mouse(tt.release.X, tt.release.Y))
			require.NoError(t, err)

			if tt.calls == nil {
				assert.Equal(t, OutcomeDiscarded, res.Outcome)
				assert.Empty(t, m.calls)
			} else {
				assert.Equal(t, OutcomeCommitted, res.Outcome)
				assert.Equal(t, tt.calls, m.calls)
			}
		})
	}
}

func TestSameColumnDropStillMovesOnce(t *testing.T) {
	m := &recordingMover{}
	e := newTestEngine(m)

	e.PointerDown(pendingCard(), mouse(50, 35))
	e.PointerMove(mouse(50, 200))
	res, err := e.PointerUp(context.Background(), mouse(50, 200))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, res.Outcome)
	assert.Equal(t, []moveCall{{"task_1", models.StatusPending}}, m.calls)
}

func TestMouseDistanceThreshold(t *testing.T) {
	tests := []struct {
		name    string
		moveTo  Point
		outcome Outcome
	}{
		{"no movement is a click", Point{X: 50, Y: 35}, OutcomeClick},
		{"exactly the threshold is a click", Point{X: 55, Y: 35}, OutcomeClick},
		{"beyond the threshold drags", Point{X: 53, Y: 39.1}, OutcomeCommitted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &recordingMover{}
			e := newTestEngine(m)
			e.PointerDown(pendingCard(), mouse(50, 35))
			e.PointerMove(mouse(tt.moveTo.X, tt.moveTo.Y))

			res, err := e.PointerUp(context.Background(), mouse(tt.moveTo.X, tt.moveTo.Y))
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, res.Outcome)
			if tt.outcome == OutcomeClick {
				assert.Empty(t, m.calls)
			} else {
				assert.Len(t, m.calls, 1)
			}
		})
	}
}

func TestTouchHoldActivatesAfterDelay(t *testing.T) {
	m := &recordingMover{}
	e := newTestEngine(m)

	e.PointerDown(pendingCard(), touch(50, 35, 0))
	e.PointerMove(touch(52, 36, 40*time.Millisecond))
	e.Tick(t0.Add(99 * time.Millisecond))
	assert.Equal(t, PhasePressed, e.Snapshot().Phase)

	e.Tick(t0.Add(100 * time.Millisecond))
	assert.Equal(t, PhaseDragging, e.Snapshot().Phase)

	e.PointerMove(touch(160, 35, 300*time.Millisecond))
	res, err := e.PointerUp(context.Background(), touch(160, 35, 320*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, res.Outcome)
	assert.Equal(t, []moveCall{{"task_1", models.StatusCritical}}, m.calls)
}

func TestTouchDriftBeforeDelayAborts(t *testing.T) {
	m := &recordingMover{}
	e := newTestEngine(m)

	e.PointerDown(pendingCard(), touch(50, 35, 0))
	e.PointerMove(touch(50, 60, 30*time.Millisecond))
	assert.Equal(t, PhaseIdle, e.Snapshot().Phase)

	res, err := e.PointerUp(context.Background(), touch(50, 60, 200*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, res.Outcome)
	assert.Empty(t, m.calls)
}

func TestTouchReleaseBeforeDelayIsClick(t *testing.T) {
	e := newTestEngine(&recordingMover{})
	e.PointerDown(pendingCard(), touch(50, 35, 0))

	res, err := e.PointerUp(context.Background(), touch(51, 35, 50*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, OutcomeClick, res.Outcome)
}

func TestCancelReturnsToIdleWithoutMove(t *testing.T) {
	m := &recordingMover{}
	e := newTestEngine(m)

	e.PointerDown(pendingCard(), mouse(50, 35))
	e.PointerMove(mouse(380, 35))
	res := e.Cancel("focus lost")
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, "focus lost", res.Reason)
	assert.Equal(t, PhaseIdle, e.Snapshot().Phase)

	res2, err := e.PointerUp(context.Background(), mouse(380, 35))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, res2.Outcome)
	assert.Empty(t, m.calls)
	assert.Equal(t, Result{}, e.Cancel("again"))
}

func TestFailedMoveSurfacesErrorAndReturnsToIdle(t *testing.T) {
	moveErr := errors.New("VALIDATION_ERROR: bad status")
	m := &recordingMover{err: moveErr}
	e := newTestEngine(m)

	e.PointerDown(pendingCard(), mouse(50, 35))
	e.PointerMove(mouse(270, 35))
	res, err := e.PointerUp(context.Background(), mouse(270, 35))

	require.ErrorIs(t, err, moveErr)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, models.StatusUrgent, res.To)
	assert.Len(t, m.calls, 1)
	assert.Equal(t, PhaseIdle, e.Snapshot().Phase)

	assert.True(t, e.PointerDown(pendingCard(), mouse(50, 35)), "engine accepts a new gesture after a failure")
}

func TestNoNewGestureWhileCommitting(t *testing.T) {
	m := &recordingMover{}
	e := newTestEngine(m)
	m.during = func() {
		assert.Equal(t, PhaseCommitting, e.Snapshot().Phase)
		assert.False(t, e.PointerDown(pendingCard(), mouse(50, 35)))
		assert.Equal(t, Result{}, e.Cancel("too late"))
	}

	e.PointerDown(pendingCard(), mouse(50, 35))
	e.PointerMove(mouse(380, 35))
	res, err := e.PointerUp(context.Background(), mouse(380, 35))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCommitted, res.Outcome)
	assert.Len(t, m.calls, 1)
}

func TestOnChangeReportsPhases(t *testing.T) {
	e := newTestEngine(&recordingMover{})
	var phases []Phase
	e.OnChange(func(s Snapshot) { phases = append(phases, s.Phase) })

	e.PointerDown(pendingCard(), mouse(50, 35))
	e.PointerMove(mouse(380, 35))
	_, err := e.PointerUp(context.Background(), mouse(380, 35))
	require.NoError(t, err)

	assert.Equal(t, []Phase{PhasePressed, PhaseDragging, PhaseCommitting, PhaseIdle}, phases)
}

func TestResolveTieBreaks(t *testing.T) {
	zones := ColumnZones([]Rect{
		{X: 0, Y: 0, W: 100, H: 400},
		{X: 100, Y: 0, W: 100, H: 400},
	})
	// The card straddles both columns equally.
	card := Rect{X: 50, Y: 0, W: 100, H: 400}

	zone, ok := Resolve(zones, card, Point{X: 100, Y: 200})
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, zone.Status, "full tie falls back to column order")

	zone, ok = Resolve(zones, card, Point{X: 101, Y: 200})
	require.True(t, ok)
	assert.Equal(t, models.StatusCritical, zone.Status, "closer centroid wins")

	zone, ok = Resolve(zones, Rect{X: 90, Y: 0, W: 100, H: 400}, Point{X: 140, Y: 200})
	require.True(t, ok)
	assert.Equal(t, models.StatusCritical, zone.Status, "closest corners wins first")

	_, ok = Resolve(zones, Rect{X: 500, Y: 500, W: 10, H: 10}, Point{X: 505, Y: 505})
	assert.False(t, ok)
}

func TestColumnZoneIDs(t *testing.T) {
	for _, status := range models.Statuses {
		got, ok := ParseColumnZoneID(ColumnZoneID(status))
		assert.True(t, ok)
		assert.Equal(t, status, got)
	}
	_, ok := ParseColumnZoneID("column-Done")
	assert.False(t, ok)
	_, ok = ParseColumnZoneID("task_1")
	assert.False(t, ok)
}
