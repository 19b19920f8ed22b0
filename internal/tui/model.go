// Package tui is a terminal kanban board. It renders one board's status
// columns and hosts the drag engine: mouse press, motion and release in the
// terminal become pointer events, and a drop commits a status move.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/cache"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/dnd"
	"github.com/shifa-s11/board-task/internal/storage"
	"github.com/shifa-s11/board-task/internal/task/models"
	"github.com/shifa-s11/board-task/internal/task/service"
)

const statusTTL = 3 * time.Second

// storeChangedMsg tells the model that boards or tasks changed in the cache.
type storeChangedMsg struct{}

// clearStatusMsg expires the status line set under seq.
type clearStatusMsg struct{ seq int }

// Option customizes a Model.
type Option func(*Model)

// WithClock replaces time.Now for pointer timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx    context.Context
	svc    *service.Service
	engine *dnd.Engine
	logger *logger.Logger
	now    func() time.Time

	subs    []*cache.Subscription
	changes chan struct{}

	boards   []models.Board
	boardIdx int
	tasks    []models.Task

	width, height int
	layout        layout

	status    string
	statusErr bool
	statusSeq int
}

// New builds a board over svc. Changes to boards and tasks made through c,
// by this model or anything else sharing the cache, are picked up.
func New(ctx context.Context, svc *service.Service, c *cache.Cache, cfg dnd.Config, log *logger.Logger, opts ...Option) *Model {
	m := &Model{
		ctx:     ctx,
		svc:     svc,
		engine:  dnd.NewEngine(cfg, svc, log),
		logger:  log.WithFields(zap.String("component", "tui")),
		now:     time.Now,
		changes: make(chan struct{}, 1),
		width:   80,
		height:  24,
	}
	for _, opt := range opts {
		opt(m)
	}
	if c != nil {
		for _, key := range []string{storage.KeyBoards, storage.KeyTasks} {
			_, sub := c.Subscribe(ctx, key, m.onCacheChange)
			m.subs = append(m.subs, sub)
		}
	}
	m.reload()
	return m
}

// onCacheChange runs inside store mutations, possibly on this model's own
// Update goroutine, so it must never block. Pending notifications coalesce.
func (m *Model) onCacheChange(string, any) {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return storeChangedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Close releases the cache subscriptions.
func (m *Model) Close() {
	for _, sub := range m.subs {
		sub.Unsubscribe()
	}
	m.subs = nil
}

func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case storeChangedMsg:
		m.reload()
		return m, m.waitForChange()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.engine.Cancel("quit")
		return m, tea.Quit

	case "esc":
		if res := m.engine.Cancel("escape"); res.Outcome == dnd.OutcomeCancelled {
			return m, m.setStatus("Drag cancelled", false)
		}
		return m, nil

	case "tab":
		if len(m.boards) > 0 {
			m.engine.Cancel("board switched")
			m.boardIdx = (m.boardIdx + 1) % len(m.boards)
			m.reload()
		}
		return m, nil

	case "n":
		board := m.currentBoard()
		if board == nil {
			return m, m.setStatus("No board yet. Press r to seed one", true)
		}
		title := fmt.Sprintf("Task %d", len(m.tasks)+1)
		pending := string(models.StatusPending)
		task, err := m.svc.UpsertTask(m.ctx, &service.UpsertTaskRequest{
			BoardID: board.ID,
			Title:   &title,
			Status:  &pending,
		})
		m.reload()
		if err != nil {
			return m, m.setStatus("Could not create task: "+err.Error(), true)
		}
		return m, m.setStatus(fmt.Sprintf("Created %q", task.Title), false)

	case "r":
		m.engine.Cancel("reseed")
		err := m.svc.Reset(m.ctx)
		m.boardIdx = 0
		m.reload()
		if err != nil {
			return m, m.setStatus("Reseed failed: "+err.Error(), true)
		}
		return m, m.setStatus("Sample data restored", false)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	ev := dnd.PointerEvent{Kind: dnd.PointerMouse, Pos: cellCenter(msg.X, msg.Y), At: m.now()}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		card, ok := m.layout.cardAt(ev.Pos)
		if !ok {
			return nil
		}
		m.engine.PointerDown(dnd.Draggable{
			TaskID: card.task.ID,
			Status: card.task.Status,
			Rect:   card.rect,
		}, ev)
		return nil

	case tea.MouseActionMotion:
		m.engine.PointerMove(ev)
		return nil

	case tea.MouseActionRelease:
		res, err := m.engine.PointerUp(m.ctx, ev)
		m.reload()
		return m.reportResult(res, err)
	}
	return nil
}

func (m *Model) reportResult(res dnd.Result, err error) tea.Cmd {
	switch res.Outcome {
	case dnd.OutcomeCommitted:
		return m.setStatus(fmt.Sprintf("Moved %s to %s", m.taskTitle(res.TaskID), res.To), false)
	case dnd.OutcomeFailed:
		m.logger.Warn("move failed", zap.String("task_id", res.TaskID), zap.Error(err))
		return m.setStatus("Move failed: "+res.Reason, true)
	case dnd.OutcomeDiscarded:
		return m.setStatus("Dropped outside the columns", false)
	case dnd.OutcomeClick:
		if t := m.findTask(res.TaskID); t != nil {
			return m.setStatus(describe(*t), false)
		}
	}
	return nil
}

// setStatus shows text in the status line until statusTTL passes or another
// status replaces it.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// reload refreshes boards and tasks from the service and lays them out.
func (m *Model) reload() {
	m.boards = m.svc.ListBoards(m.ctx)
	if m.boardIdx >= len(m.boards) {
		m.boardIdx = 0
	}
	m.tasks = nil
	if board := m.currentBoard(); board != nil {
		m.tasks = m.svc.ListTasks(m.ctx, board.ID)
	}
	m.relayout()
}

func (m *Model) relayout() {
	m.layout = computeLayout(m.width, m.height, m.tasks)
	m.engine.SetZones(m.layout.zones())
}

func (m *Model) currentBoard() *models.Board {
	if len(m.boards) == 0 {
		return nil
	}
	return &m.boards[m.boardIdx]
}

func (m *Model) findTask(id string) *models.Task {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return &m.tasks[i]
		}
	}
	return nil
}

func (m *Model) taskTitle(id string) string {
	if t := m.findTask(id); t != nil {
		return fmt.Sprintf("%q", t.Title)
	}
	return id
}

func describe(t models.Task) string {
	s := fmt.Sprintf("%s · %s", t.Title, t.Status)
	if t.Assignee != "" {
		s += " · " + t.Assignee
	}
	if t.DueDate != "" {
		s += " · due " + t.DueDate
	}
	return s
}

// Run starts the board on the terminal and blocks until the user quits.
func Run(ctx context.Context, m *Model) error {
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
