package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/metrics"
	"github.com/shifa-s11/board-task/internal/common/validation"
	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/task/models"
)

// recentTasks is how many tasks Stats lists as recent activity.
const recentTasks = 5

type seedTask struct {
	title       string
	description string
	status      models.TaskStatus
}

const seedBoardName = "Product Roadmap"

var seedTasks = []seedTask{
	{"Spec v1", "Draft initial spec", models.StatusPending},
	{"API contract", "Define REST endpoints", models.StatusUrgent},
	{"MVP demo", "Clickable demo for stakeholders", models.StatusComplete},
}

// Seed populates an empty store with a sample board and tasks. It returns
// false without writing when any board or task already exists.
func (s *Service) Seed(ctx context.Context) (seeded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.boards) > 0 || len(s.tasks) > 0 {
		return false, nil
	}
	defer func() { metrics.ObserveMutation("seed", err) }()

	if err := s.seedLocked(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Reset clears both collections and seeds them again.
func (s *Service) Reset(ctx context.Context) (err error) {
	defer func() { metrics.ObserveMutation("reset", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.tasks)
	s.publish(ctx, events.DataCleared, map[string]interface{}{"removed_tasks": removed})
	return s.seedLocked(ctx)
}

// Clear empties both collections.
func (s *Service) Clear(ctx context.Context) (err error) {
	defer func() { metrics.ObserveMutation("clear", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.tasks)
	taskErr := s.commitTasks(ctx, []models.Task{})
	boardErr := s.commitBoards(ctx, []models.Board{})
	if taskErr != nil {
		return taskErr
	}
	if boardErr != nil {
		return boardErr
	}
	s.publish(ctx, events.DataCleared, map[string]interface{}{"removed_tasks": removed})
	return nil
}

func (s *Service) seedLocked(ctx context.Context) error {
	now := s.timestamp()
	board := models.Board{ID: s.newID("board"), Name: seedBoardName, CreatedAt: now}

	tasks := make([]models.Task, 0, len(seedTasks))
	for _, st := range seedTasks {
		tasks = append(tasks, models.Task{
			ID:          s.newID("task"),
			BoardID:     board.ID,
			Title:       st.title,
			Description: st.description,
			Status:      st.status,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	boardErr := s.commitBoards(ctx, []models.Board{board})
	taskErr := s.commitTasks(ctx, tasks)
	if boardErr != nil {
		return boardErr
	}
	if taskErr != nil {
		return taskErr
	}

	s.publish(ctx, events.DataSeeded, map[string]interface{}{
		"board_id": board.ID,
		"tasks":    len(tasks),
	})
	s.logger.Info("seeded sample data", zap.String("board_id", board.ID))
	return nil
}

type importedBoard struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"min=2"`
}

type importedTask struct {
	ID      string `json:"id" validate:"required"`
	BoardID string `json:"boardId" validate:"required"`
	Title   string `json:"title" validate:"min=2"`
	Status  string `json:"status" validate:"oneof=Pending Critical Urgent Complete"`
}

// ReplaceCollections overwrites the board and/or task collection wholesale.
// A nil slice leaves that collection untouched. Everything is validated before
// anything is written. Tasks whose board is not in the resulting board set
// are dropped.
func (s *Service) ReplaceCollections(ctx context.Context, boards []models.Board, tasks []models.Task) (err error) {
	defer func() { metrics.ObserveMutation("replace", err) }()

	if boards == nil && tasks == nil {
		return nil
	}
	if err := validateImport(boards, tasks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	nextBoards := s.boards
	if boards != nil {
		nextBoards = make([]models.Board, len(boards))
		for i, b := range boards {
			if b.CreatedAt == "" {
				b.CreatedAt = now
			}
			nextBoards[i] = b
		}
	}

	source := s.tasks
	if tasks != nil {
		source = tasks
	}
	known := boardIDs(nextBoards)
	nextTasks := make([]models.Task, 0, len(source))
	for _, t := range source {
		if _, ok := known[t.BoardID]; !ok {
			continue
		}
		if st, ok := models.ParseStatus(string(t.Status)); ok {
			t.Status = st
		}
		if t.CreatedAt == "" {
			t.CreatedAt = now
		}
		if t.UpdatedAt == "" {
			t.UpdatedAt = t.CreatedAt
		}
		nextTasks = append(nextTasks, t)
	}
	dropped := len(source) - len(nextTasks)

	var taskErr, boardErr error
	if tasks != nil || dropped > 0 {
		taskErr = s.commitTasks(ctx, nextTasks)
	}
	if boards != nil {
		boardErr = s.commitBoards(ctx, nextBoards)
	}
	if taskErr != nil {
		return taskErr
	}
	if boardErr != nil {
		return boardErr
	}

	s.publish(ctx, events.DataImported, map[string]interface{}{
		"boards":        len(nextBoards),
		"tasks":         len(nextTasks),
		"dropped_tasks": dropped,
	})
	if dropped > 0 {
		s.logger.Warn("dropped imported tasks without a board", zap.Int("dropped", dropped))
	}
	return nil
}

func validateImport(boards []models.Board, tasks []models.Task) error {
	seen := make(map[string]struct{}, len(boards))
	for i, b := range boards {
		path := fmt.Sprintf("boards[%d]", i)
		if err := validation.StructAt(path, importedBoard{ID: b.ID, Name: strings.TrimSpace(b.Name)}); err != nil {
			return err
		}
		if _, dup := seen[b.ID]; dup {
			return apperrors.ValidationError(path+".id", "duplicate id "+b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		status := string(t.Status)
		if st, ok := models.ParseStatus(status); ok {
			status = string(st)
		}
		fields := importedTask{ID: t.ID, BoardID: t.BoardID, Title: strings.TrimSpace(t.Title), Status: status}
		if err := validation.StructAt(path, fields); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return apperrors.ValidationError(path+".id", "duplicate id "+t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// Stats computes the dashboard figures.
func (s *Service) Stats(ctx context.Context) *models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.Stats{
		TotalBoards: len(s.boards),
		TotalTasks:  len(s.tasks),
		ByStatus:    make(map[models.TaskStatus]int, len(models.Statuses)),
		Boards:      make([]models.BoardStats, 0, len(s.boards)),
	}
	for _, st := range models.Statuses {
		stats.ByStatus[st] = 0
	}

	perBoard := make(map[string]*models.BoardStats, len(s.boards))
	for _, b := range s.boards {
		stats.Boards = append(stats.Boards, models.BoardStats{BoardID: b.ID, Name: b.Name})
	}
	for i := range stats.Boards {
		perBoard[stats.Boards[i].BoardID] = &stats.Boards[i]
	}

	for _, t := range s.tasks {
		stats.ByStatus[t.Status]++
		if bs, ok := perBoard[t.BoardID]; ok {
			bs.Total++
			if t.Status == models.StatusComplete {
				bs.Done++
			}
		}
	}

	recent := cloneTasks(s.tasks)
	sort.SliceStable(recent, func(i, j int) bool {
		return parseTimestamp(recent[i].UpdatedAt).After(parseTimestamp(recent[j].UpdatedAt))
	})
	if len(recent) > recentTasks {
		recent = recent[:recentTasks]
	}
	stats.Recent = recent
	return stats
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
