package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/metrics"
	"github.com/shifa-s11/board-task/internal/common/validation"
	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/task/models"
)

// ListTasks returns the tasks of one board in insertion order.
func (s *Service) ListTasks(ctx context.Context, boardID string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.BoardID == boardID {
			out = append(out, t)
		}
	}
	return out
}

// ListAllTasks returns every task in insertion order.
func (s *Service) ListAllTasks(ctx context.Context) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// GetTask returns the task with id.
func (s *Service) GetTask(ctx context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.taskIndex(id); i >= 0 {
		t := s.tasks[i]
		return &t, nil
	}
	return nil, apperrors.NotFound("task", id)
}

// UpsertTask creates or edits a task. Ids and timestamps are always assigned
// here; on edit id, boardId and createdAt are preserved.
func (s *Service) UpsertTask(ctx context.Context, req *UpsertTaskRequest) (task *models.Task, err error) {
	op := "create_task"
	if req.ID != "" {
		op = "update_task"
	}
	defer func() { metrics.ObserveMutation(op, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		t         models.Task
		index     = -1
		oldStatus models.TaskStatus
	)
	if req.ID != "" {
		index = s.taskIndex(req.ID)
		if index < 0 {
			return nil, apperrors.NotFound("task", req.ID)
		}
		t = s.tasks[index]
		oldStatus = t.Status
	} else {
		if s.boardIndex(req.BoardID) < 0 {
			return nil, apperrors.NotFound("board", req.BoardID)
		}
		t = models.Task{BoardID: req.BoardID, Status: models.StatusPending}
	}

	if err := applyTaskFields(&t, req); err != nil {
		return nil, err
	}

	now := s.timestamp()
	t.UpdatedAt = now
	next := cloneTasks(s.tasks)
	if index < 0 {
		t.ID = s.newID("task")
		t.CreatedAt = now
		next = append(next, t)
	} else {
		next[index] = t
	}

	if err := s.commitTasks(ctx, next); err != nil {
		return &t, err
	}

	if index < 0 {
		s.publishTaskEvent(ctx, events.TaskCreated, &t, nil)
		s.logger.WithTaskID(t.ID).WithBoardID(t.BoardID).Info("task created")
		return &t, nil
	}
	var prev *models.TaskStatus
	if oldStatus != t.Status {
		prev = &oldStatus
	}
	s.publishTaskEvent(ctx, events.TaskUpdated, &t, prev)
	return &t, nil
}

// applyTaskFields merges the non-nil request fields into t and validates the
// result. t is left unspecified when an error is returned.
func applyTaskFields(t *models.Task, req *UpsertTaskRequest) error {
	if req.ID == "" && req.Title == nil {
		return apperrors.ValidationError("title", "is required")
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Assignee != nil {
		t.Assignee = strings.TrimSpace(*req.Assignee)
	}
	if req.Status != nil {
		if st, ok := models.ParseStatus(*req.Status); ok {
			t.Status = st
		} else {
			t.Status = models.TaskStatus(*req.Status)
		}
	}
	if req.DueDate != nil {
		due := strings.TrimSpace(*req.DueDate)
		if due != "" && !validDueDate(due) {
			return apperrors.ValidationError("dueDate", "must be an ISO date")
		}
		t.DueDate = due
	}
	return validation.Struct(taskFields{Title: t.Title, Status: string(t.Status)})
}

func validDueDate(s string) bool {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// DeleteTask removes a task. Deleting an unknown id is a no-op.
func (s *Service) DeleteTask(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveMutation("delete_task", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return nil
	}
	removed := s.tasks[i]

	next := make([]models.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commitTasks(ctx, next); err != nil {
		return err
	}

	s.publishTaskEvent(ctx, events.TaskDeleted, &removed, nil)
	s.logger.WithTaskID(id).WithBoardID(removed.BoardID).Info("task deleted")
	return nil
}

// MoveTask sets a task's status and bumps updatedAt, even when the status is
// unchanged. Status matching ignores case, as in UpsertTask. An unknown id is
// a no-op; an unknown status is a validation error and nothing is written.
func (s *Service) MoveTask(ctx context.Context, id string, status models.TaskStatus) (err error) {
	defer func() { metrics.ObserveMutation("move_task", err) }()

	if st, ok := models.ParseStatus(string(status)); ok {
		status = st
	}
	if err := validation.Var("status", string(status), "oneof=Pending Critical Urgent Complete"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.logger.WithTaskID(id).Debug("move of unknown task ignored")
		return nil
	}

	next := cloneTasks(s.tasks)
	oldStatus := next[i].Status
	next[i].Status = status
	next[i].UpdatedAt = s.timestamp()
	if err := s.commitTasks(ctx, next); err != nil {
		return err
	}

	moved := next[i]
	s.publishTaskEvent(ctx, events.TaskMoved, &moved, &oldStatus)
	s.logger.WithTaskID(id).WithBoardID(moved.BoardID).Debug("task moved",
		zap.String("from", string(oldStatus)),
		zap.String("to", string(status)))
	return nil
}

func (s *Service) taskIndex(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
