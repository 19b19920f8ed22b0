package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/metrics"
	"github.com/shifa-s11/board-task/internal/common/validation"
	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/task/models"
)

type boardFields struct {
	Name string `json:"name" validate:"min=2"`
}

func validateBoardName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.Struct(boardFields{Name: name}); err != nil {
		return "", err
	}
	return name, nil
}

// ListBoards returns every board in insertion order.
func (s *Service) ListBoards(ctx context.Context) []models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBoards(s.boards)
}

// GetBoard returns the board with id.
func (s *Service) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.boardIndex(id); i >= 0 {
		b := s.boards[i]
		return &b, nil
	}
	return nil, apperrors.NotFound("board", id)
}

// CreateBoard appends a board named name (trimmed, at least 2 characters).
func (s *Service) CreateBoard(ctx context.Context, name string) (board *models.Board, err error) {
	defer func() { metrics.ObserveMutation("create_board", err) }()

	name, err = validateBoardName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := models.Board{
		ID:        s.newID("board"),
		Name:      name,
		CreatedAt: s.timestamp(),
	}
	next := append(cloneBoards(s.boards), b)
	if err := s.commitBoards(ctx, next); err != nil {
		return &b, err
	}

	s.publishBoardEvent(ctx, events.BoardCreated, &b, 0)
	s.logger.Info("board created", zap.String("board_id", b.ID), zap.String("name", b.Name))
	return &b, nil
}

// RenameBoard changes a board's name. createdAt is preserved.
func (s *Service) RenameBoard(ctx context.Context, id, name string) (err error) {
	defer func() { metrics.ObserveMutation("rename_board", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.boardIndex(id)
	if i < 0 {
		return apperrors.NotFound("board", id)
	}
	name, err = validateBoardName(name)
	if err != nil {
		return err
	}

	next := cloneBoards(s.boards)
	next[i].Name = name
	if err := s.commitBoards(ctx, next); err != nil {
		return err
	}

	s.publishBoardEvent(ctx, events.BoardUpdated, &next[i], 0)
	return nil
}

// DeleteBoard removes a board and every task on it. Deleting an unknown id
// is a no-op.
func (s *Service) DeleteBoard(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveMutation("delete_board", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.boardIndex(id)
	if i < 0 {
		return nil
	}
	removed := s.boards[i]

	nextBoards := make([]models.Board, 0, len(s.boards)-1)
	nextBoards = append(nextBoards, s.boards[:i]...)
	nextBoards = append(nextBoards, s.boards[i+1:]...)

	nextTasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.BoardID != id {
			nextTasks = append(nextTasks, t)
		}
	}
	cascaded := len(s.tasks) - len(nextTasks)

	// Tasks first: a stored task must never outlive its board.
	taskErr := s.commitTasks(ctx, nextTasks)
	boardErr := s.commitBoards(ctx, nextBoards)
	if taskErr != nil {
		return taskErr
	}
	if boardErr != nil {
		return boardErr
	}

	s.publishBoardEvent(ctx, events.BoardDeleted, &removed, cascaded)
	s.logger.Info("board deleted",
		zap.String("board_id", id),
		zap.Int("removed_tasks", cascaded))
	return nil
}

func (s *Service) boardIndex(id string) int {
	for i, b := range s.boards {
		if b.ID == id {
			return i
		}
	}
	return -1
}
