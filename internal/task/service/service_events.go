package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/events"
	"github.com/shifa-s11/board-task/internal/events/bus"
	"github.com/shifa-s11/board-task/internal/task/models"
)

const eventSource = "task-service"

func (s *Service) publishBoardEvent(ctx context.Context, eventType string, board *models.Board, removedTasks int) {
	data := map[string]interface{}{
		"board_id":   board.ID,
		"name":       board.Name,
		"created_at": board.CreatedAt,
	}
	if eventType == events.BoardDeleted {
		data["removed_tasks"] = removedTasks
	}
	s.publish(ctx, eventType, data)
}

func (s *Service) publishTaskEvent(ctx context.Context, eventType string, task *models.Task, oldStatus *models.TaskStatus) {
	data := map[string]interface{}{
		"task_id":    task.ID,
		"board_id":   task.BoardID,
		"title":      task.Title,
		"status":     string(task.Status),
		"updated_at": task.UpdatedAt,
	}
	if oldStatus != nil {
		data["old_status"] = string(*oldStatus)
		data["new_status"] = string(task.Status)
	}
	s.publish(ctx, eventType, data)
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	event := bus.NewEvent(eventType, eventSource, data)
	if err := s.eventBus.Publish(ctx, eventType, event); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
