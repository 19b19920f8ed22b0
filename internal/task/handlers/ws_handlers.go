package handlers

import (
	"context"
	"errors"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/task/dto"
	"github.com/shifa-s11/board-task/internal/task/models"
	ws "github.com/shifa-s11/board-task/pkg/websocket"
)

func (h *TaskHandlers) registerWS(dispatcher *ws.Dispatcher) {
	dispatcher.RegisterFunc(ws.ActionBoardList, h.wsListBoards)
	dispatcher.RegisterFunc(ws.ActionTaskList, h.wsListTasks)
	dispatcher.RegisterFunc(ws.ActionTaskMove, h.wsMoveTask)
}

func (h *TaskHandlers) wsListBoards(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
	return ws.NewResponse(msg.ID, msg.Action, h.service.ListBoards(ctx))
}

func (h *TaskHandlers) wsListTasks(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
	var req dto.ListTasksRequest
	if err := msg.ParsePayload(&req); err != nil {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeBadRequest, "Invalid payload: "+err.Error(), nil)
	}
	if req.BoardID == "" {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeValidation, "boardId is required", nil)
	}
	return ws.NewResponse(msg.ID, msg.Action, h.service.ListTasks(ctx, req.BoardID))
}

func (h *TaskHandlers) wsMoveTask(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
	var req dto.WSMoveTaskRequest
	if err := msg.ParsePayload(&req); err != nil {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeBadRequest, "Invalid payload: "+err.Error(), nil)
	}
	if err := h.service.MoveTask(ctx, req.TaskID, models.TaskStatus(req.Status)); err != nil {
		return wsError(msg, err)
	}
	return ws.NewResponse(msg.ID, msg.Action, dto.SuccessResponse{Success: true})
}

// wsError turns a service error into an error reply carrying its code.
func wsError(msg *ws.Message, err error) (*ws.Message, error) {
	var details map[string]interface{}
	message := "request failed"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Field != "" {
			details = map[string]interface{}{"field": appErr.Field}
		}
	}
	return ws.NewError(msg.ID, msg.Action, apperrors.Code(err), message, details)
}
