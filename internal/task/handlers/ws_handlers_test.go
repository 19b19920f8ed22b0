package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/task/models"
	"github.com/shifa-s11/board-task/internal/task/service"
	ws "github.com/shifa-s11/board-task/pkg/websocket"
)

func dispatch(t *testing.T, d *ws.Dispatcher, action string, payload any) *ws.Message {
	t.Helper()
	req, err := ws.NewRequest("req-1", action, payload)
	require.NoError(t, err)
	resp, err := d.Dispatch(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "req-1", resp.ID)
	return resp
}

func TestWSActions(t *testing.T) {
	_, svc := newTestRouter(t)
	d := ws.NewDispatcher()
	NewTaskHandlers(svc, logger.Nop()).registerWS(d)
	ctx := context.Background()

	board, err := svc.CreateBoard(ctx, "Demo")
	require.NoError(t, err)
	name := "T1"
	task, err := svc.UpsertTask(ctx, &service.UpsertTaskRequest{BoardID: board.ID, Title: &name})
	require.NoError(t, err)

	resp := dispatch(t, d, ws.ActionBoardList, nil)
	var boards []models.Board
	require.NoError(t, resp.ParsePayload(&boards))
	assert.Len(t, boards, 1)

	resp = dispatch(t, d, ws.ActionTaskList, map[string]string{})
	assert.Equal(t, ws.MessageTypeError, resp.Type)

	resp = dispatch(t, d, ws.ActionTaskMove, map[string]string{"taskId": task.ID, "status": "complete"})
	require.Equal(t, ws.MessageTypeResponse, resp.Type)

	resp = dispatch(t, d, ws.ActionTaskList, map[string]string{"boardId": board.ID})
	var tasks []models.Task
	require.NoError(t, resp.ParsePayload(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StatusComplete, tasks[0].Status)

	resp = dispatch(t, d, ws.ActionTaskMove, map[string]string{"taskId": task.ID, "status": "Done"})
	require.Equal(t, ws.MessageTypeError, resp.Type)
	var e ws.ErrorPayload
	require.NoError(t, resp.ParsePayload(&e))
	assert.Equal(t, ws.ErrorCodeValidation, e.Code)
	assert.Equal(t, "status", e.Details["field"])
}
