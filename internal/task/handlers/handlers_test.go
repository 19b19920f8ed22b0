package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/persistence"
	"github.com/shifa-s11/board-task/internal/storage"
	"github.com/shifa-s11/board-task/internal/task/models"
	"github.com/shifa-s11/board-task/internal/task/service"
	ws "github.com/shifa-s11/board-task/pkg/websocket"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), log)
	svc := service.NewService(adapter, persistence.NewCache(adapter, log), nil, log)

	router := gin.New()
	RegisterRoutes(router, ws.NewDispatcher(), svc, log)
	return router, svc
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestBoardLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/boards", map[string]string{"name": "Sprint 1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	board := decode[models.Board](t, rec)
	assert.Equal(t, "Sprint 1", board.Name)
	assert.NotEmpty(t, board.ID)

	rec = doJSON(t, router, http.MethodPatch, "/api/boards/"+board.ID, map[string]string{"name": "Sprint 2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sprint 2", decode[models.Board](t, rec).Name)

	rec = doJSON(t, router, http.MethodGet, "/api/boards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Board](t, rec), 1)

	rec = doJSON(t, router, http.MethodDelete, "/api/boards/"+board.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/boards/"+board.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, "repeated delete is a no-op")

	rec = doJSON(t, router, http.MethodGet, "/api/boards/"+board.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorResponses(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"short board name", http.MethodPost, "/api/boards", map[string]string{"name": "A"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"rename missing board", http.MethodPatch, "/api/boards/nope", map[string]string{"name": "Valid"}, http.StatusNotFound, "NOT_FOUND"},
		{"task on missing board", http.MethodPost, "/api/boards/nope/tasks", map[string]string{"title": "Valid"}, http.StatusNotFound, "NOT_FOUND"},
		{"get missing task", http.MethodGet, "/api/tasks/nope", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad move status", http.MethodPost, "/api/tasks/nope/move", map[string]string{"status": "Done"}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode[map[string]string](t, rec)
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/boards", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskRoutes(t *testing.T) {
	router, svc := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/boards", map[string]string{"name": "Demo"})
	board := decode[models.Board](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/boards/"+board.ID+"/tasks", map[string]string{
		"title":    "T1",
		"assignee": "sam",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[models.Task](t, rec)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, board.ID, task.BoardID)

	rec = doJSON(t, router, http.MethodPost, "/api/tasks/"+task.ID+"/move", map[string]string{"status": "urgent"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/tasks/"+task.ID, map[string]string{"status": "Complete", "description": "done"})
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decode[models.Task](t, rec)
	assert.Equal(t, models.StatusComplete, edited.Status)
	assert.Equal(t, "done", edited.Description)
	assert.Equal(t, "T1", edited.Title)

	rec = doJSON(t, router, http.MethodGet, "/api/boards/"+board.ID+"/tasks", nil)
	tasks := decode[[]models.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StatusComplete, tasks[0].Status)

	rec = doJSON(t, router, http.MethodGet, "/api/stats", nil)
	stats := decode[models.Stats](t, rec)
	assert.Equal(t, 1, stats.ByStatus[models.StatusComplete])

	rec = doJSON(t, router, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.ListAllTasks(context.Background()))
}
