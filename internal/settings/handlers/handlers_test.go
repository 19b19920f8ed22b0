package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/persistence"
	"github.com/shifa-s11/board-task/internal/settings/models"
	"github.com/shifa-s11/board-task/internal/settings/service"
	"github.com/shifa-s11/board-task/internal/storage"
	taskservice "github.com/shifa-s11/board-task/internal/task/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *taskservice.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), log)
	c := persistence.NewCache(adapter, log)
	tasks := taskservice.NewService(adapter, c, nil, log)
	clock := func() time.Time { return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC) }
	svc := service.NewService(adapter, c, tasks, log, service.WithClock(clock))

	router := gin.New()
	RegisterRoutes(router, svc, log)
	return router, tasks
}

func do(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPrefsRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(router, http.MethodGet, "/api/settings/prefs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"compactMode":false,"notifications":true}`, rec.Body.String())

	rec = do(router, http.MethodPut, "/api/settings/prefs", []byte(`{"compactMode":true}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"compactMode":true,"notifications":true}`, rec.Body.String())

	rec = do(router, http.MethodPut, "/api/settings/prefs", []byte(`nope`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportImportClearRoutes(t *testing.T) {
	router, tasks := newTestRouter(t)
	ctx := context.Background()
	_, err := tasks.Seed(ctx)
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/api/settings/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="FlowLabel-export-2024-06-01.json"`, rec.Header().Get("Content-Disposition"))
	var payload models.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Data.Tasks, 3)
	exported := rec.Body.Bytes()

	rec = do(router, http.MethodPost, "/api/settings/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, tasks.ListAllTasks(ctx))

	rec = do(router, http.MethodPost, "/api/settings/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, tasks.ListAllTasks(ctx), 3)

	rec = do(router, http.MethodPost, "/api/settings/import", []byte(`[]`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "BAD_REQUEST")
}
