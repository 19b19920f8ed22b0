package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/httpmw"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/task/dto"
	"github.com/shifa-s11/board-task/internal/task/service"
	ws "github.com/shifa-s11/board-task/pkg/websocket"
)

type BoardHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewBoardHandlers(svc *service.Service, log *logger.Logger) *BoardHandlers {
	return &BoardHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "task-board-handlers")),
	}
}

// RegisterRoutes mounts the board, task and stats routes under /api and the
// board and task actions on dispatcher.
func RegisterRoutes(router *gin.Engine, dispatcher *ws.Dispatcher, svc *service.Service, log *logger.Logger) {
	NewBoardHandlers(svc, log).registerHTTP(router)
	th := NewTaskHandlers(svc, log)
	th.registerHTTP(router)
	th.registerWS(dispatcher)
}

func (h *BoardHandlers) registerHTTP(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/boards", h.httpListBoards)
	api.POST("/boards", h.httpCreateBoard)
	api.GET("/boards/:id", h.httpGetBoard)
	api.PATCH("/boards/:id", h.httpRenameBoard)
	api.DELETE("/boards/:id", h.httpDeleteBoard)
	api.GET("/stats", h.httpStats)
}

func (h *BoardHandlers) httpListBoards(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListBoards(c.Request.Context()))
}

func (h *BoardHandlers) httpGetBoard(c *gin.Context) {
	board, err := h.service.GetBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *BoardHandlers) httpCreateBoard(c *gin.Context) {
	var body dto.BoardNameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	board, err := h.service.CreateBoard(c.Request.Context(), body.Name)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandlers) httpRenameBoard(c *gin.Context) {
	var body dto.BoardNameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.service.RenameBoard(ctx, id, body.Name); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	board, err := h.service.GetBoard(ctx, id)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *BoardHandlers) httpDeleteBoard(c *gin.Context) {
	if err := h.service.DeleteBoard(c.Request.Context(), c.Param("id")); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *BoardHandlers) httpStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats(c.Request.Context()))
}
