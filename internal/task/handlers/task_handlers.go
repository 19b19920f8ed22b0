package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/httpmw"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/task/dto"
	"github.com/shifa-s11/board-task/internal/task/models"
	"github.com/shifa-s11/board-task/internal/task/service"
)

type TaskHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewTaskHandlers(svc *service.Service, log *logger.Logger) *TaskHandlers {
	return &TaskHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "task-handlers")),
	}
}

func (h *TaskHandlers) registerHTTP(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/boards/:id/tasks", h.httpListTasks)
	api.POST("/boards/:id/tasks", h.httpCreateTask)
	api.GET("/tasks/:id", h.httpGetTask)
	api.PATCH("/tasks/:id", h.httpUpdateTask)
	api.DELETE("/tasks/:id", h.httpDeleteTask)
	api.POST("/tasks/:id/move", h.httpMoveTask)
}

func (h *TaskHandlers) httpListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListTasks(c.Request.Context(), c.Param("id")))
}

func (h *TaskHandlers) httpGetTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) httpCreateTask(c *gin.Context) {
	var body service.UpsertTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	body.ID = ""
	body.BoardID = c.Param("id")

	task, err := h.service.UpsertTask(c.Request.Context(), &body)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandlers) httpUpdateTask(c *gin.Context) {
	var body service.UpsertTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	body.ID = c.Param("id")

	task, err := h.service.UpsertTask(c.Request.Context(), &body)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) httpDeleteTask(c *gin.Context) {
	if err := h.service.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *TaskHandlers) httpMoveTask(c *gin.Context) {
	var body dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.service.MoveTask(c.Request.Context(), c.Param("id"), models.TaskStatus(body.Status)); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
