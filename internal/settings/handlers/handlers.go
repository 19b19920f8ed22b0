package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/httpmw"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/settings/models"
	"github.com/shifa-s11/board-task/internal/settings/service"
)

// maxImportBytes bounds the size of an uploaded export file.
const maxImportBytes = 8 << 20

type Handlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "settings-handlers")),
	}
}

func RegisterRoutes(router *gin.Engine, svc *service.Service, log *logger.Logger) {
	NewHandlers(svc, log).registerHTTP(router)
}

func (h *Handlers) registerHTTP(router *gin.Engine) {
	api := router.Group("/api/settings")
	api.GET("/prefs", h.httpGetPrefs)
	api.PUT("/prefs", h.httpSavePrefs)
	api.GET("/export", h.httpExport)
	api.POST("/import", h.httpImport)
	api.POST("/clear", h.httpClear)
}

func (h *Handlers) httpGetPrefs(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetPrefs(c.Request.Context()))
}

func (h *Handlers) httpSavePrefs(c *gin.Context) {
	body := models.DefaultPrefs()
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	prefs, err := h.service.SavePrefs(c.Request.Context(), body)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handlers) httpExport(c *gin.Context) {
	payload := h.service.Export(c.Request.Context())
	// ExportedAt starts with the calendar date.
	filename := fmt.Sprintf("FlowLabel-export-%s.json", payload.Meta.ExportedAt[:10])
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.IndentedJSON(http.StatusOK, payload)
}

func (h *Handlers) httpImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	raw, err := c.GetRawData()
	if err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("could not read import body"))
		return
	}
	res, err := h.service.Import(c.Request.Context(), raw)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) httpClear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
