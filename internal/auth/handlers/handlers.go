package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/auth/dto"
	"github.com/shifa-s11/board-task/internal/auth/models"
	"github.com/shifa-s11/board-task/internal/auth/service"
	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/httpmw"
	"github.com/shifa-s11/board-task/internal/common/logger"
)

type Handlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "auth-handlers")),
	}
}

func RegisterRoutes(router *gin.Engine, svc *service.Service, log *logger.Logger) {
	NewHandlers(svc, log).registerHTTP(router)
}

func (h *Handlers) registerHTTP(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/auth/login", h.httpLogin)
	api.POST("/auth/otp", h.httpVerifyOTP)
	api.POST("/auth/logout", h.httpLogout)
	api.GET("/auth/status", h.httpStatus)
	api.GET("/profile", h.httpGetProfile)
	api.PUT("/profile", h.httpSaveProfile)
}

func (h *Handlers) httpLogin(c *gin.Context) {
	var body dto.LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	res, err := h.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) httpVerifyOTP(c *gin.Context) {
	var body dto.OTPRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	session, err := h.service.VerifyOTP(c.Request.Context(), body.Email, body.Code)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handlers) httpLogout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Authenticated: false})
}

func (h *Handlers) httpStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{Authenticated: h.service.IsAuthenticated(c.Request.Context())})
}

func (h *Handlers) httpGetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Profile(c.Request.Context()))
}

func (h *Handlers) httpSaveProfile(c *gin.Context) {
	var body models.Profile
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmw.RespondError(c, h.logger, apperrors.BadRequest("invalid request body"))
		return
	}
	profile, err := h.service.SaveProfile(c.Request.Context(), body)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
