package handlers

import (
	"net/http"

	"github.com/manwallet/88keys/internal/models"
	"github.com/manwallet/88keys/internal/services"
	"github.com/manwallet/88keys/internal/utils"
	pkgvalidator "github.com/manwallet/88keys/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type SessionHandler struct {
	sessionService *services.SessionService
	validator      *validator.Validate
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validator:      pkgvalidator.GetValidator(),
	}
}

func (h *SessionHandler) GetSessions(c *gin.Context) {
	var req models.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	sessions, err := h.sessionService.GetSessions(&req)
	if err != nil {
		handleServiceError(c, err, "获取练习记录失败")
		return
	}

	utils.Success(c, sessions)
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req models.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请选择曲目")
		return
	}

	session, err := h.sessionService.CreateSession(&req)
	if err != nil {
		handleServiceError(c, err, "记录练习失败")
		return
	}

	utils.SuccessWithMessage(c, "记录成功", session)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionService.DeleteSession(c.Param("id")); err != nil {
		handleServiceError(c, err, "删除练习记录失败")
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}
