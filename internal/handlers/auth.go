package handlers

import (
	"errors"
	"net/http"

	"github.com/manwallet/88keys/internal/config"
	"github.com/manwallet/88keys/internal/middleware"
	"github.com/manwallet/88keys/internal/models"
	"github.com/manwallet/88keys/internal/services"
	"github.com/manwallet/88keys/internal/utils"
	pkgvalidator "github.com/manwallet/88keys/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService     *services.AuthService
	settingsService *services.SettingsService
	config          *config.Config
	validator       *validator.Validate
}

func NewAuthHandler(authService *services.AuthService, settingsService *services.SettingsService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		settingsService: settingsService,
		config:          cfg,
		validator:       pkgvalidator.GetValidator(),
	}
}

// GetSetupStatus 前端据此决定展示初始化页还是登录页
func (h *AuthHandler) GetSetupStatus(c *gin.Context) {
	initialized, err := h.settingsService.IsInitialized()
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.Success(c, gin.H{"initialized": initialized})
}

// Setup 首次初始化：设置管理员密码并直接登录
func (h *AuthHandler) Setup(c *gin.Context) {
	var req models.SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "密码长度至少为 6 个字符")
		return
	}

	if err := h.authService.Setup(req.Password); err != nil {
		if errors.Is(err, services.ErrAlreadyInitialized) {
			utils.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.InternalError(c)
		return
	}

	h.setSessionCookie(c)
	utils.SuccessWithMessage(c, "初始化成功", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请输入密码")
		return
	}

	if err := h.authService.Login(req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrNotInitialized):
			utils.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidPassword):
			utils.Unauthorized(c, "密码错误")
		default:
			utils.InternalError(c)
		}
		return
	}

	h.setSessionCookie(c)
	utils.SuccessWithMessage(c, "登录成功", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookie(), true)
	utils.SuccessWithMessage(c, "退出成功", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context) {
	token, err := utils.GenerateToken("admin", h.config.JWT.Secret, h.config.JWT.ExpireHours)
	if err != nil {
		utils.InternalError(c)
		c.Abort()
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, h.config.JWT.ExpireHours*3600, "/", "", h.secureCookie(), true)
}

func (h *AuthHandler) secureCookie() bool {
	return h.config.Server.Mode == "release"
}
