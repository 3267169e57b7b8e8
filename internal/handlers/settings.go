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

type SettingsHandler struct {
	settingsService *services.SettingsService
	validator       *validator.Validate
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		validator:       pkgvalidator.GetValidator(),
	}
}

// GetSettings 出于安全考虑只返回是否配置了 API Key，不返回 Key 本身
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.MaskedSettings()
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.Success(c, settings)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req models.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "密码长度至少为 6 个字符")
		return
	}

	if err := h.settingsService.UpdateSettings(&req); err != nil {
		utils.InternalError(c)
		return
	}

	utils.SuccessWithMessage(c, "设置已保存", nil)
}
