package handlers

import (
	"errors"
	"net/http"

	"github.com/manwallet/88keys/internal/services"
	"github.com/manwallet/88keys/internal/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError 把服务层错误映射为统一的 HTTP 响应
func handleServiceError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, "")
	case errors.Is(err, services.ErrConflict):
		utils.Conflict(c, "")
	case errors.Is(err, services.ErrInvalidInput):
		utils.Error(c, http.StatusBadRequest, services.ErrInvalidInput.Error())
	case errors.Is(err, services.ErrLLMNotConfigured):
		utils.Error(c, http.StatusBadRequest, services.ErrLLMNotConfigured.Error())
	default:
		utils.Error(c, http.StatusInternalServerError, fallbackMessage)
	}
}
