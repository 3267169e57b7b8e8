package handlers

import (
	"github.com/manwallet/88keys/internal/services"
	"github.com/manwallet/88keys/internal/utils"

	"github.com/gin-gonic/gin"
)

type SuggestionHandler struct {
	suggestionService *services.SuggestionService
}

func NewSuggestionHandler(suggestionService *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// GetDailySuggestion AI 不可用时也返回成功状态，由响应体里的
// error 字段说明降级原因
func (h *SuggestionHandler) GetDailySuggestion(c *gin.Context) {
	resp, err := h.suggestionService.GetDailySuggestion(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "生成建议时出错")
		return
	}

	utils.Success(c, resp)
}
