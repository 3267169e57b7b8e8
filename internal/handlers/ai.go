package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/manwallet/88keys/internal/services"
	"github.com/manwallet/88keys/internal/utils"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

type fillPieceRequest struct {
	Title string `json:"title"`
}

type reorganizeRequest struct {
	PieceID string `json:"pieceId"`
}

// FillPiece 根据曲名识别曲目元信息。用户显式触发，
// AI 调用失败时把具体原因回给用户。
func (h *AIHandler) FillPiece(c *gin.Context) {
	var req fillPieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if len(strings.TrimSpace(req.Title)) < 2 {
		utils.Error(c, http.StatusBadRequest, "请输入有效的曲名")
		return
	}

	result, err := h.aiService.FillPiece(c.Request.Context(), req.Title)
	if err != nil {
		if errors.Is(err, services.ErrLLMNotConfigured) {
			utils.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.Success(c, result)
}

// ReorganizePiece 分析曲目是否应拆分为父子结构
func (h *AIHandler) ReorganizePiece(c *gin.Context) {
	var req reorganizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if req.PieceID == "" {
		utils.Error(c, http.StatusBadRequest, "请选择要整理的曲目")
		return
	}

	result, err := h.aiService.ReorganizePiece(c.Request.Context(), req.PieceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.NotFound(c, "曲目不存在")
		case errors.Is(err, services.ErrLLMNotConfigured):
			utils.Error(c, http.StatusBadRequest, err.Error())
		default:
			utils.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.Success(c, result)
}
