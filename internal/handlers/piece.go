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

type PieceHandler struct {
	pieceService *services.PieceService
	validator    *validator.Validate
}

func NewPieceHandler(pieceService *services.PieceService) *PieceHandler {
	return &PieceHandler{
		pieceService: pieceService,
		validator:    pkgvalidator.GetValidator(),
	}
}

func (h *PieceHandler) GetPieces(c *gin.Context) {
	pieces, err := h.pieceService.GetPieces()
	if err != nil {
		handleServiceError(c, err, "获取曲目失败")
		return
	}

	utils.Success(c, pieces)
}

func (h *PieceHandler) GetPiece(c *gin.Context) {
	piece, err := h.pieceService.GetPiece(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "获取曲目失败")
		return
	}

	utils.Success(c, piece)
}

func (h *PieceHandler) CreatePiece(c *gin.Context) {
	var req models.PieceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "曲名和作曲家为必填项")
		return
	}

	piece, err := h.pieceService.CreatePiece(&req)
	if err != nil {
		handleServiceError(c, err, "创建曲目失败")
		return
	}

	utils.SuccessWithMessage(c, "创建成功", piece)
}

func (h *PieceHandler) UpdatePiece(c *gin.Context) {
	var req models.PieceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	piece, err := h.pieceService.UpdatePiece(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, "更新曲目失败")
		return
	}

	utils.SuccessWithMessage(c, "更新成功", piece)
}

func (h *PieceHandler) DeletePiece(c *gin.Context) {
	if err := h.pieceService.DeletePiece(c.Param("id")); err != nil {
		handleServiceError(c, err, "删除曲目失败")
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}

func (h *PieceHandler) SplitPiece(c *gin.Context) {
	var req models.PieceSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请提供子曲目列表")
		return
	}

	result, err := h.pieceService.SplitPiece(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, "拆分曲目失败")
		return
	}

	utils.SuccessWithMessage(c, "拆分成功", result)
}
