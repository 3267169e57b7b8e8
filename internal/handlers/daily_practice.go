package handlers

import (
	"net/http"
	"time"

	"github.com/manwallet/88keys/internal/models"
	"github.com/manwallet/88keys/internal/services"
	"github.com/manwallet/88keys/internal/utils"
	pkgvalidator "github.com/manwallet/88keys/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type DailyPracticeHandler struct {
	dailyService *services.DailyPracticeService
	validator    *validator.Validate
}

func NewDailyPracticeHandler(dailyService *services.DailyPracticeService) *DailyPracticeHandler {
	return &DailyPracticeHandler{
		dailyService: dailyService,
		validator:    pkgvalidator.GetValidator(),
	}
}

func (h *DailyPracticeHandler) GetItems(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	items, err := h.dailyService.GetItems(date)
	if err != nil {
		handleServiceError(c, err, "获取失败")
		return
	}

	utils.Success(c, items)
}

func (h *DailyPracticeHandler) AddItem(c *gin.Context) {
	var req models.DailyPracticeAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "缺少必要参数")
		return
	}

	item, err := h.dailyService.AddItem(&req)
	if err != nil {
		if err == services.ErrConflict {
			utils.Conflict(c, "该曲目已在今日练习中")
			return
		}
		handleServiceError(c, err, "添加失败")
		return
	}

	utils.SuccessWithMessage(c, "添加成功", item)
}

func (h *DailyPracticeHandler) UpdateItem(c *gin.Context) {
	var req models.DailyPracticeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	item, err := h.dailyService.UpdateItem(c.Param("id"), *req.Completed)
	if err != nil {
		handleServiceError(c, err, "更新失败")
		return
	}

	utils.SuccessWithMessage(c, "更新成功", item)
}

func (h *DailyPracticeHandler) DeleteItem(c *gin.Context) {
	if err := h.dailyService.DeleteItem(c.Param("id")); err != nil {
		handleServiceError(c, err, "删除失败")
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}
