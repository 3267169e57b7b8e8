package handlers

import (
	"errors"
	"net/http"

	"github.com/manwallet/88keys/internal/models"
	"github.com/manwallet/88keys/internal/services"
	"github.com/manwallet/88keys/internal/utils"
	pkgvalidator "github.com/manwallet/88keys/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type GoalHandler struct {
	goalService *services.GoalService
	validator   *validator.Validate
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		validator:   pkgvalidator.GetValidator(),
	}
}

func (h *GoalHandler) GetGoals(c *gin.Context) {
	goals, err := h.goalService.GetGoals()
	if err != nil {
		handleServiceError(c, err, "获取目标失败")
		return
	}

	utils.Success(c, goals)
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req models.GoalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请填写目标标题")
		return
	}

	goal, err := h.goalService.CreateGoal(&req)
	if err != nil {
		handleServiceError(c, err, "创建目标失败")
		return
	}

	utils.SuccessWithMessage(c, "创建成功", goal)
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var req models.GoalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, "更新目标失败")
		return
	}

	utils.SuccessWithMessage(c, "更新成功", goal)
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.goalService.DeleteGoal(c.Param("id")); err != nil {
		handleServiceError(c, err, "删除目标失败")
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}

// GeneratePlan 用户显式触发的 AI 动作，失败时需要让用户知道原因
func (h *GoalHandler) GeneratePlan(c *gin.Context) {
	goal, err := h.goalService.GeneratePlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrLLMNotConfigured) {
			handleServiceError(c, err, "生成计划失败")
			return
		}
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "计划已生成", goal)
}
