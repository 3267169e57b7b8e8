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

type LessonHandler struct {
	lessonService *services.LessonService
	validator     *validator.Validate
}

func NewLessonHandler(lessonService *services.LessonService) *LessonHandler {
	return &LessonHandler{
		lessonService: lessonService,
		validator:     pkgvalidator.GetValidator(),
	}
}

func (h *LessonHandler) GetLessons(c *gin.Context) {
	lessons, err := h.lessonService.GetLessons()
	if err != nil {
		handleServiceError(c, err, "获取上课记录失败")
		return
	}

	utils.Success(c, lessons)
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req models.LessonCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请填写老师名字")
		return
	}

	lesson, err := h.lessonService.CreateLesson(&req)
	if err != nil {
		handleServiceError(c, err, "创建上课记录失败")
		return
	}

	utils.SuccessWithMessage(c, "创建成功", lesson)
}

func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	if err := h.lessonService.DeleteLesson(c.Param("id")); err != nil {
		handleServiceError(c, err, "删除上课记录失败")
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}
