package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/manwallet/88keys/internal/llm"
	"github.com/manwallet/88keys/internal/models"

	"gorm.io/gorm"
)

type GoalService struct {
	db       *gorm.DB
	settings *SettingsService
	llm      *llm.Client
}

func NewGoalService(db *gorm.DB, settings *SettingsService, llmClient *llm.Client) *GoalService {
	return &GoalService{db: db, settings: settings, llm: llmClient}
}

func (s *GoalService) GetGoals() ([]models.LearningGoal, error) {
	var goals []models.LearningGoal
	err := s.db.Order("priority DESC").Order("created_at DESC").Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *GoalService) CreateGoal(req *models.GoalCreateRequest) (*models.LearningGoal, error) {
	goal := models.LearningGoal{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Status:      models.GoalStatusActive,
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, err
	}

	return &goal, nil
}

func (s *GoalService) UpdateGoal(id string, req *models.GoalUpdateRequest) (*models.LearningGoal, error) {
	var goal models.LearningGoal
	if err := s.db.First(&goal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TargetDate != nil {
		updates["target_date"] = *req.TargetDate
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}

	if len(updates) > 0 {
		if err := s.db.Model(&goal).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.First(&goal, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &goal, nil
}

func (s *GoalService) DeleteGoal(id string) error {
	result := s.db.Delete(&models.LearningGoal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GeneratePlan 根据目标和当前曲库让 AI 起草学习计划，
// 生成结果连同日期一起保存到目标上
func (s *GoalService) GeneratePlan(ctx context.Context, id string) (*models.LearningGoal, error) {
	var goal models.LearningGoal
	if err := s.db.First(&goal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cfg, err := s.settings.LLMConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Ready() {
		return nil, ErrLLMNotConfigured
	}

	var pieces []models.Piece
	err = s.db.Where("parent_id IS NULL").Preload("Children").Find(&pieces).Error
	if err != nil {
		return nil, err
	}

	plan, err := s.llm.Chat(ctx, cfg, buildPlanPrompt(&goal, pieces), 800, 0.7)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	err = s.db.Model(&goal).Updates(map[string]interface{}{
		"ai_plan":      plan,
		"ai_plan_date": today,
	}).Error
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&goal, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &goal, nil
}

func buildPlanPrompt(goal *models.LearningGoal, pieces []models.Piece) string {
	lines := make([]string, 0, len(pieces))
	for _, p := range pieces {
		line := fmt.Sprintf("- %s by %s", p.Title, p.Composer)
		if len(p.Children) > 0 {
			line += fmt.Sprintf(" (%d首子曲目)", len(p.Children))
		}
		if p.Status != "" {
			line += fmt.Sprintf(", 状态: %s", p.Status)
		}
		if p.TotalPages > 0 {
			progress := int(math.Round(float64(p.LearnedPages) / float64(p.TotalPages) * 100))
			line += fmt.Sprintf(", 进度: %d%%", progress)
		}
		lines = append(lines, line)
	}
	piecesInfo := strings.Join(lines, "\n")
	if piecesInfo == "" {
		piecesInfo = "暂无曲目"
	}

	var sb strings.Builder
	sb.WriteString("你是一位经验丰富的钢琴老师，请根据学生的学习目标和当前曲库，制定一个详细的学习计划。\n\n")
	sb.WriteString(fmt.Sprintf("学习目标：%s\n", goal.Title))
	if goal.Description != nil && *goal.Description != "" {
		sb.WriteString(fmt.Sprintf("目标描述：%s\n", *goal.Description))
	}
	if goal.TargetDate != nil {
		days := int(math.Ceil(time.Until(*goal.TargetDate).Hours() / 24))
		if days > 0 {
			sb.WriteString(fmt.Sprintf("时间：距离目标还有 %d 天\n", days))
		} else {
			sb.WriteString("时间：目标日期已过\n")
		}
	}
	sb.WriteString("\n当前曲库：\n")
	sb.WriteString(piecesInfo)
	sb.WriteString("\n\n请制定学习计划，包括：\n1. 整体规划建议\n2. 每周练习重点\n3. 具体练习方法和技巧\n4. 里程碑节点\n\n请用中文回答，语气友好，控制在 300 字以内。")

	return sb.String()
}
