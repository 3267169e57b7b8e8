package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 学习目标状态
const (
	GoalStatusActive    = "Active"
	GoalStatusCompleted = "Completed"
)

type LearningGoal struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description *string    `json:"description" gorm:"type:text"`
	TargetDate  *time.Time `json:"targetDate"`
	Status      string     `json:"status" gorm:"size:20;default:Active"`
	Priority    int        `json:"priority" gorm:"default:0"`
	AiPlan      *string    `json:"aiPlan" gorm:"type:text"`
	AiPlanDate  *string    `json:"aiPlanDate" gorm:"size:10"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (g *LearningGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

type GoalCreateRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
	Priority    *int       `json:"priority"`
}

type GoalUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
	Status      *string    `json:"status" validate:"omitempty,oneof=Active Completed"`
	Priority    *int       `json:"priority"`
}
