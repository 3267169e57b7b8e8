package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 曲目状态
const (
	PieceStatusNotStarted = "NotStarted"
	PieceStatusActive     = "Active"
	PieceStatusOnHold     = "OnHold"
	PieceStatusCompleted  = "Completed"
)

type Piece struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Composer     string    `json:"composer" gorm:"size:255"`
	WorkNumber   *string   `json:"workNumber" gorm:"size:100"`
	Genre        *string   `json:"genre" gorm:"size:50"`
	Difficulty   *string   `json:"difficulty" gorm:"size:50"`
	AssignedBy   *string   `json:"assignedBy" gorm:"size:100"`
	Notes        *string   `json:"notes" gorm:"type:text"`
	TotalPages   int       `json:"totalPages" gorm:"default:0"`
	LearnedPages int       `json:"learnedPages" gorm:"default:0"`
	Status       string    `json:"status" gorm:"size:20;default:NotStarted"`
	ParentID     *string   `json:"parentId" gorm:"size:36;index"`
	SortOrder    int       `json:"sortOrder" gorm:"default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"index"`

	// 关联：父子为两层结构，子曲目不再有子曲目
	Parent   *Piece            `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Piece           `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Sessions []PracticeSession `json:"sessions,omitempty" gorm:"foreignKey:PieceID"`
}

func (p *Piece) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsContainer 有子曲目的顶层曲目，进度与状态由子曲目汇总得出
func (p *Piece) IsContainer() bool {
	return p.ParentID == nil && len(p.Children) > 0
}

type PieceCreateRequest struct {
	Title      string  `json:"title" validate:"required,max=255"`
	Composer   string  `json:"composer" validate:"required,max=255"`
	WorkNumber *string `json:"workNumber"`
	Genre      *string `json:"genre"`
	TotalPages *int    `json:"totalPages" validate:"omitempty,min=0"`
	Status     *string `json:"status" validate:"omitempty,oneof=NotStarted Active OnHold Completed"`
	Difficulty *string `json:"difficulty"`
	AssignedBy *string `json:"assignedBy"`
	Notes      *string `json:"notes"`
}

type PieceUpdateRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=255"`
	Composer     *string `json:"composer" validate:"omitempty,max=255"`
	WorkNumber   *string `json:"workNumber"`
	Genre        *string `json:"genre"`
	TotalPages   *int    `json:"totalPages" validate:"omitempty,min=0"`
	LearnedPages *int    `json:"learnedPages" validate:"omitempty,min=0"`
	Status       *string `json:"status" validate:"omitempty,oneof=NotStarted Active OnHold Completed"`
	Difficulty   *string `json:"difficulty"`
	AssignedBy   *string `json:"assignedBy"`
	Notes        *string `json:"notes"`
}

type SplitChildRequest struct {
	Title      string  `json:"title" validate:"required,max=255"`
	SortOrder  *int    `json:"sortOrder"`
	Difficulty *string `json:"difficulty"`
	Notes      *string `json:"notes"`
}

type PieceSplitRequest struct {
	ParentTitle *string             `json:"parentTitle"`
	Children    []SplitChildRequest `json:"children" validate:"required,min=1,dive"`
}

type PieceSplitResult struct {
	Parent   *Piece  `json:"parent"`
	Children []Piece `json:"children"`
}

type PieceListItem struct {
	Piece
	SessionCount int64 `json:"sessionCount"`
}

type PieceDetail struct {
	Piece
	SessionCount int64 `json:"sessionCount"`
}
