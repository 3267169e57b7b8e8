package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyPracticeItem 当日练习清单条目，曲目信息为加入时的快照
type DailyPracticeItem struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Date          string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_daily_date_piece"`
	PieceID       string    `json:"pieceId" gorm:"size:36;not null;uniqueIndex:idx_daily_date_piece"`
	PieceTitle    string    `json:"pieceTitle" gorm:"size:255;not null"`
	PieceComposer string    `json:"pieceComposer" gorm:"size:255;not null"`
	Completed     bool      `json:"completed" gorm:"default:false"`
	SortOrder     int       `json:"sortOrder" gorm:"default:0"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (d *DailyPracticeItem) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type DailyPracticeAddRequest struct {
	Date          string `json:"date" validate:"required,dateymd"`
	PieceID       string `json:"pieceId" validate:"required"`
	PieceTitle    string `json:"pieceTitle" validate:"required"`
	PieceComposer string `json:"pieceComposer" validate:"required"`
}

type DailyPracticeUpdateRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}
