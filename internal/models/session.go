package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PracticeSession struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	PieceID   string    `json:"pieceId" gorm:"size:36;not null;index"`
	Date      time.Time `json:"date" gorm:"index"`
	Duration  int       `json:"duration" gorm:"default:0"`
	Note      *string   `json:"note" gorm:"type:text"`
	Mood      *string   `json:"mood" gorm:"size:50"`
	CreatedAt time.Time `json:"createdAt"`

	Piece *Piece `json:"piece,omitempty" gorm:"foreignKey:PieceID"`
}

func (s *PracticeSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type SessionCreateRequest struct {
	PieceID  string     `json:"pieceId" validate:"required"`
	Duration *int       `json:"duration" validate:"omitempty,min=0"`
	Date     *time.Time `json:"date"`
	Note     *string    `json:"note"`
	Mood     *string    `json:"mood"`
}

type SessionListRequest struct {
	PieceID string `form:"pieceId"`
	Limit   int    `form:"limit" validate:"omitempty,min=1,max=100"`
}
