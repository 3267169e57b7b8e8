package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Date      time.Time `json:"date" gorm:"index"`
	Teacher   string    `json:"teacher" gorm:"size:100;not null"`
	Duration  int       `json:"duration" gorm:"default:60"`
	Notes     *string   `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`

	Items []LessonItem `json:"items,omitempty" gorm:"foreignKey:LessonID"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type LessonItem struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	LessonID string `json:"lessonId" gorm:"size:36;not null;index"`
	PieceID  string `json:"pieceId" gorm:"size:36;not null;index"`

	Piece *Piece `json:"piece,omitempty" gorm:"foreignKey:PieceID"`
}

func (i *LessonItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type LessonCreateRequest struct {
	Date     *time.Time `json:"date"`
	Teacher  string     `json:"teacher" validate:"required,max=100"`
	Duration *int       `json:"duration" validate:"omitempty,min=0"`
	Notes    *string    `json:"notes"`
	PieceIDs []string   `json:"pieceIds"`
}

type LessonListItem struct {
	Lesson
	ItemCount int `json:"itemCount"`
}
