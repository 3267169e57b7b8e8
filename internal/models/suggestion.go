package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AiSuggestion 每个自然日至多一条，作为当日建议的幂等缓存
type AiSuggestion struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	Date         string         `json:"date" gorm:"size:10;not null;uniqueIndex"`
	Content      string         `json:"content" gorm:"type:text"`
	FocusPiece   datatypes.JSON `json:"focusPiece"`
	ReviewPieces datatypes.JSON `json:"reviewPieces"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (a *AiSuggestion) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// PieceRef 建议里引用曲目的快照
type PieceRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Composer string `json:"composer"`
}

type SuggestionResponse struct {
	Suggestion   string     `json:"suggestion"`
	FocusPiece   *PieceRef  `json:"focusPiece"`
	ReviewPieces []PieceRef `json:"reviewPieces"`
	Cached       bool       `json:"cached"`
	Error        string     `json:"error,omitempty"`
}
