package services

import (
	"errors"
	"time"

	"github.com/manwallet/88keys/internal/models"

	"gorm.io/gorm"
)

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

func (s *SessionService) GetSessions(req *models.SessionListRequest) ([]models.PracticeSession, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	query := s.db.Model(&models.PracticeSession{})
	if req.PieceID != "" {
		query = query.Where("piece_id = ?", req.PieceID)
	}

	var sessions []models.PracticeSession
	err := query.Preload("Piece", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "title", "composer")
	}).Order("date DESC").Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// CreateSession 记录一次练习，曲目必须存在
func (s *SessionService) CreateSession(req *models.SessionCreateRequest) (*models.PracticeSession, error) {
	var piece models.Piece
	if err := s.db.First(&piece, "id = ?", req.PieceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	session := models.PracticeSession{
		PieceID: req.PieceID,
		Date:    time.Now(),
		Note:    req.Note,
		Mood:    req.Mood,
	}
	if req.Duration != nil {
		session.Duration = *req.Duration
	}
	if req.Date != nil {
		session.Date = *req.Date
	}

	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	err := s.db.Preload("Piece", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "title", "composer")
	}).First(&session, "id = ?", session.ID).Error
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *SessionService) DeleteSession(id string) error {
	result := s.db.Delete(&models.PracticeSession{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
