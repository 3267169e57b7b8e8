package services

import (
	"errors"
	"time"

	"github.com/manwallet/88keys/internal/models"

	"gorm.io/gorm"
)

type LessonService struct {
	db *gorm.DB
}

func NewLessonService(db *gorm.DB) *LessonService {
	return &LessonService{db: db}
}

func (s *LessonService) GetLessons() ([]models.LessonListItem, error) {
	var lessons []models.Lesson
	err := s.db.Preload("Items.Piece", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "title", "composer")
	}).Preload("Items").Order("date DESC").Find(&lessons).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.LessonListItem, 0, len(lessons))
	for _, lesson := range lessons {
		items = append(items, models.LessonListItem{
			Lesson:    lesson,
			ItemCount: len(lesson.Items),
		})
	}

	return items, nil
}

func (s *LessonService) CreateLesson(req *models.LessonCreateRequest) (*models.Lesson, error) {
	lesson := models.Lesson{
		Teacher:  req.Teacher,
		Date:     time.Now(),
		Duration: 60,
		Notes:    req.Notes,
	}
	if req.Date != nil {
		lesson.Date = *req.Date
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}

		for _, pieceID := range req.PieceIDs {
			item := models.LessonItem{
				LessonID: lesson.ID,
				PieceID:  pieceID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.db.Preload("Items.Piece").First(&lesson, "id = ?", lesson.ID).Error
	if err != nil {
		return nil, err
	}

	return &lesson, nil
}

// DeleteLesson 先删除关联条目再删除记录本身，放在同一事务里
func (s *LessonService) DeleteLesson(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("lesson_id = ?", id).Delete(&models.LessonItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&lesson).Error
	})
}
