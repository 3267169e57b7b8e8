package services

import (
	"errors"

	"github.com/manwallet/88keys/internal/models"

	"gorm.io/gorm"
)

type DailyPracticeService struct {
	db *gorm.DB
}

func NewDailyPracticeService(db *gorm.DB) *DailyPracticeService {
	return &DailyPracticeService{db: db}
}

func (s *DailyPracticeService) GetItems(date string) ([]models.DailyPracticeItem, error) {
	var items []models.DailyPracticeItem
	err := s.db.Where("date = ?", date).Order("sort_order ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem 同一天同一曲目只能加入一次，重复加入返回冲突错误
func (s *DailyPracticeService) AddItem(req *models.DailyPracticeAddRequest) (*models.DailyPracticeItem, error) {
	var existing models.DailyPracticeItem
	err := s.db.Where("date = ? AND piece_id = ?", req.Date, req.PieceID).First(&existing).Error
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 排在当天清单末尾
	var maxOrder int
	err = s.db.Model(&models.DailyPracticeItem{}).
		Where("date = ?", req.Date).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxOrder).Error
	if err != nil {
		return nil, err
	}

	item := models.DailyPracticeItem{
		Date:          req.Date,
		PieceID:       req.PieceID,
		PieceTitle:    req.PieceTitle,
		PieceComposer: req.PieceComposer,
		SortOrder:     maxOrder + 1,
	}

	if err := s.db.Create(&item).Error; err != nil {
		// 并发写入时唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return &item, nil
}

func (s *DailyPracticeService) UpdateItem(id string, completed bool) (*models.DailyPracticeItem, error) {
	var item models.DailyPracticeItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&item).Update("completed", completed).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *DailyPracticeService) DeleteItem(id string) error {
	result := s.db.Delete(&models.DailyPracticeItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
