package services

import (
	"errors"

	"github.com/manwallet/88keys/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PieceService struct {
	db *gorm.DB
}

func NewPieceService(db *gorm.DB) *PieceService {
	return &PieceService{db: db}
}

// GetPieces 按最近更新排序，附带子曲目和练习次数
func (s *PieceService) GetPieces() ([]models.PieceListItem, error) {
	var pieces []models.Piece
	err := s.db.Preload("Children", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Order("updated_at DESC").Find(&pieces).Error
	if err != nil {
		return nil, err
	}

	// 练习次数按曲目汇总
	type pieceCount struct {
		PieceID string
		Count   int64
	}
	var counts []pieceCount
	err = s.db.Model(&models.PracticeSession{}).
		Select("piece_id, COUNT(*) AS count").
		Group("piece_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	countByPiece := make(map[string]int64, len(counts))
	for _, c := range counts {
		countByPiece[c.PieceID] = c.Count
	}

	items := make([]models.PieceListItem, 0, len(pieces))
	for _, p := range pieces {
		items = append(items, models.PieceListItem{
			Piece:        p,
			SessionCount: countByPiece[p.ID],
		})
	}

	return items, nil
}

// GetPiece 返回单个曲目，附带最近 20 条练习记录和总练习次数
func (s *PieceService) GetPiece(id string) (*models.PieceDetail, error) {
	var piece models.Piece
	err := s.db.Preload("Children", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Sessions", func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC").Limit(20)
	}).First(&piece, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sessionCount int64
	if err := s.db.Model(&models.PracticeSession{}).Where("piece_id = ?", id).Count(&sessionCount).Error; err != nil {
		return nil, err
	}

	return &models.PieceDetail{Piece: piece, SessionCount: sessionCount}, nil
}

func (s *PieceService) CreatePiece(req *models.PieceCreateRequest) (*models.Piece, error) {
	piece := models.Piece{
		Title:      req.Title,
		Composer:   req.Composer,
		WorkNumber: req.WorkNumber,
		Genre:      req.Genre,
		Difficulty: req.Difficulty,
		AssignedBy: req.AssignedBy,
		Notes:      req.Notes,
		Status:     models.PieceStatusNotStarted,
	}
	if req.TotalPages != nil {
		piece.TotalPages = *req.TotalPages
	}
	if req.Status != nil && *req.Status != "" {
		piece.Status = *req.Status
	}

	if err := s.db.Create(&piece).Error; err != nil {
		return nil, err
	}

	return &piece, nil
}

// UpdatePiece 更新曲目字段。智能状态推断：填写已学页数会自动推进状态；
// 子曲目更新后同步刷新父曲目的汇总进度。
func (s *PieceService) UpdatePiece(id string, req *models.PieceUpdateRequest) (*models.Piece, error) {
	var piece models.Piece
	if err := s.db.First(&piece, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Composer != nil {
		updates["composer"] = *req.Composer
	}
	if req.WorkNumber != nil {
		updates["work_number"] = *req.WorkNumber
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.AssignedBy != nil {
		updates["assigned_by"] = *req.AssignedBy
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.TotalPages != nil {
		updates["total_pages"] = *req.TotalPages
	}
	if req.LearnedPages != nil {
		updates["learned_pages"] = *req.LearnedPages
	}

	finalStatus := req.Status
	if req.LearnedPages != nil && *req.LearnedPages > 0 {
		// 已学页数 > 0 且状态仍是"未开始"，自动改为"学习中"
		if req.Status == nil || *req.Status == "" || *req.Status == models.PieceStatusNotStarted {
			active := models.PieceStatusActive
			finalStatus = &active
		}
		// 已学页数达到总页数，自动改为"已完成"（优先于上一条）
		knownTotal := piece.TotalPages
		if req.TotalPages != nil {
			knownTotal = *req.TotalPages
		}
		if knownTotal > 0 && *req.LearnedPages >= knownTotal {
			completed := models.PieceStatusCompleted
			finalStatus = &completed
		}
	}
	if finalStatus != nil && *finalStatus != "" {
		updates["status"] = *finalStatus
	}

	if len(updates) > 0 {
		if err := s.db.Model(&piece).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.First(&piece, "id = ?", id).Error; err != nil {
		return nil, err
	}

	// 子曲目更新后，同步刷新父曲目的汇总字段
	if piece.ParentID != nil {
		s.UpdateParentProgress(*piece.ParentID)
	}

	return &piece, nil
}

// UpdateParentProgress 将子曲目的页数汇总到父曲目并推导状态。
// 尽力而为的一致性维护：父曲目不存在或没有子曲目时静默跳过。
func (s *PieceService) UpdateParentProgress(parentID string) {
	var parent models.Piece
	if err := s.db.First(&parent, "id = ?", parentID).Error; err != nil {
		return
	}

	var children []models.Piece
	if err := s.db.Where("parent_id = ?", parentID).Find(&children).Error; err != nil {
		logrus.WithError(err).WithField("parent_id", parentID).Debug("汇总子曲目失败")
		return
	}
	if len(children) == 0 {
		return
	}

	totalPages := 0
	learnedPages := 0
	allCompleted := true
	anyActive := false
	for _, child := range children {
		totalPages += child.TotalPages
		learnedPages += child.LearnedPages
		if child.Status != models.PieceStatusCompleted {
			allCompleted = false
		}
		if child.Status == models.PieceStatusActive || child.LearnedPages > 0 {
			anyActive = true
		}
	}

	// 所有子曲目完成才算完成；已有进度且父曲目还是"未开始"时推进为"学习中"，
	// 其余情况保持原状态不回退
	status := parent.Status
	if allCompleted {
		status = models.PieceStatusCompleted
	} else if anyActive && parent.Status == models.PieceStatusNotStarted {
		status = models.PieceStatusActive
	}

	err := s.db.Model(&parent).Updates(map[string]interface{}{
		"total_pages":   totalPages,
		"learned_pages": learnedPages,
		"status":        status,
	}).Error
	if err != nil {
		logrus.WithError(err).WithField("parent_id", parentID).Debug("更新父曲目进度失败")
	}
}

// DeletePiece 无条件删除。不级联处理子曲目和历史练习记录，
// 与线上行为保持一致（孤儿记录可被容忍）。
func (s *PieceService) DeletePiece(id string) error {
	result := s.db.Delete(&models.Piece{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SplitPiece 把一首曲目拆分为父子结构：原曲目变为父曲目（容器），
// 子曲目继承作曲家、作品号、时期等元信息。整个拆分在一个事务中完成。
func (s *PieceService) SplitPiece(id string, req *models.PieceSplitRequest) (*models.PieceSplitResult, error) {
	if len(req.Children) == 0 {
		return nil, ErrInvalidInput
	}

	var parent models.Piece
	var children []models.Piece

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&parent, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		parentTitle := parent.Title
		if req.ParentTitle != nil && *req.ParentTitle != "" {
			parentTitle = *req.ParentTitle
		}
		if err := tx.Model(&parent).Update("title", parentTitle).Error; err != nil {
			return err
		}
		parent.Title = parentTitle

		for i, spec := range req.Children {
			difficulty := parent.Difficulty
			if spec.Difficulty != nil && *spec.Difficulty != "" {
				difficulty = spec.Difficulty
			}
			sortOrder := i + 1
			if spec.SortOrder != nil {
				sortOrder = *spec.SortOrder
			}

			child := models.Piece{
				Title:      spec.Title,
				Composer:   parent.Composer,
				WorkNumber: parent.WorkNumber,
				Genre:      parent.Genre,
				AssignedBy: parent.AssignedBy,
				Difficulty: difficulty,
				Notes:      spec.Notes,
				Status:     models.PieceStatusNotStarted,
				ParentID:   &parent.ID,
				SortOrder:  sortOrder,
			}
			if err := tx.Create(&child).Error; err != nil {
				return err
			}
			children = append(children, child)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.PieceSplitResult{Parent: &parent, Children: children}, nil
}
