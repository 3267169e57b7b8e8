package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/manwallet/88keys/internal/llm"
	"github.com/manwallet/88keys/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 练习建议语录（AI 不可用时的备选）
var practiceTips = []string{
	"慢练是最快的捷径",
	"注意手腕放松，让手指自然下落",
	"今天试着分手练习，确保每个声部都清晰",
	"专注于音乐表达，而不只是音符",
	"记得热身，从音阶和琶音开始",
	"遇到困难的段落，分小节慢慢攻克",
	"试着闭眼弹奏熟悉的段落，感受音乐",
	"注意踏板的使用，不要过度依赖",
	"今天可以录下自己的演奏，回听找问题",
	"保持节拍稳定，可以用节拍器辅助",
	"注意力度变化，让音乐有呼吸感",
	"练习前先读谱，在脑海中预演",
}

const noActivePiecesMessage = "目前没有正在学习的曲目，添加一些曲目开始你的练习之旅吧！"

// SuggestionService 每日练习建议：AI 生成的建议按日期缓存，
// AI 不可用时退回由日期种子决定的本地确定性选择
type SuggestionService struct {
	db       *gorm.DB
	settings *SettingsService
	llm      *llm.Client
	now      func() time.Time
}

func NewSuggestionService(db *gorm.DB, settings *SettingsService, llmClient *llm.Client) *SuggestionService {
	return &SuggestionService{
		db:       db,
		settings: settings,
		llm:      llmClient,
		now:      time.Now,
	}
}

func (s *SuggestionService) GetDailySuggestion(ctx context.Context) (*models.SuggestionResponse, error) {
	today := s.now().Format("2006-01-02")

	// 当天已有缓存则原样返回
	var cached models.AiSuggestion
	err := s.db.Where("date = ?", today).First(&cached).Error
	if err == nil {
		return cachedResponse(&cached), nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var pieces []models.Piece
	err = s.db.Where("status IN ?", []string{models.PieceStatusActive, models.PieceStatusNotStarted}).
		Preload("Parent").
		Order("updated_at DESC").
		Find(&pieces).Error
	if err != nil {
		return nil, err
	}

	// 没有可练的曲目：固定文案，不值得缓存
	if len(pieces) == 0 {
		return &models.SuggestionResponse{
			Suggestion:   noActivePiecesMessage,
			ReviewPieces: []models.PieceRef{},
		}, nil
	}

	cfg, err := s.settings.LLMConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Ready() {
		return s.fallback("AI 功能未配置")
	}

	resp, err := s.generateWithAI(ctx, cfg, today, pieces)
	if err != nil {
		logrus.WithError(err).Warn("AI 建议生成失败，使用本地备选")
		return s.fallback("AI 服务暂时不可用")
	}

	return resp, nil
}

func (s *SuggestionService) generateWithAI(ctx context.Context, cfg llm.Config, today string, pieces []models.Piece) (*models.SuggestionResponse, error) {
	var active, notStarted []models.Piece
	for _, p := range pieces {
		if p.Status == models.PieceStatusActive {
			active = append(active, p)
		} else {
			notStarted = append(notStarted, p)
		}
	}

	content, err := s.llm.Chat(ctx, cfg, buildSuggestionPrompt(active, notStarted), 500, 0.7)
	if err != nil {
		return nil, err
	}

	// 今日重点取最近更新的学习中曲目，复习曲目取其后两首
	var focus *models.PieceRef
	var reviews []models.PieceRef
	if len(active) > 0 {
		focus = &models.PieceRef{ID: active[0].ID, Title: active[0].Title, Composer: active[0].Composer}
	}
	for i := 1; i < len(active) && i < 3; i++ {
		reviews = append(reviews, models.PieceRef{ID: active[i].ID, Title: active[i].Title, Composer: active[i].Composer})
	}
	if reviews == nil {
		reviews = []models.PieceRef{}
	}

	focusJSON, err := json.Marshal(focus)
	if err != nil {
		return nil, err
	}
	reviewsJSON, err := json.Marshal(reviews)
	if err != nil {
		return nil, err
	}

	// 按日期 upsert：并发下两次首请求以后写为准，不会留下重复行
	entry := models.AiSuggestion{
		Date:         today,
		Content:      content,
		FocusPiece:   focusJSON,
		ReviewPieces: reviewsJSON,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "focus_piece", "review_pieces"}),
	}).Create(&entry).Error
	if err != nil {
		return nil, err
	}

	return &models.SuggestionResponse{
		Suggestion:   content,
		FocusPiece:   focus,
		ReviewPieces: reviews,
	}, nil
}

// fallback 基于日期种子的确定性选择：同一天内重复访问结果稳定，
// 跨天自动变化，且无须持久化
func (s *SuggestionService) fallback(reason string) (*models.SuggestionResponse, error) {
	var topLevel []models.Piece
	err := s.db.Where("parent_id IS NULL").Preload("Children", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Order("updated_at DESC").Find(&topLevel).Error
	if err != nil {
		return nil, err
	}

	// 容器展开为子曲目，容器本身不参与选择
	var candidates []models.Piece
	for _, p := range topLevel {
		if len(p.Children) > 0 {
			candidates = append(candidates, p.Children...)
		} else {
			candidates = append(candidates, p)
		}
	}

	var active, inProgress []models.Piece
	for _, p := range candidates {
		if p.Status == models.PieceStatusActive {
			active = append(active, p)
		}
		if p.TotalPages > 0 && p.LearnedPages > 0 && p.LearnedPages < p.TotalPages {
			inProgress = append(inProgress, p)
		}
	}

	random := seededRandom(dailySeed(s.now()))

	var focus *models.PieceRef
	var focusID string
	if len(active) > 0 {
		picked := active[pickIndex(random(), len(active))]
		focus = &models.PieceRef{ID: picked.ID, Title: picked.Title, Composer: picked.Composer}
		focusID = picked.ID
	}

	var pool []models.Piece
	for _, p := range inProgress {
		if p.ID != focusID {
			pool = append(pool, p)
		}
	}

	reviews := []models.PieceRef{}
	reviewCount := len(pool)
	if reviewCount > 3 {
		reviewCount = 3
	}
	for i := 0; i < reviewCount; i++ {
		idx := pickIndex(random(), len(pool))
		picked := pool[idx]
		reviews = append(reviews, models.PieceRef{ID: picked.ID, Title: picked.Title, Composer: picked.Composer})
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	tip := practiceTips[pickIndex(random(), len(practiceTips))]

	return &models.SuggestionResponse{
		Suggestion:   tip,
		FocusPiece:   focus,
		ReviewPieces: reviews,
		Error:        reason,
	}, nil
}

// dailySeed 形如 20260901，同一天内种子不变
func dailySeed(now time.Time) int64 {
	return int64(now.Year())*10000 + int64(now.Month())*100 + int64(now.Day())
}

// seededRandom 线性同余伪随机序列，返回 [0,1) 区间的数
func seededRandom(seed int64) func() float64 {
	s := seed
	return func() float64 {
		s = (s*1103515245 + 12345) & 0x7fffffff
		return float64(s) / float64(0x7fffffff)
	}
}

func pickIndex(r float64, n int) int {
	idx := int(r * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func cachedResponse(entry *models.AiSuggestion) *models.SuggestionResponse {
	resp := &models.SuggestionResponse{
		Suggestion:   entry.Content,
		ReviewPieces: []models.PieceRef{},
		Cached:       true,
	}

	if len(entry.FocusPiece) > 0 {
		var focus models.PieceRef
		if err := json.Unmarshal(entry.FocusPiece, &focus); err == nil && focus.ID != "" {
			resp.FocusPiece = &focus
		}
	}
	if len(entry.ReviewPieces) > 0 {
		var reviews []models.PieceRef
		if err := json.Unmarshal(entry.ReviewPieces, &reviews); err == nil && reviews != nil {
			resp.ReviewPieces = reviews
		}
	}

	return resp
}

func buildSuggestionPrompt(active, notStarted []models.Piece) string {
	lines := make([]string, 0, len(active))
	for _, p := range active {
		parentInfo := ""
		if p.Parent != nil {
			parentInfo = fmt.Sprintf("(属于%s) ", p.Parent.Title)
		}
		line := fmt.Sprintf("- %s %sby %s", p.Title, parentInfo, p.Composer)
		if p.Difficulty != nil && *p.Difficulty != "" {
			line += fmt.Sprintf(", 难度: %s", *p.Difficulty)
		}
		if p.TotalPages > 0 {
			progress := int(math.Round(float64(p.LearnedPages) / float64(p.TotalPages) * 100))
			line += fmt.Sprintf(", 进度: %d%%", progress)
		}
		lines = append(lines, line)
	}
	piecesInfo := strings.Join(lines, "\n")
	if piecesInfo == "" {
		piecesInfo = "暂无"
	}

	waitingLines := make([]string, 0, 5)
	for i, p := range notStarted {
		if i >= 5 {
			break
		}
		waitingLines = append(waitingLines, fmt.Sprintf("- %s by %s", p.Title, p.Composer))
	}
	waitingInfo := strings.Join(waitingLines, "\n")
	if waitingInfo == "" {
		waitingInfo = "暂无"
	}

	return fmt.Sprintf(`你是一位经验丰富的钢琴老师。根据学生当前的曲库情况，给出今日练习建议。

当前正在学习的曲目:
%s

待学习的曲目:
%s

请用中文给出：
1. 今日练习重点（选择1首最需要关注的曲目）
2. 建议复习的曲目（1-2首）
3. 具体的练习建议（2-3条简短的技巧或注意事项）
4. 一句鼓励的话

请用友好、温暖的语气，控制在150字以内。`, piecesInfo, waitingInfo)
}
