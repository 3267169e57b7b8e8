package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/manwallet/88keys/internal/llm"
	"github.com/manwallet/88keys/internal/models"

	"gorm.io/gorm"
)

// AIService 用户显式触发的 AI 工具：识别曲目信息、分析曲集拆分
type AIService struct {
	db       *gorm.DB
	settings *SettingsService
	llm      *llm.Client
}

func NewAIService(db *gorm.DB, settings *SettingsService, llmClient *llm.Client) *AIService {
	return &AIService{db: db, settings: settings, llm: llmClient}
}

type PieceFillResult struct {
	Title      string `json:"title"`
	Composer   string `json:"composer"`
	WorkNumber string `json:"workNumber"`
	Genre      string `json:"genre"`
	Difficulty string `json:"difficulty"`
}

type ReorganizeChild struct {
	Title      string `json:"title"`
	SortOrder  int    `json:"sortOrder"`
	Difficulty string `json:"difficulty"`
	Notes      string `json:"notes"`
}

type ReorganizeSuggestion struct {
	ShouldSplit bool              `json:"shouldSplit"`
	Reason      string            `json:"reason"`
	ParentTitle string            `json:"parentTitle"`
	Children    []ReorganizeChild `json:"children"`
}

type ReorganizeResult struct {
	Piece      *models.Piece         `json:"piece"`
	Suggestion *ReorganizeSuggestion `json:"suggestion"`
}

// FillPiece 根据用户输入的曲名识别标准曲名、作曲家、作品号、时期和难度
func (s *AIService) FillPiece(ctx context.Context, title string) (*PieceFillResult, error) {
	cfg, err := s.settings.LLMConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Ready() {
		return nil, ErrLLMNotConfigured
	}

	prompt := fmt.Sprintf(`你是一个钢琴音乐专家。用户输入了一个钢琴曲名，请识别这首曲子并返回详细信息。

用户输入: "%s"

请返回 JSON 格式，不要有其他文字。要求：
1. title: 标准化的曲名格式，包含完整信息（如"升c小调幻想即兴曲"应改为"幻想即兴曲 升c小调 Op.66"）
2. composer: 作曲家全名（中文），如"弗雷德里克·肖邦"、"路德维希·范·贝多芬"
3. workNumber: 作品号（如 Op. 27 No. 2, BWV 846, K.331 等）
4. genre: 只能是以下之一：巴洛克、古典、浪漫、印象派、现代、流行、爵士、其他
5. difficulty: 只能是以下之一：入门、初级、中级、中高级、高级、专业

如果无法识别具体曲目，尽量根据输入推测。如果某项确实无法确定，使用空字符串。

返回格式：
{
  "title": "标准化曲名",
  "composer": "作曲家全名",
  "workNumber": "作品号",
  "genre": "时期",
  "difficulty": "难度"
}`, title)

	content, err := s.llm.Chat(ctx, cfg, prompt, 2000, 0.3)
	if err != nil {
		return nil, err
	}

	var result PieceFillResult
	if err := llm.ParseJSON(content, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ReorganizePiece 分析曲目是否为曲集/多乐章作品，给出拆分建议。
// 只给建议，实际拆分仍由曲目拆分接口执行。
func (s *AIService) ReorganizePiece(ctx context.Context, pieceID string) (*ReorganizeResult, error) {
	var piece models.Piece
	if err := s.db.First(&piece, "id = ?", pieceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cfg, err := s.settings.LLMConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Ready() {
		return nil, ErrLLMNotConfigured
	}

	workNumber := "无"
	if piece.WorkNumber != nil && *piece.WorkNumber != "" {
		workNumber = *piece.WorkNumber
	}

	prompt := fmt.Sprintf(`你是一个古典音乐专家。请分析以下钢琴曲目，判断它是否包含多个子曲目（如练习曲集、奏鸣曲乐章等），并拆分成独立的子曲目。

曲目信息：
- 曲名: %s
- 作曲家: %s
- 作品号: %s

请分析这首曲目：
1. 如果是一个曲集（如练习曲集 Op.10、Op.25 等），列出所有包含的单曲
2. 如果是奏鸣曲或协奏曲，列出所有乐章
3. 如果是单独的曲目，返回空数组

请返回 JSON 格式，不要有其他文字：
{
  "shouldSplit": true/false,
  "reason": "为什么需要/不需要拆分的原因",
  "parentTitle": "父曲目的标准化名称（如果需要拆分）",
  "children": [
    {
      "title": "子曲目名称（如：第1首 C大调）",
      "sortOrder": 1,
      "difficulty": "难度（入门/初级/中级/中高级/高级/专业，如果知道的话）",
      "notes": "关于这首子曲目的备注（如著名别名等）"
    }
  ]
}

注意：
- 对于练习曲集，请列出所有练习曲，格式如"第1首 C大调"或用常见别名
- 对于奏鸣曲，列出所有乐章，格式如"第一乐章 Allegro"
- sortOrder 从 1 开始`, piece.Title, piece.Composer, workNumber)

	content, err := s.llm.Chat(ctx, cfg, prompt, 4000, 0.3)
	if err != nil {
		return nil, err
	}

	var suggestion ReorganizeSuggestion
	if err := llm.ParseJSON(content, &suggestion); err != nil {
		return nil, err
	}

	return &ReorganizeResult{Piece: &piece, Suggestion: &suggestion}, nil
}
