package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/manwallet/88keys/internal/llm"
	"github.com/manwallet/88keys/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newFakeChatServer 模拟 OpenAI 兼容接口，固定返回 reply
func newFakeChatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newSuggestionService(t *testing.T, db *gorm.DB) (*SuggestionService, *SettingsService) {
	t.Helper()
	settings := NewSettingsService(db, newTestConfig())
	return NewSuggestionService(db, settings, llm.NewClient()), settings
}

func configureLLM(t *testing.T, settings *SettingsService, baseURL string) {
	t.Helper()
	require.NoError(t, settings.Set(models.SettingLLMBaseURL, baseURL))
	require.NoError(t, settings.Set(models.SettingLLMModel, "test-model"))
	require.NoError(t, settings.Set(models.SettingLLMAPIKey, "test-key"))
}

func TestDailySuggestion_NoPieces(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSuggestionService(t, db)

	resp, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, noActivePiecesMessage, resp.Suggestion)
	assert.False(t, resp.Cached)

	// 固定文案不写缓存
	var count int64
	require.NoError(t, db.Model(&models.AiSuggestion{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDailySuggestion_FallbackWhenNotConfigured(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSuggestionService(t, db)
	pieces := NewPieceService(db)

	piece := createTestPiece(t, pieces, "夜曲", 10)
	_, err := pieces.UpdatePiece(piece.ID, &models.PieceUpdateRequest{LearnedPages: intPtr(3)})
	require.NoError(t, err)

	resp, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AI 功能未配置", resp.Error)
	assert.NotEmpty(t, resp.Suggestion)
	require.NotNil(t, resp.FocusPiece)
	assert.Equal(t, piece.ID, resp.FocusPiece.ID)

	// 本地备选不写缓存
	var count int64
	require.NoError(t, db.Model(&models.AiSuggestion{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDailySuggestion_FallbackDeterministicWithinDay(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSuggestionService(t, db)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	pieces := NewPieceService(db)
	for _, title := range []string{"曲一", "曲二", "曲三", "曲四"} {
		p := createTestPiece(t, pieces, title, 10)
		_, err := pieces.UpdatePiece(p.ID, &models.PieceUpdateRequest{LearnedPages: intPtr(5)})
		require.NoError(t, err)
	}

	first, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)

	// 同一天内午后再访问，结果完全一致
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 22, 30, 0, 0, time.UTC) }
	second, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Suggestion, second.Suggestion)
	assert.Equal(t, first.FocusPiece, second.FocusPiece)
	assert.Equal(t, first.ReviewPieces, second.ReviewPieces)
}

func TestDailySuggestion_FallbackExpandsContainers(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSuggestionService(t, db)
	pieces := NewPieceService(db)

	parent := createTestPiece(t, pieces, "奏鸣曲", 0)
	result, err := pieces.SplitPiece(parent.ID, &models.PieceSplitRequest{
		Children: []models.SplitChildRequest{{Title: "第一乐章"}, {Title: "第二乐章"}},
	})
	require.NoError(t, err)

	child := result.Children[0]
	_, err = pieces.UpdatePiece(child.ID, &models.PieceUpdateRequest{
		TotalPages:   intPtr(8),
		LearnedPages: intPtr(3),
	})
	require.NoError(t, err)

	resp, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)

	// 容器本身不会被选中，重点只能是子曲目
	require.NotNil(t, resp.FocusPiece)
	assert.NotEqual(t, parent.ID, resp.FocusPiece.ID)
	assert.Equal(t, child.ID, resp.FocusPiece.ID)
}

func TestDailySuggestion_AIPathCachesByDate(t *testing.T) {
	db := newTestDB(t)
	svc, settings := newSuggestionService(t, db)

	ts := newFakeChatServer(t, "今天重点练习夜曲的第三页，注意左手伴奏的均匀。")
	defer ts.Close()
	configureLLM(t, settings, ts.URL)

	pieces := NewPieceService(db)
	p := createTestPiece(t, pieces, "夜曲", 10)
	_, err := pieces.UpdatePiece(p.ID, &models.PieceUpdateRequest{LearnedPages: intPtr(3)})
	require.NoError(t, err)

	first, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "今天重点练习夜曲的第三页，注意左手伴奏的均匀。", first.Suggestion)
	assert.Empty(t, first.Error)
	require.NotNil(t, first.FocusPiece)
	assert.Equal(t, p.ID, first.FocusPiece.ID)

	// 当天建议落库
	var entry models.AiSuggestion
	require.NoError(t, db.Where("date = ?", time.Now().Format("2006-01-02")).First(&entry).Error)
	assert.Equal(t, first.Suggestion, entry.Content)

	// 第二次请求命中缓存，不再访问 AI
	ts.Close()
	second, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Suggestion, second.Suggestion)
	require.NotNil(t, second.FocusPiece)
	assert.Equal(t, p.ID, second.FocusPiece.ID)
}

func TestDailySuggestion_FallbackWhenAIFails(t *testing.T) {
	db := newTestDB(t)
	svc, settings := newSuggestionService(t, db)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()
	configureLLM(t, settings, ts.URL)

	pieces := NewPieceService(db)
	p := createTestPiece(t, pieces, "练习曲", 10)
	_, err := pieces.UpdatePiece(p.ID, &models.PieceUpdateRequest{LearnedPages: intPtr(2)})
	require.NoError(t, err)

	resp, err := svc.GetDailySuggestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AI 服务暂时不可用", resp.Error)
	assert.NotEmpty(t, resp.Suggestion)
	assert.False(t, resp.Cached)
}

func TestDailySeed(t *testing.T) {
	morning := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	night := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 9, 2, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, int64(20260901), dailySeed(morning))
	assert.Equal(t, dailySeed(morning), dailySeed(night))
	assert.NotEqual(t, dailySeed(morning), dailySeed(nextDay))
}

func TestSeededRandom(t *testing.T) {
	a := seededRandom(20260901)
	b := seededRandom(20260901)

	for i := 0; i < 10; i++ {
		va, vb := a(), b()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0.0)
		assert.Less(t, va, 1.0)
	}
}

func TestPickIndex_Bounds(t *testing.T) {
	assert.Equal(t, 0, pickIndex(0, 5))
	assert.Equal(t, 4, pickIndex(0.999999, 5))
	// 极端值不越界
	assert.Equal(t, 4, pickIndex(1.0, 5))
}
