package services

import (
	"testing"

	"github.com/manwallet/88keys/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPiece(t *testing.T, svc *PieceService, title string, totalPages int) *models.Piece {
	t.Helper()
	piece, err := svc.CreatePiece(&models.PieceCreateRequest{
		Title:      title,
		Composer:   "肖邦",
		TotalPages: intPtr(totalPages),
	})
	require.NoError(t, err)
	return piece
}

func TestCreatePiece_Defaults(t *testing.T) {
	svc := NewPieceService(newTestDB(t))

	piece := createTestPiece(t, svc, "夜曲 Op.9 No.2", 4)

	assert.NotEmpty(t, piece.ID)
	assert.Equal(t, models.PieceStatusNotStarted, piece.Status)
	assert.Equal(t, 4, piece.TotalPages)
	assert.Equal(t, 0, piece.LearnedPages)
	assert.Nil(t, piece.ParentID)
}

func TestGetPiece_NotFound(t *testing.T) {
	svc := NewPieceService(newTestDB(t))

	_, err := svc.GetPiece("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePiece_InfersActiveFromProgress(t *testing.T) {
	svc := NewPieceService(newTestDB(t))
	piece := createTestPiece(t, svc, "练习曲 Op.10 No.1", 10)

	// 填写已学页数但不提交状态，自动从未开始推进为学习中
	updated, err := svc.UpdatePiece(piece.ID, &models.PieceUpdateRequest{
		LearnedPages: intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PieceStatusActive, updated.Status)
	assert.Equal(t, 5, updated.LearnedPages)
}

func TestUpdatePiece_InfersCompletedWhenAllPagesLearned(t *testing.T) {
	svc := NewPieceService(newTestDB(t))
	piece := createTestPiece(t, svc, "前奏曲", 10)

	updated, err := svc.UpdatePiece(piece.ID, &models.PieceUpdateRequest{
		LearnedPages: intPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PieceStatusCompleted, updated.Status)
}

func TestUpdatePiece_CompletedOverridesSubmittedStatus(t *testing.T) {
	svc := NewPieceService(newTestDB(t))
	piece := createTestPiece(t, svc, "幻想即兴曲", 12)

	// 即使显式提交学习中，页数学满仍推断为已完成
	active := models.PieceStatusActive
	updated, err := svc.UpdatePiece(piece.ID, &models.PieceUpdateRequest{
		LearnedPages: intPtr(12),
		TotalPages:   intPtr(12),
		Status:       &active,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PieceStatusCompleted, updated.Status)
}

func TestUpdatePiece_KeepsExplicitStatus(t *testing.T) {
	svc := NewPieceService(newTestDB(t))
	piece := createTestPiece(t, svc, "船歌", 8)

	onHold := models.PieceStatusOnHold
	updated, err := svc.UpdatePiece(piece.ID, &models.PieceUpdateRequest{
		Status: &onHold,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PieceStatusOnHold, updated.Status)
}

func TestUpdatePiece_NotFound(t *testing.T) {
	svc := NewPieceService(newTestDB(t))

	_, err := svc.UpdatePiece("no-such-id", &models.PieceUpdateRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateParentProgress_SumsChildren(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)

	parent := createTestPiece(t, svc, "平均律第一册", 0)
	child1 := models.Piece{Title: "前奏曲 No.1", Composer: "巴赫", TotalPages: 4, LearnedPages: 2, Status: models.PieceStatusActive, ParentID: &parent.ID, SortOrder: 1}
	child2 := models.Piece{Title: "赋格 No.1", Composer: "巴赫", TotalPages: 6, LearnedPages: 0, Status: models.PieceStatusNotStarted, ParentID: &parent.ID, SortOrder: 2}
	require.NoError(t, db.Create(&child1).Error)
	require.NoError(t, db.Create(&child2).Error)

	svc.UpdateParentProgress(parent.ID)

	got, err := svc.GetPiece(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TotalPages)
	assert.Equal(t, 2, got.LearnedPages)
	// 有进度且父曲目原本未开始，推进为学习中
	assert.Equal(t, models.PieceStatusActive, got.Status)
}

func TestUpdateParentProgress_AllChildrenCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)

	parent := createTestPiece(t, svc, "组曲", 0)
	for i, title := range []string{"第一乐章", "第二乐章"} {
		child := models.Piece{Title: title, Composer: "德彪西", TotalPages: 5, LearnedPages: 5, Status: models.PieceStatusCompleted, ParentID: &parent.ID, SortOrder: i + 1}
		require.NoError(t, db.Create(&child).Error)
	}

	svc.UpdateParentProgress(parent.ID)

	got, err := svc.GetPiece(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PieceStatusCompleted, got.Status)
	assert.Equal(t, 10, got.TotalPages)
	assert.Equal(t, 10, got.LearnedPages)
}

func TestUpdateParentProgress_DoesNotRegressStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)

	onHold := models.PieceStatusOnHold
	parent := createTestPiece(t, svc, "奏鸣曲", 0)
	_, err := svc.UpdatePiece(parent.ID, &models.PieceUpdateRequest{Status: &onHold})
	require.NoError(t, err)

	child := models.Piece{Title: "第一乐章", Composer: "莫扎特", TotalPages: 8, LearnedPages: 3, Status: models.PieceStatusActive, ParentID: &parent.ID}
	require.NoError(t, db.Create(&child).Error)

	svc.UpdateParentProgress(parent.ID)

	got, err := svc.GetPiece(parent.ID)
	require.NoError(t, err)
	// 搁置状态不被汇总回退或推进
	assert.Equal(t, models.PieceStatusOnHold, got.Status)
	assert.Equal(t, 8, got.TotalPages)
	assert.Equal(t, 3, got.LearnedPages)
}

func TestUpdateParentProgress_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)

	parent := createTestPiece(t, svc, "即兴曲集", 0)
	child := models.Piece{Title: "即兴曲 No.3", Composer: "舒伯特", TotalPages: 6, LearnedPages: 4, Status: models.PieceStatusActive, ParentID: &parent.ID}
	require.NoError(t, db.Create(&child).Error)

	svc.UpdateParentProgress(parent.ID)
	svc.UpdateParentProgress(parent.ID)

	got, err := svc.GetPiece(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.TotalPages)
	assert.Equal(t, 4, got.LearnedPages)
	assert.Equal(t, models.PieceStatusActive, got.Status)
}

func TestUpdateParentProgress_MissingParentIsNoop(t *testing.T) {
	svc := NewPieceService(newTestDB(t))

	// 不应 panic 或报错
	svc.UpdateParentProgress("no-such-id")
}

func TestUpdatePiece_ChildUpdateRefreshesParent(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)

	parent := createTestPiece(t, svc, "小品集", 0)
	child := models.Piece{Title: "小品 No.1", Composer: "格里格", TotalPages: 4, ParentID: &parent.ID, Status: models.PieceStatusNotStarted}
	require.NoError(t, db.Create(&child).Error)

	_, err := svc.UpdatePiece(child.ID, &models.PieceUpdateRequest{LearnedPages: intPtr(4)})
	require.NoError(t, err)

	got, err := svc.GetPiece(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalPages)
	assert.Equal(t, 4, got.LearnedPages)
	assert.Equal(t, models.PieceStatusCompleted, got.Status)
}

func TestSplitPiece(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)

	difficulty := "高级"
	piece, err := svc.CreatePiece(&models.PieceCreateRequest{
		Title:      "月光奏鸣曲",
		Composer:   "贝多芬",
		WorkNumber: strPtr("Op.27 No.2"),
		Genre:      strPtr("古典主义"),
		Difficulty: &difficulty,
	})
	require.NoError(t, err)

	result, err := svc.SplitPiece(piece.ID, &models.PieceSplitRequest{
		ParentTitle: strPtr("月光奏鸣曲（全三乐章）"),
		Children: []models.SplitChildRequest{
			{Title: "第一乐章"},
			{Title: "第二乐章"},
			{Title: "第三乐章", Difficulty: strPtr("演奏级")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "月光奏鸣曲（全三乐章）", result.Parent.Title)
	require.Len(t, result.Children, 3)

	for i, child := range result.Children {
		assert.Equal(t, "贝多芬", child.Composer)
		require.NotNil(t, child.WorkNumber)
		assert.Equal(t, "Op.27 No.2", *child.WorkNumber)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, piece.ID, *child.ParentID)
		assert.Equal(t, i+1, child.SortOrder)
		assert.Equal(t, models.PieceStatusNotStarted, child.Status)
	}

	// 未指定难度的子曲目继承父曲目难度
	require.NotNil(t, result.Children[0].Difficulty)
	assert.Equal(t, "高级", *result.Children[0].Difficulty)
	require.NotNil(t, result.Children[2].Difficulty)
	assert.Equal(t, "演奏级", *result.Children[2].Difficulty)

	detail, err := svc.GetPiece(piece.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Children, 3)
}

func TestSplitPiece_EmptyChildren(t *testing.T) {
	svc := NewPieceService(newTestDB(t))
	piece := createTestPiece(t, svc, "某曲", 0)

	_, err := svc.SplitPiece(piece.ID, &models.PieceSplitRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSplitPiece_NotFound(t *testing.T) {
	svc := NewPieceService(newTestDB(t))

	_, err := svc.SplitPiece("no-such-id", &models.PieceSplitRequest{
		Children: []models.SplitChildRequest{{Title: "x"}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePiece(t *testing.T) {
	svc := NewPieceService(newTestDB(t))
	piece := createTestPiece(t, svc, "待删除", 0)

	require.NoError(t, svc.DeletePiece(piece.ID))
	assert.ErrorIs(t, svc.DeletePiece(piece.ID), ErrNotFound)
}

func TestGetPieces_IncludesSessionCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)
	sessions := NewSessionService(db)

	piece := createTestPiece(t, svc, "勃拉姆斯间奏曲", 6)
	for i := 0; i < 3; i++ {
		_, err := sessions.CreateSession(&models.SessionCreateRequest{
			PieceID:  piece.ID,
			Duration: intPtr(30),
		})
		require.NoError(t, err)
	}

	items, err := svc.GetPieces()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].SessionCount)
}

// 完整走一遍：创建 → 练透 → 记录练习
func TestPieceLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewPieceService(db)
	sessions := NewSessionService(db)

	piece := createTestPiece(t, svc, "致爱丽丝", 3)

	updated, err := svc.UpdatePiece(piece.ID, &models.PieceUpdateRequest{LearnedPages: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, models.PieceStatusActive, updated.Status)

	updated, err = svc.UpdatePiece(piece.ID, &models.PieceUpdateRequest{LearnedPages: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, models.PieceStatusCompleted, updated.Status)

	_, err = sessions.CreateSession(&models.SessionCreateRequest{
		PieceID:  piece.ID,
		Duration: intPtr(45),
		Note:     strPtr("整曲过了两遍"),
	})
	require.NoError(t, err)

	detail, err := svc.GetPiece(piece.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.SessionCount)
	require.Len(t, detail.Sessions, 1)
	assert.Equal(t, 45, detail.Sessions[0].Duration)
}
