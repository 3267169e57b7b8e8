package services

import (
	"testing"
	"time"

	"github.com/manwallet/88keys/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLesson_WithItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	pieces := NewPieceService(db)

	p1 := createTestPiece(t, pieces, "夜曲", 4)
	p2 := createTestPiece(t, pieces, "练习曲", 8)

	date := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	lesson, err := svc.CreateLesson(&models.LessonCreateRequest{
		Teacher:  "王老师",
		Date:     &date,
		Duration: intPtr(45),
		Notes:    strPtr("重点讲了踏板"),
		PieceIDs: []string{p1.ID, p2.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "王老师", lesson.Teacher)
	assert.Equal(t, 45, lesson.Duration)
	require.Len(t, lesson.Items, 2)
	require.NotNil(t, lesson.Items[0].Piece)
}

func TestCreateLesson_DefaultDuration(t *testing.T) {
	svc := NewLessonService(newTestDB(t))

	lesson, err := svc.CreateLesson(&models.LessonCreateRequest{Teacher: "李老师"})
	require.NoError(t, err)
	assert.Equal(t, 60, lesson.Duration)
	assert.Empty(t, lesson.Items)
}

func TestGetLessons_OrderedAndCounted(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	pieces := NewPieceService(db)

	p := createTestPiece(t, pieces, "曲目", 4)

	older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateLesson(&models.LessonCreateRequest{Teacher: "早课", Date: &older})
	require.NoError(t, err)
	_, err = svc.CreateLesson(&models.LessonCreateRequest{Teacher: "晚课", Date: &newer, PieceIDs: []string{p.ID}})
	require.NoError(t, err)

	lessons, err := svc.GetLessons()
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "晚课", lessons[0].Teacher)
	assert.Equal(t, 1, lessons[0].ItemCount)
	assert.Equal(t, 0, lessons[1].ItemCount)
}

func TestDeleteLesson_RemovesItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	pieces := NewPieceService(db)

	p := createTestPiece(t, pieces, "曲目", 4)
	lesson, err := svc.CreateLesson(&models.LessonCreateRequest{
		Teacher:  "王老师",
		PieceIDs: []string{p.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLesson(lesson.ID))

	// 关联条目随之清除
	var count int64
	require.NoError(t, db.Model(&models.LessonItem{}).Where("lesson_id = ?", lesson.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteLesson_NotFound(t *testing.T) {
	svc := NewLessonService(newTestDB(t))
	assert.ErrorIs(t, svc.DeleteLesson("no-such-id"), ErrNotFound)
}
