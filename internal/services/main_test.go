package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/manwallet/88keys/internal/config"
	"github.com/manwallet/88keys/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// 每个测试各自独立的内存库
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Piece{},
		&models.PracticeSession{},
		&models.Lesson{},
		&models.LessonItem{},
		&models.LearningGoal{},
		&models.DailyPracticeItem{},
		&models.SystemSetting{},
		&models.AiSuggestion{},
	)
	require.NoError(t, err)

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
