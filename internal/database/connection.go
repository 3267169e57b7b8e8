package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manwallet/88keys/internal/config"
	"github.com/manwallet/88keys/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func createDatabaseIfNotExists(cfg config.DatabaseConfig) error {
	defaultDSN := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=postgres sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(defaultDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	var exists bool
	checkSQL := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1)"
	if err := db.Raw(checkSQL, cfg.DBName).Scan(&exists).Error; err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		createSQL := fmt.Sprintf("CREATE DATABASE %s", cfg.DBName)
		if err := db.Exec(createSQL).Error; err != nil {
			return fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
		}
	}

	return nil
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.URL == "" {
			if err := createDatabaseIfNotExists(cfg.Database); err != nil {
				fmt.Printf("警告：创建数据库失败，尝试直接连接: %v\n", err)
			}
		}
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		if dir := filepath.Dir(cfg.Database.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Database.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.Driver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)

		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	DB = db
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Piece{},
		&models.PracticeSession{},
		&models.Lesson{},
		&models.LessonItem{},
		&models.LearningGoal{},
		&models.DailyPracticeItem{},
		&models.SystemSetting{},
		&models.AiSuggestion{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	if err := insertDefaultSettings(db); err != nil {
		return fmt.Errorf("failed to insert default settings: %w", err)
	}

	return nil
}

// insertDefaultSettings 仅补齐缺失的键，不覆盖已有配置
func insertDefaultSettings(db *gorm.DB) error {
	defaults := []models.SystemSetting{
		{Key: models.SettingLLMBaseURL, Value: ""},
		{Key: models.SettingLLMModel, Value: ""},
	}

	for _, setting := range defaults {
		var existing models.SystemSetting
		if err := db.Where("key = ?", setting.Key).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&setting).Error; err != nil {
					return err
				}
			} else {
				return err
			}
		}
	}

	return nil
}
