package services

import (
	"github.com/manwallet/88keys/internal/config"
	"github.com/manwallet/88keys/internal/llm"
	"github.com/manwallet/88keys/internal/models"
	"github.com/manwallet/88keys/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService 键值形式的系统设置，包括管理员密码和 LLM 连接参数
type SettingsService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSettingsService(db *gorm.DB, cfg *config.Config) *SettingsService {
	return &SettingsService{db: db, cfg: cfg}
}

func (s *SettingsService) Get(key string) (string, error) {
	var setting models.SystemSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingsService) Set(key, value string) error {
	setting := models.SystemSetting{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// IsInitialized 管理员密码已设置即视为系统已初始化
func (s *SettingsService) IsInitialized() (bool, error) {
	hash, err := s.Get(models.SettingAdminPasswordHash)
	if err != nil {
		return false, err
	}
	return hash != "", nil
}

// LLMConfig 数据库设置优先，环境/配置文件作为兜底
func (s *SettingsService) LLMConfig() (llm.Config, error) {
	cfg := llm.Config{
		BaseURL: s.cfg.LLM.BaseURL,
		Model:   s.cfg.LLM.Model,
		APIKey:  s.cfg.LLM.APIKey,
	}

	if baseURL, err := s.Get(models.SettingLLMBaseURL); err != nil {
		return cfg, err
	} else if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if model, err := s.Get(models.SettingLLMModel); err != nil {
		return cfg, err
	} else if model != "" {
		cfg.Model = model
	}

	if apiKey, err := s.Get(models.SettingLLMAPIKey); err != nil {
		return cfg, err
	} else if apiKey != "" {
		cfg.APIKey = apiKey
	}

	return cfg, nil
}

// MaskedSettings 返回给前端的设置视图，永远不包含 API Key 本身
func (s *SettingsService) MaskedSettings() (*models.SettingsResponse, error) {
	baseURL, err := s.Get(models.SettingLLMBaseURL)
	if err != nil {
		return nil, err
	}
	model, err := s.Get(models.SettingLLMModel)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.Get(models.SettingLLMAPIKey)
	if err != nil {
		return nil, err
	}

	return &models.SettingsResponse{
		LLMBaseURL: baseURL,
		LLMModel:   model,
		HasAPIKey:  apiKey != "",
	}, nil
}

func (s *SettingsService) UpdateSettings(req *models.SettingsUpdateRequest) error {
	if req.LLMBaseURL != nil {
		if err := s.Set(models.SettingLLMBaseURL, *req.LLMBaseURL); err != nil {
			return err
		}
	}
	if req.LLMModel != nil {
		if err := s.Set(models.SettingLLMModel, *req.LLMModel); err != nil {
			return err
		}
	}
	// 空字符串不覆盖已保存的 Key
	if req.LLMAPIKey != nil && *req.LLMAPIKey != "" {
		if err := s.Set(models.SettingLLMAPIKey, *req.LLMAPIKey); err != nil {
			return err
		}
	}

	if req.NewPassword != nil && *req.NewPassword != "" {
		hash, err := utils.HashPassword(*req.NewPassword)
		if err != nil {
			return err
		}
		if err := s.Set(models.SettingAdminPasswordHash, hash); err != nil {
			return err
		}
	}

	return nil
}
