package models

import "time"

// 系统设置键
const (
	SettingAdminPasswordHash = "admin_password_hash"
	SettingLLMBaseURL        = "llm_base_url"
	SettingLLMModel          = "llm_model"
	SettingLLMAPIKey         = "llm_api_key"
)

type SystemSetting struct {
	Key       string    `json:"key" gorm:"primaryKey;size:100"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SettingsResponse struct {
	LLMBaseURL string `json:"llmBaseUrl"`
	LLMModel   string `json:"llmModel"`
	HasAPIKey  bool   `json:"hasApiKey"`
}

type SettingsUpdateRequest struct {
	LLMBaseURL  *string `json:"llmBaseUrl"`
	LLMModel    *string `json:"llmModel"`
	LLMAPIKey   *string `json:"llmApiKey"`
	NewPassword *string `json:"newPassword" validate:"omitempty,min=6"`
}

type SetupRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}
