// internal/services/auth_service.go
package services

import (
	"github.com/manwallet/88keys/internal/models"
	"github.com/manwallet/88keys/internal/utils"
)

// AuthService 单管理员认证：首次初始化设置密码，之后仅凭密码登录
type AuthService struct {
	settings *SettingsService
}

func NewAuthService(settings *SettingsService) *AuthService {
	return &AuthService{settings: settings}
}

// Setup 仅允许在系统未初始化时执行一次
func (s *AuthService) Setup(password string) error {
	initialized, err := s.settings.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return s.settings.Set(models.SettingAdminPasswordHash, hash)
}

func (s *AuthService) Login(password string) error {
	hash, err := s.settings.Get(models.SettingAdminPasswordHash)
	if err != nil {
		return err
	}
	if hash == "" {
		return ErrNotInitialized
	}

	if !utils.VerifyPassword(password, hash) {
		return ErrInvalidPassword
	}

	return nil
}
