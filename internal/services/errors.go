package services

import "errors"

// 服务层错误分类，由 handler 统一映射为 HTTP 状态
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrConflict           = errors.New("记录已存在")
	ErrInvalidInput       = errors.New("参数无效")
	ErrAlreadyInitialized = errors.New("系统已初始化")
	ErrNotInitialized     = errors.New("系统未初始化")
	ErrInvalidPassword    = errors.New("密码错误")
	ErrLLMNotConfigured   = errors.New("请先在设置中配置 LLM API")
)
