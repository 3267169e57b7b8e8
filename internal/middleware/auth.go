// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/manwallet/88keys/internal/config"
	"github.com/manwallet/88keys/internal/utils"

	"github.com/gin-gonic/gin"
)

// SessionCookieName 会话 Cookie 名称
const SessionCookieName = "session"

// AuthMiddleware 校验会话令牌。无论缺失、过期还是被篡改，
// 对外统一返回未授权
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token, cfg.JWT.Secret)
		if err != nil {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set("role", claims.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	// 优先从会话 Cookie 获取
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}

	// 兼容 Authorization header
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return ""
}
