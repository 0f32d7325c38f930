package middleware

import (
	"strings"

	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// tokenFromRequest 按优先级获取 Token：Authorization -> token
func tokenFromRequest(c *gin.Context) string {
	if s, exist := c.GetQuery("authorization"); exist {
		return s
	}
	if s := c.GetHeader("Authorization"); len(s) != 0 {
		return strings.TrimSpace(strings.TrimPrefix(s, "Bearer "))
	}
	if s, exist := c.GetQuery("token"); exist {
		return s
	}
	return c.GetHeader("Token")
}

// UserAuthTokenWithConfig 用户 Token 认证中间件（使用注入的密钥）
func UserAuthTokenWithConfig(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := tokenFromRequest(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := app.ParseTokenWithKey(token, secretKey)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set(app.ContextKeyUser, user)
		c.Next()
	}
}
