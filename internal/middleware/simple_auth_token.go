package middleware

import (
	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// SimpleAuthTokenWithConfig guards the private listener with a static token.
// An empty authToken lets every request through.
// SimpleAuthTokenWithConfig 简单 Token 认证中间件（使用注入的配置）
func SimpleAuthTokenWithConfig(authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authToken == "" {
			c.Next()
			return
		}

		var token string
		if s, exist := c.GetQuery("authorization"); exist {
			token = s
		} else if s = c.GetHeader("Authorization"); len(s) != 0 {
			token = s
		}

		if token != authToken {
			app.NewResponse(c).ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Next()
	}
}
