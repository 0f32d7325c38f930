package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件
func RecoveryWithLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			var errorMsg string
			fields := []zap.Field{
				zap.String("router", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String("traceId", GetTraceIDFromGin(c)),
				zap.String("stack", string(debug.Stack())),
			}
			switch v := r.(type) {
			case error:
				errorMsg = v.Error()
				logger.Error("Recovered from panic", append(fields, zap.Error(v))...)
			case string:
				errorMsg = v
				logger.Error("Recovered from panic", append(fields, zap.String("panic_value", v))...)
			default:
				// 其它类型的 panic
				logger.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", fmt.Sprintf("%v", v)))...)
			}

			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(errorMsg))
			c.Abort()
		}()

		c.Next()
	}
}
