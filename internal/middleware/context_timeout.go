package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
)

// ContextTimeout bounds the request context. A handler that ran out of time
// without writing a response gets ErrorRequestTimeout.
// ContextTimeout 设置请求上下文超时
func ContextTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			app.NewResponse(c).ToResponse(code.ErrorRequestTimeout)
		}
	}
}
