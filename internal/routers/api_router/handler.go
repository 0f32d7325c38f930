// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/internal/middleware"
	pkgapp "github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	"github.com/haierkeys/fast-drive-service/pkg/logger"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind writes the invalid params response when binding fails.
func (h *Handler) bind(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(method+".BindAndValid errs", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// uid 获取当前用户 ID，未登录时写入错误响应
func (h *Handler) uid(c *gin.Context, method string) (int64, bool) {
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error(method + " err uid=0")
		pkgapp.NewResponse(c).ToResponse(code.ErrorNotUserAuthToken)
		return 0, false
	}
	return uid, true
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	)
}
