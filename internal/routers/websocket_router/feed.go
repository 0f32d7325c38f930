// Package websocket_router 提供网盘变更推送的 WebSocket 路由
package websocket_router

import (
	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/internal/middleware"
	pkgapp "github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
)

// FeedStatus 当前用户的推送连接数
type FeedStatus struct {
	Connections int `json:"connections"`
}

// FeedWSHandler serves the drive change feed. Frames are the JSON encoded
// dto.FeedEvent of every committed mutation of the token user.
type FeedWSHandler struct {
	App *app.App
}

// NewFeedWSHandler 创建 FeedWSHandler 实例
func NewFeedWSHandler(a *app.App) *FeedWSHandler {
	return &FeedWSHandler{App: a}
}

// Subscribe upgrades the request and registers it with the feed.
// GET /api/drive/feed
func (h *FeedWSHandler) Subscribe() gin.HandlerFunc {
	return h.App.Feed.Run(middleware.GetTraceIDFromGin)
}

// Status 获取当前用户的推送连接数
// GET /api/drive/feed/status
func (h *FeedWSHandler) Status(c *gin.Context) {
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		pkgapp.NewResponse(c).ToResponse(code.ErrorNotUserAuthToken)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(FeedStatus{
		Connections: h.App.Feed.Count(uid),
	}))
}
