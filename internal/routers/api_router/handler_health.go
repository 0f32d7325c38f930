package api_router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/internal/app"
	pkgapp "github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	"github.com/haierkeys/fast-drive-service/pkg/util"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string       `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string       `json:"version"`  // 服务版本号
	Uptime   float64      `json:"uptime"`   // 运行时间（秒）
	Database string       `json:"database"` // "connected" 或 "error"
	Drives   int          `json:"drives"`   // 已加载的网盘数
	System   util.SysInfo `json:"system"`
}

// Check 健康检查接口，检查用户库连接并附带主机信息
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
		Drives:   len(h.App.DriveRepo.LoadedUIDs()),
		System:   util.GetSysInfo(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.App.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, pkgapp.Res{
			Code:    code.ErrorDBQuery.Code(),
			Status:  false,
			Message: code.ErrorDBQuery.MsgIn(pkgapp.GetLang(c)),
			Data:    resp,
		})
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(resp))
}
