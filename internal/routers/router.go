package routers

import (
	"time"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/internal/metrics"
	"github.com/haierkeys/fast-drive-service/internal/middleware"
	"github.com/haierkeys/fast-drive-service/internal/routers/api_router"
	"github.com/haierkeys/fast-drive-service/internal/routers/websocket_router"
	"github.com/haierkeys/fast-drive-service/pkg/limiter"
)

// newMethodLimiter 按路由前缀限流
func newMethodLimiter() limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          "/api/user/login",
			FillInterval: time.Second,
			Capacity:     10,
			Quantum:      10,
		},
		limiter.BucketRule{
			Key:          "/api/user/register",
			FillInterval: time.Second,
			Capacity:     5,
			Quantum:      5,
		},
		limiter.BucketRule{
			Key:          "/api/drive/upload",
			FillInterval: time.Second,
			Capacity:     20,
			Quantum:      20,
		},
	)
}

// NewRouter 创建对外 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddleware(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(metrics.GinMiddleware())
		api.Use(middleware.RateLimiter(newMethodLimiter()))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(lg))
		api.Use(middleware.RecoveryWithLogger(lg))

		userHandler := api_router.NewUserHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)
		driveHandler := api_router.NewDriveHandler(appContainer)
		feedHandler := websocket_router.NewFeedWSHandler(appContainer)

		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.GET("/version", versionHandler.ServerVersion)

		auth := api.Group("", middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey))
		auth.GET("/user/info", userHandler.UserInfo)

		d := auth.Group("/drive")
		{
			d.GET("", driveHandler.View)
			d.GET("/extensions", driveHandler.Extensions)
			d.GET("/path", driveHandler.Path)
			d.POST("/mode", driveHandler.SwitchMode)
			d.POST("/search", driveHandler.Search)
			d.POST("/open", driveHandler.Open)
			d.POST("/truncate", driveHandler.Truncate)
			d.PUT("/ui", driveHandler.SetUI)

			d.POST("/folder", driveHandler.CreateFolder)
			d.POST("/upload", driveHandler.Upload)
			d.PUT("/entry/rename", driveHandler.Rename)
			d.PUT("/entry/star", driveHandler.ToggleStar)
			d.PUT("/entry/color", driveHandler.SetColor)
			d.PUT("/entry/share", driveHandler.Share)
			d.DELETE("/entry", driveHandler.SoftDelete)
			d.PUT("/entry/restore", driveHandler.Restore)
			d.DELETE("/entry/permanent", driveHandler.PermanentlyDelete)
			d.DELETE("/trash", driveHandler.ClearTrash)

			d.GET("/feed", feedHandler.Subscribe())
			d.GET("/feed/status", feedHandler.Status)
		}
	}

	r.NoRoute(middleware.NoFound())

	return r
}
