// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lxzan/gws"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/haierkeys/fast-drive-service/internal/dao"
	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/drive"
	"github.com/haierkeys/fast-drive-service/internal/metrics"
	"github.com/haierkeys/fast-drive-service/internal/service"
	pkgapp "github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/workerpool"
	"github.com/haierkeys/fast-drive-service/pkg/writequeue"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	UserRepo  domain.UserRepository
	DriveRepo domain.DriveRepository

	// Service 层
	UserService  service.UserService
	DriveService service.DriveService

	TokenManager pkgapp.TokenManager
	// Feed pushes drive change events to websocket subscribers.
	Feed      *pkgapp.WebsocketServer
	feedConns atomic.Int64

	StartTime time.Time

	// 关闭控制
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewApp 创建应用容器实例
// cfg、logger、db 均为必需
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	a.Dao = dao.New(db, logger, cfg.Database.AutoMigrate)

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    ServiceName,
		Expiry:    cfg.GetTokenExpiry(),
	})

	a.Feed = pkgapp.NewWebsocketServer(pkgapp.WSConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:  true,
			Recovery:          gws.Recovery,
			PermessageDeflate: gws.PermessageDeflate{Enabled: true},
			// the feed is push only, client frames are pings
			ReadMaxPayloadSize: 64 * 1024,
		},
		OnCountChange: func(delta int) {
			metrics.SetFeedConnections(int(a.feedConns.Add(int64(delta))))
		},
	}, logger)

	// Repository 层
	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.DriveRepo = dao.NewDriveRepository(a.writeQueueMgr, dao.NewMockSeeder(a.UserRepo, cfg.App.SeedMockDrive), logger)

	// Service 层
	svcConfig := cfg.ServiceConfig()
	a.UserService = service.NewUserService(a.UserRepo, a.TokenManager, logger, svcConfig)
	a.DriveService = service.NewDriveService(a.DriveRepo, drive.NewEditor(), a.workerPool, a.Feed, logger, svcConfig)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity),
		zap.Duration("trashRetention", svcConfig.App.TrashRetention))

	return a, nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// SeedAccounts registers the configured mock accounts.
func (a *App) SeedAccounts(ctx context.Context) error {
	accounts := a.config.GetMockAccounts()
	if len(accounts) == 0 {
		return nil
	}
	n, err := a.UserService.SeedAccounts(ctx, accounts)
	if err != nil {
		return fmt.Errorf("seed mock accounts: %w", err)
	}
	a.logger.Info("mock accounts ready", zap.Int("created", n), zap.Int("configured", len(accounts)))
	return nil
}

// Ping checks the user store connection.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// Worker Pool 与 Write Queue 并行排空，之后关闭数据库
func (a *App) Shutdown(ctx context.Context) error {
	first := false
	a.shutdownOnce.Do(func() {
		first = true
		close(a.shutdownCh)
	})
	if !first {
		return nil
	}
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.workerPool.Shutdown(gctx); err != nil {
			return fmt.Errorf("worker pool shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.writeQueueMgr.Shutdown(gctx); err != nil {
			return fmt.Errorf("write queue manager shutdown: %w", err)
		}
		return nil
	})
	drainErr := g.Wait()
	if drainErr != nil {
		a.logger.Warn("App container drain error", zap.Error(drainErr))
	}

	if err := a.Dao.Close(); err != nil {
		a.logger.Warn("Database close error", zap.Error(err))
		if drainErr == nil {
			return err
		}
	}

	if drainErr != nil {
		return drainErr
	}
	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}
