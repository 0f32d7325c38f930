package task

import (
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/pkg/safe_close"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器
func NewManager(lg *zap.Logger, sc *safe_close.SafeClose, appContainer *app.App) *Manager {
	return &Manager{
		scheduler: NewScheduler(lg, sc, appContainer.Config().GetContextTimeout()),
		logger:    lg,
		app:       appContainer,
	}
}

// RegisterTasks builds every registered task. A factory error disables only
// that task.
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.app)
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			continue
		}
		if t == nil {
			continue
		}
		if err := m.scheduler.AddTask(t); err != nil {
			m.logger.Warn("failed to schedule task", zap.Error(err))
		}
	}
	return nil
}

// Scheduler exposes the underlying scheduler.
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
