package task

import (
	"sync"

	"github.com/haierkeys/fast-drive-service/internal/app"
)

// TaskFactory builds a task from the application container. A nil task means
// the task is disabled by configuration.
// 任务工厂函数类型，返回 nil 表示任务被配置关闭
type TaskFactory func(appContainer *app.App) (Task, error)

var (
	taskRegistry  []TaskFactory
	registryMutex sync.RWMutex
)

// RegisterWithApp 注册任务工厂函数
// 通常在各个任务文件的 init() 函数中调用
func RegisterWithApp(factory TaskFactory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	taskRegistry = append(taskRegistry, factory)
}

// GetFactories returns a copy of the registered factories.
func GetFactories() []TaskFactory {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	factories := make([]TaskFactory, len(taskRegistry))
	copy(factories, taskRegistry)
	return factories
}
