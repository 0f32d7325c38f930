package task

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/pkg/logger"
	"github.com/haierkeys/fast-drive-service/pkg/safe_close"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Spec() string                  // cron 表达式，支持 @every 1h 形式
	Run(ctx context.Context) error // 执行任务
	IsStartupRun() bool            // 是否立即执行一次
}

// Scheduler runs registered tasks on a cron. One task never overlaps itself.
// 任务调度器
type Scheduler struct {
	logger  *zap.Logger
	sc      *safe_close.SafeClose
	cron    *cron.Cron
	timeout time.Duration

	mu    sync.Mutex
	tasks []Task
	ids   map[string]cron.EntryID
}

// NewScheduler 创建任务调度器。timeout 为单次执行超时，0 表示不限制
func NewScheduler(lg *zap.Logger, sc *safe_close.SafeClose, timeout time.Duration) *Scheduler {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Scheduler{
		logger:  lg,
		sc:      sc,
		timeout: timeout,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ids:     make(map[string]cron.EntryID),
	}
}

// AddTask validates the spec of task and schedules it.
func (s *Scheduler) AddTask(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.ids[task.Name()]; dup {
		return errors.Errorf("task %s already registered", task.Name())
	}
	id, err := s.cron.AddFunc(task.Spec(), func() { s.runOnce(task, false) })
	if err != nil {
		return errors.Wrapf(err, "task %s: invalid spec %q", task.Name(), task.Spec())
	}
	s.ids[task.Name()] = id
	s.tasks = append(s.tasks, task)
	return nil
}

// Tasks returns the scheduled task names.
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Name())
	}
	return out
}

// Next returns the next activation of the named task.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.ids[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start starts the cron and stops it again on the close signal.
func (s *Scheduler) Start() {
	s.mu.Lock()
	tasks := append([]Task(nil), s.tasks...)
	s.mu.Unlock()

	if len(tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}
	s.logger.Info("tasks starting", zap.Int(logger.FieldCount, len(tasks)))

	for _, t := range tasks {
		if t.IsStartupRun() {
			go s.runOnce(t, true)
		}
	}
	s.cron.Start()

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		// 等待正在执行的任务结束
		<-s.cron.Stop().Done()
		s.logger.Info("tasks stopped")
	})
}

func (s *Scheduler) runOnce(task Task, startup bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String(logger.FieldTask, task.Name()),
				zap.Bool("startupRun", startup),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		s.logger.Error("task running error",
			zap.String(logger.FieldTask, task.Name()),
			zap.Bool("startupRun", startup),
			zap.Error(err))
		return
	}
	s.logger.Debug("task done",
		zap.String(logger.FieldTask, task.Name()),
		zap.Bool("startupRun", startup),
		zap.Duration(logger.FieldDuration, time.Since(start)))
}
