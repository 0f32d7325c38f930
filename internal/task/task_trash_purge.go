package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/pkg/logger"
)

// TrashPurgeTask permanently deletes trashed subtrees older than the
// configured retention.
// 回收站过期清理任务
type TrashPurgeTask struct {
	app    *app.App
	logger *zap.Logger
	spec   string
	now    func() time.Time
}

// NewTrashPurgeTask returns nil when trash is kept forever.
func NewTrashPurgeTask(appContainer *app.App) (Task, error) {
	cfg := appContainer.Config()
	if cfg.GetTrashRetention() <= 0 {
		appContainer.Logger().Info("trash purge task is disabled (retention not configured)")
		return nil, nil
	}
	return &TrashPurgeTask{
		app:    appContainer,
		logger: appContainer.Logger(),
		spec:   cfg.App.TrashPurgeSpec,
		now:    time.Now,
	}, nil
}

func (t *TrashPurgeTask) Name() string {
	return "TrashPurge"
}

func (t *TrashPurgeTask) Spec() string {
	return t.spec
}

func (t *TrashPurgeTask) IsStartupRun() bool {
	return true
}

// Run 执行清理
func (t *TrashPurgeTask) Run(ctx context.Context) error {
	n, err := t.app.DriveService.PurgeExpiredTrash(ctx, t.now())
	if err != nil {
		return err
	}
	if n > 0 {
		t.logger.Info(t.Name()+" completed", zap.Int(logger.FieldCount, n))
	}
	return nil
}

func init() {
	RegisterWithApp(NewTrashPurgeTask)
}
