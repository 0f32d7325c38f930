package task

import (
	"context"

	"github.com/haierkeys/fast-drive-service/internal/app"
)

// DriveStatsTask refreshes the drive gauges.
type DriveStatsTask struct {
	app  *app.App
	spec string
}

func NewDriveStatsTask(appContainer *app.App) (Task, error) {
	spec := appContainer.Config().App.StatsRefreshSpec
	if spec == "" {
		return nil, nil
	}
	return &DriveStatsTask{app: appContainer, spec: spec}, nil
}

func (t *DriveStatsTask) Name() string       { return "DriveStats" }
func (t *DriveStatsTask) Spec() string       { return t.spec }
func (t *DriveStatsTask) IsStartupRun() bool { return true }

func (t *DriveStatsTask) Run(ctx context.Context) error {
	t.app.DriveService.RefreshStats()
	return nil
}

func init() {
	RegisterWithApp(NewDriveStatsTask)
}
