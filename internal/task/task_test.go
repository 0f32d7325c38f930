package task

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/internal/dao"
	"github.com/haierkeys/fast-drive-service/pkg/safe_close"
)

type fakeTask struct {
	name    string
	spec    string
	startup bool
	runs    atomic.Int32
	ran     chan struct{}
	panics  bool
}

func newFakeTask(name, spec string, startup bool) *fakeTask {
	return &fakeTask{name: name, spec: spec, startup: startup, ran: make(chan struct{}, 8)}
}

func (f *fakeTask) Name() string       { return f.name }
func (f *fakeTask) Spec() string       { return f.spec }
func (f *fakeTask) IsStartupRun() bool { return f.startup }
func (f *fakeTask) Run(ctx context.Context) error {
	f.runs.Add(1)
	f.ran <- struct{}{}
	if f.panics {
		panic("boom")
	}
	return nil
}

func TestScheduler_AddTask(t *testing.T) {
	s := NewScheduler(zap.NewNop(), safe_close.NewSafeClose(), 0)

	require.NoError(t, s.AddTask(newFakeTask("a", "@every 1h", false)))
	assert.Error(t, s.AddTask(newFakeTask("a", "@every 1h", false)), "duplicate name")
	assert.Error(t, s.AddTask(newFakeTask("b", "not a spec", false)))
	require.NoError(t, s.AddTask(newFakeTask("c", "*/5 * * * *", false)))

	assert.Equal(t, []string{"a", "c"}, s.Tasks())
	_, ok := s.Next("b")
	assert.False(t, ok)
}

func TestScheduler_StartupRunAndStop(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, time.Second)

	startup := newFakeTask("startup", "@every 1h", true)
	panicky := newFakeTask("panicky", "@every 1h", true)
	panicky.panics = true
	idle := newFakeTask("idle", "@every 1h", false)
	for _, f := range []*fakeTask{startup, panicky, idle} {
		require.NoError(t, s.AddTask(f))
	}
	s.Start()

	for _, f := range []*fakeTask{startup, panicky} {
		select {
		case <-f.ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s did not run at startup", f.name)
		}
	}
	assert.Zero(t, idle.runs.Load())

	next, ok := s.Next("idle")
	require.True(t, ok)
	assert.True(t, next.After(time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, sc.Close(ctx))
}

func TestScheduler_NoTasks(t *testing.T) {
	sc := safe_close.NewSafeClose()
	NewScheduler(nil, sc, 0).Start()
	assert.NoError(t, sc.Close(context.Background()))
}

func newTestApp(t *testing.T, extra string) *app.App {
	t.Helper()
	raw := fmt.Sprintf(`
database:
  path: "file:%s?mode=memory&cache=shared"
user:
  mock-accounts:
    - email: owner@example.com
      password: password
%s`, strings.ReplaceAll(t.Name(), "/", "_"), extra)
	cfg, err := app.ParseConfig([]byte(raw))
	require.NoError(t, err)
	db, err := dao.NewDBEngineWithConfig(cfg.DaoConfig(), nil)
	require.NoError(t, err)
	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestManager_RegisterTasks(t *testing.T) {
	a := newTestApp(t, "")
	m := NewManager(zap.NewNop(), safe_close.NewSafeClose(), a)
	require.NoError(t, m.RegisterTasks())
	assert.ElementsMatch(t, []string{"TrashPurge", "DriveStats"}, m.Scheduler().Tasks())
}

func TestManager_RetentionDisabled(t *testing.T) {
	a := newTestApp(t, `
app:
  trash-retention: "0"
  stats-refresh-spec: "@every 5m"
`)
	m := NewManager(zap.NewNop(), safe_close.NewSafeClose(), a)
	require.NoError(t, m.RegisterTasks())
	assert.Equal(t, []string{"DriveStats"}, m.Scheduler().Tasks())
}

func TestTrashPurgeTask_Run(t *testing.T) {
	a := newTestApp(t, "")
	require.NoError(t, a.SeedAccounts(context.Background()))

	task, err := NewTrashPurgeTask(a)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "@every 1h", task.Spec())

	// nothing loaded yet, so nothing to purge
	assert.NoError(t, task.Run(context.Background()))

	stats, err := NewDriveStatsTask(a)
	require.NoError(t, err)
	assert.NoError(t, stats.Run(context.Background()))
}
