package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/drive"
	"github.com/haierkeys/fast-drive-service/pkg/timex"
	"github.com/haierkeys/fast-drive-service/pkg/writequeue"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type: "sqlite",
		Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	require.NoError(t, err)
	d := New(db, nil, true)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDao(t))

	u, err := repo.Register(ctx, &domain.User{Email: " You@Example.com ", Username: "you", Password: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, u.UID)
	assert.Equal(t, "you@example.com", u.Email)

	got, err := repo.FindByEmail(ctx, "YOU@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.UID, got.UID)

	got, err = repo.FindByUsername(ctx, "you")
	require.NoError(t, err)
	assert.Equal(t, u.UID, got.UID)

	got, err = repo.FindByUID(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Password)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.Register(ctx, &domain.User{Email: "you@example.com", Username: "other"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	_, err = repo.Register(ctx, &domain.User{Email: "new@example.com", Username: "you"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	u2, err := repo.Register(ctx, &domain.User{Email: "second@example.com", Username: "second"})
	require.NoError(t, err)
	uids, err := repo.ListUIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{u.UID, u2.UID}, uids)
}

func TestDialector_Unsupported(t *testing.T) {
	_, err := dialector(DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}

type fixedSeeder struct {
	calls int
	mu    sync.Mutex
}

func (s *fixedSeeder) Seed(ctx context.Context, uid int64) (*drive.Collection, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return drive.NewCollection([]drive.Entry{
		drive.NewFolder("f1", drive.RootID, "Docs", timex.Date{Year: 2026, Month: time.March, Day: 1}),
	}), nil
}

func newTestDriveRepo(t *testing.T, seeder domain.DriveSeeder) domain.DriveRepository {
	t.Helper()
	wq := writequeue.New(nil, nil)
	t.Cleanup(func() { _ = wq.Shutdown(context.Background()) })
	return NewDriveRepository(wq, seeder, nil)
}

func TestDriveRepository_LoadSeedsOnce(t *testing.T) {
	seeder := &fixedSeeder{}
	repo := newTestDriveRepo(t, seeder)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := repo.Load(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, int64(1), s.Version)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, seeder.calls)
	assert.Equal(t, []int64{1}, repo.LoadedUIDs())
}

func TestDriveRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := newTestDriveRepo(t, &fixedSeeder{})
	ed := drive.NewEditor()

	snap, changed, err := repo.Update(ctx, 1, func(c *drive.Collection) (*drive.Collection, error) {
		return ed.Rename(c, "f1", "Papers"), nil
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(2), snap.Version)
	e, _ := snap.Collection.Get("f1")
	assert.Equal(t, "Papers", e.Name)

	// no-op keeps the version
	snap, changed, err = repo.Update(ctx, 1, func(c *drive.Collection) (*drive.Collection, error) {
		return ed.Rename(c, "missing", "x"), nil
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int64(2), snap.Version)

	snap, changed, err = repo.Update(ctx, 1, func(c *drive.Collection) (*drive.Collection, error) {
		return ed.UpdateSharing(c, "missing", "", nil)
	})
	assert.ErrorIs(t, err, drive.ErrEntryNotFound)
	assert.False(t, changed)
	assert.Equal(t, int64(2), snap.Version)

	st := repo.Stats()
	assert.Equal(t, domain.DriveStats{Drives: 1, Live: 1}, st)
}

func TestDriveRepository_ConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	repo := newTestDriveRepo(t, nil)
	ed := drive.NewEditor()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := repo.Update(ctx, 9, func(c *drive.Collection) (*drive.Collection, error) {
				next, _ := ed.CreateFolder(c, fmt.Sprintf("f%d", i), drive.RootID)
				return next, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := repo.Load(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 25, snap.Collection.Len())
	assert.Equal(t, int64(26), snap.Version)
}

func TestMockSeeder(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(newTestDao(t))
	u, err := users.Register(ctx, &domain.User{Email: "owner@example.com", Username: "owner"})
	require.NoError(t, err)

	seeder := NewMockSeeder(users, true)
	seeder.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	c, err := seeder.Seed(ctx, u.UID)
	require.NoError(t, err)
	require.Greater(t, c.Len(), 10)

	shared := drive.Resolve(c, drive.Query{Mode: drive.ModeShared, Viewer: "owner@example.com"})
	names := make([]string, 0, len(shared))
	for _, e := range shared {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Team Shared", "Roadmap.pptx"}, names)

	// every entry in a trashed folder is trashed as well
	for _, e := range c.Entries() {
		if !e.IsTrashed() || !e.IsFolder() {
			continue
		}
		for _, id := range c.Subtree(e.ID) {
			child, _ := c.Get(id)
			assert.True(t, child.IsTrashed(), child.Name)
		}
	}

	// paths resolve for every seeded entry
	for _, e := range c.Entries() {
		_, err := drive.PathTo(c, e.ID)
		assert.NoError(t, err, e.Name)
	}

	empty, err := NewMockSeeder(users, false).Seed(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}
