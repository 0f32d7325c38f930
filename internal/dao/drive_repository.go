package dao

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/drive"
	"github.com/haierkeys/fast-drive-service/pkg/writequeue"
)

// driveRepository keeps one immutable snapshot per user in memory. Readers
// take the current pointer; writers go through the user's write queue.
type driveRepository struct {
	wq     *writequeue.Manager
	seeder domain.DriveSeeder
	logger *zap.Logger

	mu     sync.RWMutex
	drives map[int64]domain.Snapshot

	seeding singleflight.Group
}

// NewDriveRepository 创建内存网盘仓储
func NewDriveRepository(wq *writequeue.Manager, seeder domain.DriveSeeder, logger *zap.Logger) domain.DriveRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &driveRepository{
		wq:     wq,
		seeder: seeder,
		logger: logger,
		drives: make(map[int64]domain.Snapshot),
	}
}

func (r *driveRepository) current(uid int64) (domain.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.drives[uid]
	return s, ok
}

// Load 获取用户网盘当前快照，首次访问时填充初始数据
func (r *driveRepository) Load(ctx context.Context, uid int64) (domain.Snapshot, error) {
	if s, ok := r.current(uid); ok {
		return s, nil
	}

	v, err, _ := r.seeding.Do(strconv.FormatInt(uid, 10), func() (any, error) {
		if s, ok := r.current(uid); ok {
			return s, nil
		}
		c := drive.NewCollection(nil)
		if r.seeder != nil {
			seeded, err := r.seeder.Seed(ctx, uid)
			if err != nil {
				return nil, err
			}
			c = seeded
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if s, ok := r.drives[uid]; ok {
			return s, nil
		}
		s := domain.Snapshot{Collection: c, Version: 1}
		r.drives[uid] = s
		r.logger.Debug("drive loaded", zap.Int64("uid", uid), zap.Int("entries", c.Len()))
		return s, nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return v.(domain.Snapshot), nil
}

// Update 在用户写队列中执行变更并提交结果
func (r *driveRepository) Update(ctx context.Context, uid int64, fn domain.MutateFunc) (domain.Snapshot, bool, error) {
	if _, err := r.Load(ctx, uid); err != nil {
		return domain.Snapshot{}, false, err
	}

	type result struct {
		snap    domain.Snapshot
		changed bool
	}
	var res result

	err := r.wq.Execute(ctx, uid, func() error {
		cur, _ := r.current(uid)
		next, err := fn(cur.Collection)
		if err != nil {
			return err
		}
		if next == nil || next == cur.Collection {
			res = result{snap: cur}
			return nil
		}

		s := domain.Snapshot{Collection: next, Version: cur.Version + 1}
		r.mu.Lock()
		r.drives[uid] = s
		r.mu.Unlock()
		res = result{snap: s, changed: true}
		return nil
	})
	if err != nil {
		// res may still be written by a write that outlived its caller
		snap, _ := r.current(uid)
		return snap, false, err
	}
	return res.snap, res.changed, nil
}

// LoadedUIDs 返回内存中已加载网盘的用户
func (r *driveRepository) LoadedUIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uids := make([]int64, 0, len(r.drives))
	for uid := range r.drives {
		uids = append(uids, uid)
	}
	return uids
}

func (r *driveRepository) Stats() domain.DriveStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := domain.DriveStats{Drives: len(r.drives)}
	for _, s := range r.drives {
		for _, e := range s.Collection.Entries() {
			if e.IsTrashed() {
				st.Trashed++
			} else {
				st.Live++
			}
		}
	}
	return st
}

var _ domain.DriveRepository = (*driveRepository)(nil)
