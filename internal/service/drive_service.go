package service

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/drive"
	"github.com/haierkeys/fast-drive-service/internal/dto"
	"github.com/haierkeys/fast-drive-service/internal/metrics"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	"github.com/haierkeys/fast-drive-service/pkg/logger"
	"github.com/haierkeys/fast-drive-service/pkg/workerpool"
)

// Feed event types.
const (
	EventCreated      = "created"
	EventUploaded     = "uploaded"
	EventAccessed     = "accessed"
	EventRenamed      = "renamed"
	EventStarred      = "starred"
	EventColored      = "colored"
	EventShared       = "shared"
	EventTrashed      = "trashed"
	EventRestored     = "restored"
	EventDeleted      = "deleted"
	EventTrashCleared = "trash_cleared"
	EventPurged       = "purged"
)

// FeedPublisher delivers encoded change events to the subscribers of uid.
type FeedPublisher interface {
	Broadcast(uid int64, payload []byte) int
}

// DriveService 网盘业务服务接口
// viewer is the email of the acting user; it selects the shared view and
// guards against self shares.
type DriveService interface {
	// navigation and queries
	View(ctx context.Context, uid int64, viewer string) (*dto.DriveViewDTO, error)
	Extensions(ctx context.Context, uid int64) ([]string, error)
	PathTo(ctx context.Context, uid int64, id string) ([]drive.Crumb, error)
	SwitchMode(ctx context.Context, uid int64, viewer string, params *dto.DriveModeRequest) (*dto.DriveViewDTO, error)
	Search(ctx context.Context, uid int64, viewer string, params *dto.DriveSearchRequest) (*dto.DriveViewDTO, error)
	Open(ctx context.Context, uid int64, viewer string, params *dto.DriveEntryRequest) (*dto.OpenResultDTO, error)
	Truncate(ctx context.Context, uid int64, viewer string, params *dto.DriveTruncateRequest) (*dto.DriveViewDTO, error)
	SetUI(ctx context.Context, uid int64, viewer string, params *dto.DriveUIRequest) (*dto.DriveViewDTO, error)

	// mutations
	CreateFolder(ctx context.Context, uid int64, params *dto.DriveFolderCreateRequest) (*dto.EntryDTO, error)
	Upload(ctx context.Context, uid int64, params *dto.DriveUploadRequest) ([]*dto.EntryDTO, error)
	Rename(ctx context.Context, uid int64, params *dto.DriveRenameRequest) (*dto.EntryDTO, error)
	ToggleStar(ctx context.Context, uid int64, params *dto.DriveEntryRequest) (*dto.EntryDTO, error)
	SetColor(ctx context.Context, uid int64, params *dto.DriveColorRequest) (*dto.EntryDTO, error)
	UpdateSharing(ctx context.Context, uid int64, viewer string, params *dto.DriveShareRequest) (*dto.EntryDTO, error)
	SoftDelete(ctx context.Context, uid int64, params *dto.DriveEntryRequest) ([]string, error)
	Restore(ctx context.Context, uid int64, params *dto.DriveEntryRequest) ([]string, error)
	PermanentlyDelete(ctx context.Context, uid int64, params *dto.DriveEntryRequest) ([]string, error)
	ClearTrash(ctx context.Context, uid int64) (*dto.ClearTrashDTO, error)

	// PurgeExpiredTrash drops entries trashed longer than the retention in
	// every loaded drive and returns how many were removed.
	PurgeExpiredTrash(ctx context.Context, now time.Time) (int, error)
	// RefreshStats publishes the drive gauges.
	RefreshStats()
}

type session struct {
	mu  sync.Mutex
	nav *drive.Navigator
}

type driveService struct {
	repo   domain.DriveRepository
	editor *drive.Editor
	pool   *workerpool.Pool
	feed   FeedPublisher
	logger *zap.Logger
	config *ServiceConfig

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewDriveService 创建 DriveService 实例，pool 与 feed 可为 nil
func NewDriveService(repo domain.DriveRepository, editor *drive.Editor, pool *workerpool.Pool, feed FeedPublisher, lg *zap.Logger, config *ServiceConfig) DriveService {
	if editor == nil {
		editor = drive.NewEditor()
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	if config == nil {
		config = &ServiceConfig{}
	}
	return &driveService{
		repo:     repo,
		editor:   editor,
		pool:     pool,
		feed:     feed,
		logger:   lg,
		config:   config,
		sessions: make(map[int64]*session),
	}
}

func (s *driveService) session(uid int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.sessions[uid]
	if !ok {
		ss = &session{nav: drive.NewNavigator()}
		s.sessions[uid] = ss
	}
	return ss
}

func (s *driveService) load(ctx context.Context, uid int64) (domain.Snapshot, error) {
	snap, err := s.repo.Load(ctx, uid)
	if err != nil {
		s.logger.Error("load drive failed", zap.Int64(logger.FieldUID, uid), zap.Error(err))
		return snap, driveCode(err)
	}
	return snap, nil
}

func (s *driveService) view(snap domain.Snapshot, nav *drive.Navigator, viewer string) *dto.DriveViewDTO {
	return &dto.DriveViewDTO{
		State:   nav.State(),
		Entries: dto.NewEntryDTOs(drive.Resolve(snap.Collection, nav.Query(viewer))),
		Version: snap.Version,
	}
}

// withSession runs fn on the navigator of uid with the current snapshot and
// returns the resulting view.
func (s *driveService) withSession(ctx context.Context, uid int64, viewer string, fn func(c *drive.Collection, nav *drive.Navigator) error) (*dto.DriveViewDTO, error) {
	ss := s.session(uid)
	ss.mu.Lock()
	defer ss.mu.Unlock()

	snap, err := s.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(snap.Collection, ss.nav); err != nil {
			return nil, driveCode(err)
		}
	}
	return s.view(snap, ss.nav, viewer), nil
}

// View 获取当前导航状态与可见条目
func (s *driveService) View(ctx context.Context, uid int64, viewer string) (*dto.DriveViewDTO, error) {
	return s.withSession(ctx, uid, viewer, nil)
}

// Extensions 列出网盘中出现过的文件扩展名
func (s *driveService) Extensions(ctx context.Context, uid int64) ([]string, error) {
	snap, err := s.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	return drive.Extensions(snap.Collection), nil
}

// PathTo 获取条目的祖先路径
func (s *driveService) PathTo(ctx context.Context, uid int64, id string) ([]drive.Crumb, error) {
	snap, err := s.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	path, err := drive.PathTo(snap.Collection, id)
	if err != nil {
		return nil, driveCode(err)
	}
	return path, nil
}

func (s *driveService) SwitchMode(ctx context.Context, uid int64, viewer string, params *dto.DriveModeRequest) (*dto.DriveViewDTO, error) {
	mode, err := drive.ParseMode(params.Mode)
	if err != nil {
		return nil, driveCode(err)
	}
	return s.withSession(ctx, uid, viewer, func(_ *drive.Collection, nav *drive.Navigator) error {
		return nav.SwitchMode(mode)
	})
}

// Search sets both the query and the type filter.
func (s *driveService) Search(ctx context.Context, uid int64, viewer string, params *dto.DriveSearchRequest) (*dto.DriveViewDTO, error) {
	return s.withSession(ctx, uid, viewer, func(_ *drive.Collection, nav *drive.Navigator) error {
		nav.SetSearch(params.Search)
		nav.SetTypeFilter(params.Type)
		return nil
	})
}

func (s *driveService) Truncate(ctx context.Context, uid int64, viewer string, params *dto.DriveTruncateRequest) (*dto.DriveViewDTO, error) {
	return s.withSession(ctx, uid, viewer, func(_ *drive.Collection, nav *drive.Navigator) error {
		return nav.TruncateTo(*params.Index)
	})
}

func (s *driveService) SetUI(ctx context.Context, uid int64, viewer string, params *dto.DriveUIRequest) (*dto.DriveViewDTO, error) {
	return s.withSession(ctx, uid, viewer, func(_ *drive.Collection, nav *drive.Navigator) error {
		nav.SetUI(drive.UIState{
			Modal:       drive.Modal(params.Modal),
			MenuEntryID: params.MenuEntryID,
			RenamingID:  params.RenamingID,
		})
		return nil
	})
}

// Open records the access and navigates into folders where the view allows.
// 打开条目：更新访问时间，文件夹在允许的视图中进入
func (s *driveService) Open(ctx context.Context, uid int64, viewer string, params *dto.DriveEntryRequest) (*dto.OpenResultDTO, error) {
	ss := s.session(uid)
	ss.mu.Lock()
	defer ss.mu.Unlock()

	snap, err := s.mutate(ctx, uid, EventAccessed, []string{params.ID}, func(c *drive.Collection) (*drive.Collection, error) {
		if !c.Has(params.ID) {
			return c, drive.ErrEntryNotFound
		}
		return s.editor.TouchAccess(c, params.ID), nil
	})
	if err != nil {
		return nil, err
	}

	e, _ := snap.Collection.Get(params.ID)
	navigated, err := ss.nav.Open(snap.Collection, e)
	if err != nil {
		return nil, driveCode(err)
	}
	return &dto.OpenResultDTO{
		Entry:     dto.NewEntryDTO(e),
		Navigated: navigated,
		View:      s.view(snap, ss.nav, viewer),
	}, nil
}

// mutate commits fn for uid and publishes a feed event when a new version
// was committed.
func (s *driveService) mutate(ctx context.Context, uid int64, action string, ids []string, fn domain.MutateFunc) (domain.Snapshot, error) {
	snap, changed, err := s.repo.Update(ctx, uid, fn)
	if err != nil {
		metrics.RecordMutation(action, false)
		s.logger.Debug("drive mutation rejected",
			zap.Int64(logger.FieldUID, uid),
			zap.String(logger.FieldAction, action),
			zap.Error(err))
		return snap, driveCode(err)
	}
	if changed {
		metrics.RecordMutation(action, true)
		s.publish(uid, snap.Version, action, ids)
	}
	return snap, nil
}

func (s *driveService) publish(uid, version int64, eventType string, ids []string) {
	if s.feed == nil {
		return
	}
	ev := dto.FeedEvent{Type: eventType, UID: uid, Version: version, IDs: ids}
	if ev.IDs == nil {
		ev.IDs = []string{}
	}
	send := func(context.Context) error {
		payload, err := sonic.Marshal(ev)
		if err != nil {
			return err
		}
		s.feed.Broadcast(uid, payload)
		metrics.RecordFeedEvent(eventType)
		return nil
	}
	if s.pool == nil {
		_ = send(context.Background())
		return
	}
	if err := s.pool.SubmitAsync(context.Background(), send); err != nil {
		s.logger.Warn("feed event dropped",
			zap.Int64(logger.FieldUID, uid),
			zap.String(logger.FieldAction, eventType),
			zap.Error(err))
	}
}

// parentFor resolves the target folder of a create or upload. nil means the
// folder open in drive mode, or the root in any other view.
func (s *driveService) parentFor(uid int64, parentID *string) string {
	if parentID != nil {
		return *parentID
	}
	ss := s.session(uid)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.nav.Mode() == drive.ModeDrive && !ss.nav.Searching() {
		return ss.nav.Current().ID
	}
	return drive.RootID
}

func checkParent(c *drive.Collection, parentID string) error {
	if parentID == drive.RootID {
		return nil
	}
	p, ok := c.Get(parentID)
	if !ok {
		return drive.ErrEntryNotFound
	}
	if !p.IsFolder() {
		return code.ErrorNotAFolder
	}
	return nil
}

// CreateFolder 新建文件夹
func (s *driveService) CreateFolder(ctx context.Context, uid int64, params *dto.DriveFolderCreateRequest) (*dto.EntryDTO, error) {
	parentID := s.parentFor(uid, params.ParentID)

	var created *drive.Entry
	_, err := s.mutate(ctx, uid, EventCreated, nil, func(c *drive.Collection) (*drive.Collection, error) {
		if err := checkParent(c, parentID); err != nil {
			return c, err
		}
		next, f := s.editor.CreateFolder(c, params.Name, parentID)
		if f == nil {
			return c, code.ErrorFolderNameRequired
		}
		created = f
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewEntryDTO(*created), nil
}

// Upload 登记上传的文件描述
func (s *driveService) Upload(ctx context.Context, uid int64, params *dto.DriveUploadRequest) ([]*dto.EntryDTO, error) {
	parentID := s.parentFor(uid, params.ParentID)
	uploads := make([]drive.Upload, 0, len(params.Files))
	for _, f := range params.Files {
		uploads = append(uploads, drive.Upload{Name: f.Name, Bytes: f.Bytes})
	}

	var added []drive.Entry
	_, err := s.mutate(ctx, uid, EventUploaded, nil, func(c *drive.Collection) (*drive.Collection, error) {
		if err := checkParent(c, parentID); err != nil {
			return c, err
		}
		next, entries := s.editor.UploadFiles(c, uploads, parentID)
		added = entries
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewEntryDTOs(added), nil
}

// update runs a single-entry mutation and returns the entry afterwards.
func (s *driveService) update(ctx context.Context, uid int64, action, id string, fn func(c *drive.Collection, e drive.Entry) (*drive.Collection, error)) (*dto.EntryDTO, error) {
	snap, err := s.mutate(ctx, uid, action, []string{id}, func(c *drive.Collection) (*drive.Collection, error) {
		e, ok := c.Get(id)
		if !ok {
			return c, drive.ErrEntryNotFound
		}
		return fn(c, e)
	})
	if err != nil {
		return nil, err
	}
	e, ok := snap.Collection.Get(id)
	if !ok {
		return nil, code.ErrorEntryNotFound
	}
	return dto.NewEntryDTO(e), nil
}

func (s *driveService) Rename(ctx context.Context, uid int64, params *dto.DriveRenameRequest) (*dto.EntryDTO, error) {
	return s.update(ctx, uid, EventRenamed, params.ID, func(c *drive.Collection, _ drive.Entry) (*drive.Collection, error) {
		return s.editor.Rename(c, params.ID, params.Name), nil
	})
}

func (s *driveService) ToggleStar(ctx context.Context, uid int64, params *dto.DriveEntryRequest) (*dto.EntryDTO, error) {
	return s.update(ctx, uid, EventStarred, params.ID, func(c *drive.Collection, _ drive.Entry) (*drive.Collection, error) {
		return s.editor.ToggleStar(c, params.ID), nil
	})
}

func (s *driveService) SetColor(ctx context.Context, uid int64, params *dto.DriveColorRequest) (*dto.EntryDTO, error) {
	color := drive.Color(params.Color)
	if !color.Valid() {
		return nil, code.ErrorInvalidColor
	}
	return s.update(ctx, uid, EventColored, params.ID, func(c *drive.Collection, e drive.Entry) (*drive.Collection, error) {
		if !e.IsFolder() {
			return c, code.ErrorNotAFolder
		}
		return s.editor.SetColor(c, params.ID, color), nil
	})
}

// UpdateSharing 替换分享列表
func (s *driveService) UpdateSharing(ctx context.Context, uid int64, viewer string, params *dto.DriveShareRequest) (*dto.EntryDTO, error) {
	shares := make([]drive.Share, 0, len(params.Shares))
	for _, sh := range params.Shares {
		shares = append(shares, drive.Share{Email: sh.Email, Access: drive.Access(sh.Access)})
	}
	return s.update(ctx, uid, EventShared, params.ID, func(c *drive.Collection, _ drive.Entry) (*drive.Collection, error) {
		return s.editor.UpdateSharing(c, params.ID, viewer, shares)
	})
}

// subtreeMutation applies a cascade operation and returns the affected ids.
func (s *driveService) subtreeMutation(ctx context.Context, uid int64, action, id string, apply func(c *drive.Collection) *drive.Collection) ([]string, error) {
	var ids []string
	_, err := s.mutate(ctx, uid, action, nil, func(c *drive.Collection) (*drive.Collection, error) {
		ids = c.Subtree(id)
		if len(ids) == 0 {
			return c, drive.ErrEntryNotFound
		}
		return apply(c), nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SoftDelete 移入回收站（含子孙条目）
func (s *driveService) SoftDelete(ctx context.Context, uid int64, params *dto.DriveEntryRequest) ([]string, error) {
	return s.subtreeMutation(ctx, uid, EventTrashed, params.ID, func(c *drive.Collection) *drive.Collection {
		return s.editor.SoftDelete(c, params.ID)
	})
}

// Restore 从回收站恢复（含当前子孙条目）
func (s *driveService) Restore(ctx context.Context, uid int64, params *dto.DriveEntryRequest) ([]string, error) {
	return s.subtreeMutation(ctx, uid, EventRestored, params.ID, func(c *drive.Collection) *drive.Collection {
		return s.editor.Restore(c, params.ID)
	})
}

// PermanentlyDelete 永久删除（含子孙条目）
func (s *driveService) PermanentlyDelete(ctx context.Context, uid int64, params *dto.DriveEntryRequest) ([]string, error) {
	return s.subtreeMutation(ctx, uid, EventDeleted, params.ID, func(c *drive.Collection) *drive.Collection {
		return s.editor.PermanentlyDelete(c, params.ID)
	})
}

// ClearTrash 清空回收站
func (s *driveService) ClearTrash(ctx context.Context, uid int64) (*dto.ClearTrashDTO, error) {
	removed := 0
	_, err := s.mutate(ctx, uid, EventTrashCleared, nil, func(c *drive.Collection) (*drive.Collection, error) {
		next := s.editor.ClearTrash(c)
		removed = c.Len() - next.Len()
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ClearTrashDTO{Removed: removed}, nil
}

func (s *driveService) PurgeExpiredTrash(ctx context.Context, now time.Time) (int, error) {
	retention := s.config.App.TrashRetention
	if retention <= 0 {
		return 0, nil
	}
	cutoff := now.Add(-retention)

	total := 0
	for _, uid := range s.repo.LoadedUIDs() {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		removed := 0
		_, err := s.mutate(ctx, uid, EventPurged, nil, func(c *drive.Collection) (*drive.Collection, error) {
			next := s.editor.PurgeTrashedBefore(c, cutoff)
			removed = c.Len() - next.Len()
			return next, nil
		})
		if err != nil {
			s.logger.Warn("purge trash failed", zap.Int64(logger.FieldUID, uid), zap.Error(err))
			continue
		}
		total += removed
	}
	if total > 0 {
		metrics.AddTrashPurged(total)
	}
	return total, nil
}

func (s *driveService) RefreshStats() {
	st := s.repo.Stats()
	metrics.SetDriveStats(st.Drives, st.Live, st.Trashed)
}
