package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/drive"
	"github.com/haierkeys/fast-drive-service/pkg/timex"
)

// MockSeeder fills a new drive with the demo dataset. One folder arrives
// shared with the owner so the shared view has content.
type MockSeeder struct {
	users   domain.UserRepository
	enabled bool
	now     func() time.Time
	newID   func() string
}

// NewMockSeeder 创建演示数据填充器，enabled 为 false 时返回空网盘
func NewMockSeeder(users domain.UserRepository, enabled bool) *MockSeeder {
	return &MockSeeder{users: users, enabled: enabled, now: time.Now, newID: uuid.NewString}
}

type seedNode struct {
	name     string
	bytes    int64 // files only
	folder   bool
	daysAgo  int
	starred  bool
	color    drive.Color
	opened   time.Duration // since now, 0 = never
	trashed  time.Duration // since now, 0 = live
	shared   []drive.Share
	toOwner  drive.Access // shared with the owner by someone else
	children []seedNode
}

func demoTree() []seedNode {
	return []seedNode{
		{name: "Documents", folder: true, daysAgo: 3, starred: true, color: drive.ColorBlue, children: []seedNode{
			{name: "Resume.pdf", bytes: 245_760, daysAgo: 12, opened: 2 * time.Hour},
			{name: "Cover Letter.docx", bytes: 48_128, daysAgo: 12},
			{name: "Taxes", folder: true, daysAgo: 40, children: []seedNode{
				{name: "2023 Return.pdf", bytes: 1_887_436, daysAgo: 40},
				{name: "Receipts.xlsx", bytes: 73_216, daysAgo: 41, opened: 26 * time.Hour},
			}},
		}},
		{name: "Projects", folder: true, daysAgo: 1, color: drive.ColorGreen, children: []seedNode{
			{name: "Website Redesign", folder: true, daysAgo: 1, starred: true, opened: 30 * time.Minute, children: []seedNode{
				{name: "wireframes.fig", bytes: 5_452_595, daysAgo: 1, opened: 30 * time.Minute},
				{name: "copy.md", bytes: 9_830, daysAgo: 2},
				{name: "logo.svg", bytes: 12_288, daysAgo: 6},
			}},
			{name: "Budget 2024.xlsx", bytes: 131_072, daysAgo: 5, starred: true, opened: 5 * time.Hour,
				shared: []drive.Share{{Email: "finance@example.com", Access: drive.AccessEdit}}},
			{name: "Old Draft.docx", bytes: 20_480, daysAgo: 60, trashed: 48 * time.Hour},
		}},
		{name: "Photos", folder: true, daysAgo: 20, color: drive.ColorPink, children: []seedNode{
			{name: "Vacation.jpg", bytes: 3_355_443, daysAgo: 20, opened: 72 * time.Hour},
			{name: "Family.png", bytes: 2_202_009, daysAgo: 22},
			{name: "Screenshots", folder: true, daysAgo: 90, trashed: 96 * time.Hour, children: []seedNode{
				{name: "screen-01.png", bytes: 402_653, daysAgo: 90},
			}},
		}},
		{name: "Team Shared", folder: true, daysAgo: 7, toOwner: drive.AccessEdit, children: []seedNode{
			{name: "Roadmap.pptx", bytes: 8_598_323, daysAgo: 7, toOwner: drive.AccessView},
			{name: "Meeting Notes.txt", bytes: 2_150, daysAgo: 8},
		}},
		{name: "notes.txt", bytes: 1_024, daysAgo: 0, opened: 10 * time.Minute},
		{name: "archive.zip", bytes: 734_003_200, daysAgo: 180},
	}
}

// Seed 构建用户初始网盘
func (s *MockSeeder) Seed(ctx context.Context, uid int64) (*drive.Collection, error) {
	if !s.enabled {
		return drive.NewCollection(nil), nil
	}

	var owner string
	if s.users != nil {
		u, err := s.users.FindByUID(ctx, uid)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
		case err != nil:
			return nil, err
		default:
			owner = u.Email
		}
	}

	now := s.now()
	var entries []drive.Entry
	var walk func(nodes []seedNode, parentID string, deleted *time.Time)
	walk = func(nodes []seedNode, parentID string, deleted *time.Time) {
		for _, n := range nodes {
			id := s.newID()
			day := timex.DateOf(now.AddDate(0, 0, -n.daysAgo))

			var e drive.Entry
			if n.folder {
				e = drive.NewFolder(id, parentID, n.name, day)
				e.Folder.Color = n.color
			} else {
				e = drive.NewFile(id, parentID, n.name, n.bytes, day)
			}
			e.IsStarred = n.starred
			if n.opened > 0 {
				at := now.Add(-n.opened)
				e.LastAccessedAt = &at
			}
			switch {
			case deleted != nil:
				// children of a trashed folder are trashed with it
				at := *deleted
				e.DeletedAt = &at
			case n.trashed > 0:
				at := now.Add(-n.trashed)
				e.DeletedAt = &at
			}
			e.SharedWith = append(e.SharedWith, n.shared...)
			if n.toOwner != "" && owner != "" {
				e.SharedWith = append(e.SharedWith, drive.Share{Email: owner, Access: n.toOwner})
			}

			entries = append(entries, e)
			walk(n.children, id, e.DeletedAt)
		}
	}
	walk(demoTree(), drive.RootID, nil)
	return drive.NewCollection(entries), nil
}

var _ domain.DriveSeeder = (*MockSeeder)(nil)
