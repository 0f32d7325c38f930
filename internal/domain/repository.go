// Package domain 定义领域模型和仓储接口
package domain

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-drive-service/internal/drive"
)

var (
	// ErrUserNotFound is returned by the user lookups.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists 注册时邮箱或用户名已存在
	ErrUserExists = errors.New("user already exists")
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// FindByUID 根据UID获取用户
	FindByUID(ctx context.Context, uid int64) (*User, error)

	// FindByEmail matches the email case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername 根据用户名获取用户
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Register stores a new user and fills in its UID.
	Register(ctx context.Context, user *User) (*User, error)

	// ListUIDs 获取所有用户UID
	ListUIDs(ctx context.Context) ([]int64, error)
}

// Snapshot is one committed state of a user's drive.
type Snapshot struct {
	Collection *drive.Collection
	// Version grows by one with every committed change.
	Version int64
}

// DriveStats 汇总内存中所有网盘的条目数
type DriveStats struct {
	Drives  int
	Live    int
	Trashed int
}

// MutateFunc derives the next collection from the current one. Returning the
// same pointer means nothing changed.
type MutateFunc func(c *drive.Collection) (*drive.Collection, error)

// DriveRepository 网盘仓储接口
type DriveRepository interface {
	// Load returns the current snapshot of uid, seeding the drive on first use.
	Load(ctx context.Context, uid int64) (Snapshot, error)

	// Update runs fn behind the earlier writes of uid and commits its result.
	// The bool reports whether a new version was committed.
	Update(ctx context.Context, uid int64, fn MutateFunc) (Snapshot, bool, error)

	// LoadedUIDs lists the users whose drive is in memory.
	LoadedUIDs() []int64

	Stats() DriveStats
}

// DriveSeeder builds the initial drive of a user.
type DriveSeeder interface {
	Seed(ctx context.Context, uid int64) (*drive.Collection, error)
}
