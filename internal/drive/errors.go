package drive

import "errors"

var (
	// ErrEntryNotFound 条目不存在
	ErrEntryNotFound = errors.New("drive: entry not found")
	// ErrCycle means parent links loop back on themselves. The forest
	// invariant forbids it, so it signals corrupt state.
	ErrCycle = errors.New("drive: cycle in parent links")
	// ErrDetached 条目的祖先链中断
	ErrDetached = errors.New("drive: entry is detached from the root")

	ErrInvalidNavigation = errors.New("drive: navigation not allowed in current mode")
	ErrInvalidCrumb      = errors.New("drive: breadcrumb index out of range")
	ErrInvalidMode       = errors.New("drive: unknown mode")

	ErrSelfShare      = errors.New("drive: cannot share with the owner")
	ErrDuplicateShare = errors.New("drive: duplicate share email")
	ErrInvalidAccess  = errors.New("drive: invalid share access")
)
