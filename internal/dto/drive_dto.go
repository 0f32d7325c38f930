package dto

import (
	"time"

	"github.com/haierkeys/fast-drive-service/internal/drive"
	"github.com/haierkeys/fast-drive-service/pkg/convert"
	"github.com/haierkeys/fast-drive-service/pkg/timex"
)

// ---------------- Request ----------------

// DriveModeRequest 切换导航模式
type DriveModeRequest struct {
	Mode string `json:"mode" form:"mode" binding:"required,oneof=drive recent starred shared trash"`
}

// DriveSearchRequest sets the search text and type filter; empty values clear them.
type DriveSearchRequest struct {
	Search string `json:"search" form:"search"`
	Type   string `json:"type" form:"type"`
}

// DriveEntryRequest 单个条目操作参数
type DriveEntryRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// DriveTruncateRequest 面包屑截断
type DriveTruncateRequest struct {
	Index *int `json:"index" form:"index" binding:"required,min=0"`
}

// DriveUIRequest 临时界面状态
type DriveUIRequest struct {
	Modal       string `json:"modal" form:"modal" binding:"omitempty,oneof=create upload share color details"`
	MenuEntryID string `json:"menuEntryId" form:"menuEntryId"`
	RenamingID  string `json:"renamingId" form:"renamingId"`
}

// DriveFolderCreateRequest creates a folder. A nil ParentID means the
// folder currently open in drive mode.
type DriveFolderCreateRequest struct {
	Name     string  `json:"name" form:"name" binding:"required,trimmed"`
	ParentID *string `json:"parentId" form:"parentId"`
}

// DriveUploadItem 上传文件描述
type DriveUploadItem struct {
	Name  string `json:"name" binding:"required,trimmed"`
	Bytes int64  `json:"bytes" binding:"min=0"`
}

// DriveUploadRequest 上传文件描述列表
type DriveUploadRequest struct {
	ParentID *string           `json:"parentId"`
	Files    []DriveUploadItem `json:"files" binding:"required,min=1,dive"`
}

// DriveRenameRequest 重命名
type DriveRenameRequest struct {
	ID   string `json:"id" form:"id" binding:"required"`
	Name string `json:"name" form:"name" binding:"required,trimmed"`
}

// DriveColorRequest 设置文件夹颜色，空字符串为默认颜色
type DriveColorRequest struct {
	ID    string `json:"id" form:"id" binding:"required"`
	Color string `json:"color" form:"color" binding:"palette"`
}

// DriveShareItem 分享对象
type DriveShareItem struct {
	Email  string `json:"email" binding:"required,email"`
	Access string `json:"access" binding:"required,access"`
}

// DriveShareRequest replaces the share list of an entry.
type DriveShareRequest struct {
	ID     string           `json:"id" binding:"required"`
	Shares []DriveShareItem `json:"shares" binding:"dive"`
}

// ---------------- DTO / Response ----------------

// EntryDTO 条目数据传输对象
type EntryDTO struct {
	ID             string        `json:"id"`
	ParentID       string        `json:"parentId"`
	Kind           drive.Kind    `json:"kind"`
	Name           string        `json:"name"`
	ModifiedDate   timex.Date    `json:"modifiedDate"`
	IsStarred      bool          `json:"isStarred"`
	LastAccessedAt *time.Time    `json:"lastAccessedAt,omitempty"`
	DeletedAt      *time.Time    `json:"deletedAt,omitempty"`
	SharedWith     []drive.Share `json:"sharedWith"`
	Size           string        `json:"size,omitempty"`
	Bytes          int64         `json:"bytes,omitempty"`
	Color          drive.Color   `json:"color,omitempty"`
	Extension      string        `json:"extension,omitempty"`
}

// NewEntryDTO flattens the kind specific attributes of e.
func NewEntryDTO(e drive.Entry) *EntryDTO {
	out := &EntryDTO{}
	_ = convert.StructAssign(&e, out)
	if out.SharedWith == nil {
		out.SharedWith = []drive.Share{}
	}
	if e.File != nil {
		out.Size = e.File.Size
		out.Bytes = e.File.Bytes
	}
	out.Color = e.Color()
	if ext, ok := e.Extension(); ok {
		out.Extension = ext
	}
	return out
}

// NewEntryDTOs 批量转换
func NewEntryDTOs(es []drive.Entry) []*EntryDTO {
	out := make([]*EntryDTO, 0, len(es))
	for _, e := range es {
		out = append(out, NewEntryDTO(e))
	}
	return out
}

// DriveViewDTO is the navigation state together with the visible entries.
type DriveViewDTO struct {
	State   drive.NavigatorState `json:"state"`
	Entries []*EntryDTO          `json:"entries"`
	Version int64                `json:"version"`
}

// OpenResultDTO 打开条目结果
type OpenResultDTO struct {
	Entry     *EntryDTO     `json:"entry"`
	Navigated bool          `json:"navigated"`
	View      *DriveViewDTO `json:"view"`
}

// ClearTrashDTO 清空回收站结果
type ClearTrashDTO struct {
	Removed int `json:"removed"`
}

// FeedEvent is one frame of the change feed.
type FeedEvent struct {
	Type    string   `json:"type"`
	UID     int64    `json:"uid"`
	Version int64    `json:"version"`
	IDs     []string `json:"ids"`
}
