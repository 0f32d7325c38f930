package api_router

import (
	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	apperrors "github.com/haierkeys/fast-drive-service/pkg/errors"
)

// DriveHandler 网盘 API 路由处理器
// Every route acts on the drive of the token user; the token email is the
// viewer of the shared view.
type DriveHandler struct {
	*Handler
}

// NewDriveHandler 创建 DriveHandler 实例
func NewDriveHandler(a *app.App) *DriveHandler {
	return &DriveHandler{Handler: NewHandler(a)}
}

// respond writes data with ok, or the mapped error.
func (h *DriveHandler) respond(c *gin.Context, method string, ok *code.Code, data any, err error) {
	if err != nil {
		h.logError(c.Request.Context(), method, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(ok.WithData(data))
}

// View 当前导航状态与可见条目
// GET /api/drive
func (h *DriveHandler) View(c *gin.Context) {
	uid, ok := h.uid(c, "DriveHandler.View")
	if !ok {
		return
	}
	out, err := h.App.DriveService.View(c.Request.Context(), uid, pkgapp.GetEmail(c))
	h.respond(c, "DriveHandler.View", code.Success, out, err)
}

// Extensions 文件类型筛选项
// GET /api/drive/extensions
func (h *DriveHandler) Extensions(c *gin.Context) {
	uid, ok := h.uid(c, "DriveHandler.Extensions")
	if !ok {
		return
	}
	out, err := h.App.DriveService.Extensions(c.Request.Context(), uid)
	h.respond(c, "DriveHandler.Extensions", code.Success, out, err)
}

// Path 条目的面包屑路径
// GET /api/drive/path?id=
func (h *DriveHandler) Path(c *gin.Context) {
	params := &dto.DriveEntryRequest{}
	if !h.bind(c, "DriveHandler.Path", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Path")
	if !ok {
		return
	}
	out, err := h.App.DriveService.PathTo(c.Request.Context(), uid, params.ID)
	h.respond(c, "DriveHandler.Path", code.Success, out, err)
}

// SwitchMode 切换导航模式
// POST /api/drive/mode
func (h *DriveHandler) SwitchMode(c *gin.Context) {
	params := &dto.DriveModeRequest{}
	if !h.bind(c, "DriveHandler.SwitchMode", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.SwitchMode")
	if !ok {
		return
	}
	out, err := h.App.DriveService.SwitchMode(c.Request.Context(), uid, pkgapp.GetEmail(c), params)
	h.respond(c, "DriveHandler.SwitchMode", code.Success, out, err)
}

// Search 设置搜索词与类型筛选
// POST /api/drive/search
func (h *DriveHandler) Search(c *gin.Context) {
	params := &dto.DriveSearchRequest{}
	if !h.bind(c, "DriveHandler.Search", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Search")
	if !ok {
		return
	}
	out, err := h.App.DriveService.Search(c.Request.Context(), uid, pkgapp.GetEmail(c), params)
	h.respond(c, "DriveHandler.Search", code.Success, out, err)
}

// Open 打开条目
// POST /api/drive/open
func (h *DriveHandler) Open(c *gin.Context) {
	params := &dto.DriveEntryRequest{}
	if !h.bind(c, "DriveHandler.Open", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Open")
	if !ok {
		return
	}
	out, err := h.App.DriveService.Open(c.Request.Context(), uid, pkgapp.GetEmail(c), params)
	h.respond(c, "DriveHandler.Open", code.Success, out, err)
}

// Truncate 回到面包屑的某一级
// POST /api/drive/truncate
func (h *DriveHandler) Truncate(c *gin.Context) {
	params := &dto.DriveTruncateRequest{}
	if !h.bind(c, "DriveHandler.Truncate", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Truncate")
	if !ok {
		return
	}
	out, err := h.App.DriveService.Truncate(c.Request.Context(), uid, pkgapp.GetEmail(c), params)
	h.respond(c, "DriveHandler.Truncate", code.Success, out, err)
}

// SetUI 更新临时界面状态
// PUT /api/drive/ui
func (h *DriveHandler) SetUI(c *gin.Context) {
	params := &dto.DriveUIRequest{}
	if !h.bind(c, "DriveHandler.SetUI", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.SetUI")
	if !ok {
		return
	}
	out, err := h.App.DriveService.SetUI(c.Request.Context(), uid, pkgapp.GetEmail(c), params)
	h.respond(c, "DriveHandler.SetUI", code.Success, out, err)
}

// CreateFolder 新建文件夹
// POST /api/drive/folder
func (h *DriveHandler) CreateFolder(c *gin.Context) {
	params := &dto.DriveFolderCreateRequest{}
	if !h.bind(c, "DriveHandler.CreateFolder", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.CreateFolder")
	if !ok {
		return
	}
	out, err := h.App.DriveService.CreateFolder(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.CreateFolder", code.SuccessCreate, out, err)
}

// Upload 登记上传文件
// POST /api/drive/upload
func (h *DriveHandler) Upload(c *gin.Context) {
	params := &dto.DriveUploadRequest{}
	if !h.bind(c, "DriveHandler.Upload", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Upload")
	if !ok {
		return
	}
	out, err := h.App.DriveService.Upload(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.Upload", code.SuccessCreate, out, err)
}

// Rename 重命名
// PUT /api/drive/entry/rename
func (h *DriveHandler) Rename(c *gin.Context) {
	params := &dto.DriveRenameRequest{}
	if !h.bind(c, "DriveHandler.Rename", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Rename")
	if !ok {
		return
	}
	out, err := h.App.DriveService.Rename(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.Rename", code.SuccessUpdate, out, err)
}

// ToggleStar 切换星标
// PUT /api/drive/entry/star
func (h *DriveHandler) ToggleStar(c *gin.Context) {
	params := &dto.DriveEntryRequest{}
	if !h.bind(c, "DriveHandler.ToggleStar", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.ToggleStar")
	if !ok {
		return
	}
	out, err := h.App.DriveService.ToggleStar(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.ToggleStar", code.SuccessUpdate, out, err)
}

// SetColor 设置文件夹颜色
// PUT /api/drive/entry/color
func (h *DriveHandler) SetColor(c *gin.Context) {
	params := &dto.DriveColorRequest{}
	if !h.bind(c, "DriveHandler.SetColor", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.SetColor")
	if !ok {
		return
	}
	out, err := h.App.DriveService.SetColor(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.SetColor", code.SuccessUpdate, out, err)
}

// Share 替换分享列表
// PUT /api/drive/entry/share
func (h *DriveHandler) Share(c *gin.Context) {
	params := &dto.DriveShareRequest{}
	if !h.bind(c, "DriveHandler.Share", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Share")
	if !ok {
		return
	}
	out, err := h.App.DriveService.UpdateSharing(c.Request.Context(), uid, pkgapp.GetEmail(c), params)
	h.respond(c, "DriveHandler.Share", code.SuccessUpdate, out, err)
}

// SoftDelete 移入回收站
// DELETE /api/drive/entry
func (h *DriveHandler) SoftDelete(c *gin.Context) {
	params := &dto.DriveEntryRequest{}
	if !h.bind(c, "DriveHandler.SoftDelete", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.SoftDelete")
	if !ok {
		return
	}
	out, err := h.App.DriveService.SoftDelete(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.SoftDelete", code.SuccessDelete, out, err)
}

// Restore 从回收站恢复
// PUT /api/drive/entry/restore
func (h *DriveHandler) Restore(c *gin.Context) {
	params := &dto.DriveEntryRequest{}
	if !h.bind(c, "DriveHandler.Restore", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.Restore")
	if !ok {
		return
	}
	out, err := h.App.DriveService.Restore(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.Restore", code.SuccessUpdate, out, err)
}

// PermanentlyDelete 永久删除
// DELETE /api/drive/entry/permanent
func (h *DriveHandler) PermanentlyDelete(c *gin.Context) {
	params := &dto.DriveEntryRequest{}
	if !h.bind(c, "DriveHandler.PermanentlyDelete", params) {
		return
	}
	uid, ok := h.uid(c, "DriveHandler.PermanentlyDelete")
	if !ok {
		return
	}
	out, err := h.App.DriveService.PermanentlyDelete(c.Request.Context(), uid, params)
	h.respond(c, "DriveHandler.PermanentlyDelete", code.SuccessDelete, out, err)
}

// ClearTrash 清空回收站
// DELETE /api/drive/trash
func (h *DriveHandler) ClearTrash(c *gin.Context) {
	uid, ok := h.uid(c, "DriveHandler.ClearTrash")
	if !ok {
		return
	}
	out, err := h.App.DriveService.ClearTrash(c.Request.Context(), uid)
	h.respond(c, "DriveHandler.ClearTrash", code.SuccessDelete, out, err)
}
