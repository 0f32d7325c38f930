package api_router

import (
	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/internal/app"
	"github.com/haierkeys/fast-drive-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	apperrors "github.com/haierkeys/fast-drive-service/pkg/errors"
)

// UserHandler 用户 API 路由处理器
type UserHandler struct {
	*Handler
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

// Register 用户注册
// POST /api/user/register
func (h *UserHandler) Register(c *gin.Context) {
	params := &dto.UserCreateRequest{}
	if !h.bind(c, "UserHandler.Register", params) {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.Register(ctx, params)
	if err != nil {
		h.logError(ctx, "UserHandler.Register", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// Login 用户登录，凭证可以是邮箱或用户名
// POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	params := &dto.UserLoginRequest{}
	if !h.bind(c, "UserHandler.Login", params) {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.Login(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// UserInfo 获取当前用户信息
// GET /api/user/info
func (h *UserHandler) UserInfo(c *gin.Context) {
	uid, ok := h.uid(c, "UserHandler.UserInfo")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.GetInfo(ctx, uid)
	if err != nil {
		h.logError(ctx, "UserHandler.UserInfo", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}
