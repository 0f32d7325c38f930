// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/fast-drive-service/pkg/timex"

// UserCreateRequest 用户注册请求参数
type UserCreateRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`
	Username        string `json:"username" form:"username" binding:"required"`
	Nickname        string `json:"nickname" form:"nickname"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

// UserLoginRequest 用户登录请求参数
type UserLoginRequest struct {
	Credentials string `json:"credentials" form:"credentials" binding:"required"` // 登录凭证（用户名或邮件）
	Password    string `json:"password" form:"password" binding:"required"`
}

// UserDTO 用户数据传输对象
type UserDTO struct {
	UID       int64      `json:"uid"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Nickname  string     `json:"nickname"`
	Token     string     `json:"token,omitempty"`
	Avatar    string     `json:"avatar"`
	UpdatedAt timex.Time `json:"updatedAt"`
	CreatedAt timex.Time `json:"createdAt"`
}
