// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig
	App  AppServiceConfig
}

// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // 注册是否启用
}

// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	// TrashRetention is how long trashed entries are kept; 0 keeps them forever.
	TrashRetention time.Duration
}

// MockAccount is a demo credential registered at startup.
type MockAccount struct {
	Email    string
	Username string
	Nickname string
	Password string
}
