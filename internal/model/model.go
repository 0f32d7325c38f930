// Package model holds the gorm table models.
package model

import (
	"gorm.io/gorm"

	"github.com/haierkeys/fast-drive-service/pkg/timex"
)

// User 用户表
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid"`
	Email     string     `gorm:"column:email;size:255;uniqueIndex:idx_user_email" json:"email"`
	Username  string     `gorm:"column:username;size:64;uniqueIndex:idx_user_username" json:"username"`
	Nickname  string     `gorm:"column:nickname;size:64" json:"nickname"`
	Password  string     `gorm:"column:password;size:255" json:"-"`
	Avatar    string     `gorm:"column:avatar;size:255" json:"avatar"`
	IsDeleted int64      `gorm:"column:is_deleted;default:0;index" json:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "user"
}

// AutoMigrate 按模型名迁移表结构
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "User":
		return db.AutoMigrate(&User{})
	}
	return nil
}
