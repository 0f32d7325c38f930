package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/model"
	"github.com/haierkeys/fast-drive-service/pkg/timex"
	"github.com/haierkeys/fast-drive-service/pkg/util"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

func (r *userRepository) db(ctx context.Context) (*gorm.DB, error) {
	return r.dao.UseWithMigrate(ctx, "User")
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		Username:  m.Username,
		Nickname:  m.Nickname,
		Password:  m.Password,
		Avatar:    m.Avatar,
		IsDeleted: m.IsDeleted == 1,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

func (r *userRepository) toModel(u *domain.User) *model.User {
	var isDeleted int64
	if u.IsDeleted {
		isDeleted = 1
	}
	return &model.User{
		UID:       u.UID,
		Email:     util.NormalizeEmail(u.Email),
		Username:  strings.TrimSpace(u.Username),
		Nickname:  u.Nickname,
		Password:  u.Password,
		Avatar:    u.Avatar,
		IsDeleted: isDeleted,
		CreatedAt: timex.Time(u.CreatedAt),
		UpdatedAt: timex.Time(u.UpdatedAt),
	}
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	var m model.User
	err = db.Where(query, args...).Where("is_deleted = ?", 0).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query user")
	}
	return r.toDomain(&m), nil
}

// FindByUID 根据UID获取用户
func (r *userRepository) FindByUID(ctx context.Context, uid int64) (*domain.User, error) {
	return r.first(ctx, "uid = ?", uid)
}

// FindByEmail 根据邮箱获取用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", util.NormalizeEmail(email))
}

// FindByUsername 根据用户名获取用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", strings.TrimSpace(username))
}

// Register 创建用户
func (r *userRepository) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	m := r.toModel(user)
	now := timex.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	err = db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).
			Where("email = ? OR username = ?", m.Email, m.Username).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrUserExists
		}
		return tx.Create(m).Error
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil, err
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "register user")
	}
	return r.toDomain(m), nil
}

// ListUIDs 获取所有用户UID
func (r *userRepository) ListUIDs(ctx context.Context) ([]int64, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	var uids []int64
	if err := db.Model(&model.User{}).Where("is_deleted = ?", 0).Order("uid").Pluck("uid", &uids).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list uids")
	}
	return uids, nil
}

var _ domain.UserRepository = (*userRepository)(nil)
