package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/dto"
	"github.com/haierkeys/fast-drive-service/internal/metrics"
	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	"github.com/haierkeys/fast-drive-service/pkg/convert"
	"github.com/haierkeys/fast-drive-service/pkg/timex"
	"github.com/haierkeys/fast-drive-service/pkg/util"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error)

	// Login matches the credentials against the user store and issues a token.
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error)

	// GetInfo 获取用户信息
	GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error)

	// SeedAccounts registers the mock accounts that do not exist yet.
	SeedAccounts(ctx context.Context, accounts []MockAccount) (int, error)
}

type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
	sf           singleflight.Group
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config,
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *userService) domainToDTO(user *domain.User) *dto.UserDTO {
	if user == nil {
		return nil
	}
	out := &dto.UserDTO{}
	_ = convert.StructAssign(user, out)
	out.UpdatedAt = timex.Time(user.UpdatedAt)
	out.CreatedAt = timex.Time(user.CreatedAt)
	return out
}

func (s *userService) register(ctx context.Context, email, username, nickname, password string) (*domain.User, error) {
	hash, err := util.GeneratePasswordHash(password)
	if err != nil {
		return nil, code.ErrorPasswordNotValid
	}
	user, err := s.userRepo.Register(ctx, &domain.User{
		Email:    util.NormalizeEmail(email),
		Username: strings.TrimSpace(username),
		Nickname: strings.TrimSpace(nickname),
		Password: hash,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil, code.ErrorUserAlreadyExists
	}
	if err != nil {
		return nil, code.ErrorUserRegister.WithDetails(err.Error())
	}
	return user, nil
}

// Register 用户注册
func (s *userService) Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error) {
	// 检查注册是否启用
	if s.config == nil || !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterIsDisable
	}

	if !util.IsValidUsername(params.Username) {
		return nil, code.ErrorUserUsernameNotValid
	}
	if params.Password != params.ConfirmPassword {
		return nil, code.ErrorUserPasswordNotMatch
	}

	// 检查邮箱是否已存在
	if _, err := s.userRepo.FindByEmail(ctx, params.Email); err == nil {
		return nil, code.ErrorUserEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, code.ErrorDBQuery
	}

	user, err := s.register(ctx, params.Email, params.Username, params.Nickname, params.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenManager.Generate(user.UID, user.Email, user.DisplayName(), "")
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	out := s.domainToDTO(user)
	out.Token = token
	s.logger.Info("user registered", zap.Int64("uid", user.UID))
	return out, nil
}

// Login 用户登录
// Concurrent logins with the same credentials share one bcrypt comparison.
func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error) {
	key := strings.ToLower(strings.TrimSpace(params.Credentials)) + "\x00" + params.Password
	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.authenticate(ctx, params.Credentials, params.Password)
	})
	if err != nil {
		metrics.RecordAuth("failure")
		return nil, err
	}
	user := v.(*domain.User)
	metrics.RecordAuth("success")

	token, err := s.tokenManager.Generate(user.UID, user.Email, user.DisplayName(), clientIP)
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	out := s.domainToDTO(user)
	out.Token = token
	return out, nil
}

func (s *userService) authenticate(ctx context.Context, credentials, password string) (*domain.User, error) {
	credentials = strings.TrimSpace(credentials)
	var user *domain.User
	var err error

	// 根据凭证类型查找用户
	if util.IsValidEmail(credentials) {
		user, err = s.userRepo.FindByEmail(ctx, credentials)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, credentials)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
			return nil, code.ErrorDBQuery
		}
		// 不暴露用户是否存在，统一返回用户名或密码错误
		return nil, code.ErrorUserLoginPasswordFailed
	}

	if !util.CheckPasswordHash(user.Password, password) {
		return nil, code.ErrorUserLoginPasswordFailed
	}
	return user, nil
}

// GetInfo 获取用户信息
func (s *userService) GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, code.ErrorUserNotFound
	}
	if err != nil {
		return nil, code.ErrorDBQuery
	}
	return s.domainToDTO(user), nil
}

// SeedAccounts 注册配置中的演示账号
func (s *userService) SeedAccounts(ctx context.Context, accounts []MockAccount) (int, error) {
	created := 0
	for _, a := range accounts {
		if _, err := s.userRepo.FindByEmail(ctx, a.Email); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return created, err
		}

		username := a.Username
		if username == "" {
			username, _, _ = strings.Cut(util.NormalizeEmail(a.Email), "@")
		}
		if _, err := s.register(ctx, a.Email, username, a.Nickname, a.Password); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		s.logger.Info("mock accounts registered", zap.Int("count", created))
	}
	return created, nil
}
