package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haierkeys/fast-drive-service/internal/domain"
	"github.com/haierkeys/fast-drive-service/internal/dto"
	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
)

type mockUserRepo struct {
	domain.UserRepository
	mu    sync.Mutex
	users []*domain.User
}

func (m *mockUserRepo) find(match func(u *domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) FindByUID(ctx context.Context, uid int64) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.UID == uid })
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *mockUserRepo) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	cp := *user
	cp.UID = int64(len(m.users) + 1)
	m.users = append(m.users, &cp)
	out := cp
	return &out, nil
}

func newTestUserService(registerEnabled bool) (UserService, *mockUserRepo, app.TokenManager) {
	repo := &mockUserRepo{}
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "test"})
	cfg := &ServiceConfig{User: UserServiceConfig{RegisterIsEnable: registerEnabled}}
	return NewUserService(repo, tm, nil, cfg), repo, tm
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		svc, _, _ := newTestUserService(false)
		_, err := svc.Register(ctx, &dto.UserCreateRequest{Email: "a@example.com", Username: "alice", Password: "secret1", ConfirmPassword: "secret1"})
		assert.Equal(t, code.ErrorUserRegisterIsDisable, err)
	})

	svc, repo, tm := newTestUserService(true)

	tests := []struct {
		name string
		req  dto.UserCreateRequest
		want error
	}{
		{"bad username", dto.UserCreateRequest{Email: "a@example.com", Username: "a b", Password: "secret1", ConfirmPassword: "secret1"}, code.ErrorUserUsernameNotValid},
		{"password mismatch", dto.UserCreateRequest{Email: "a@example.com", Username: "alice", Password: "secret1", ConfirmPassword: "secret2"}, code.ErrorUserPasswordNotMatch},
		{"ok", dto.UserCreateRequest{Email: "a@example.com", Username: "alice", Password: "secret1", ConfirmPassword: "secret1"}, nil},
		{"email taken", dto.UserCreateRequest{Email: "a@example.com", Username: "alice2", Password: "secret1", ConfirmPassword: "secret1"}, code.ErrorUserEmailAlreadyExists},
		{"username taken", dto.UserCreateRequest{Email: "b@example.com", Username: "alice", Password: "secret1", ConfirmPassword: "secret1"}, code.ErrorUserAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			out, err := svc.Register(ctx, &req)
			if tt.want != nil {
				assert.Equal(t, tt.want, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, out.Token)
			claims, err := tm.Parse(out.Token)
			require.NoError(t, err)
			assert.Equal(t, out.UID, claims.UID)
		})
	}

	require.Len(t, repo.users, 1)
	assert.NotEqual(t, "secret1", repo.users[0].Password)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _, tm := newTestUserService(true)
	_, err := svc.Register(ctx, &dto.UserCreateRequest{Email: "a@example.com", Username: "alice", Nickname: "Alice", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	for _, credentials := range []string{"a@example.com", " alice "} {
		out, err := svc.Login(ctx, &dto.UserLoginRequest{Credentials: credentials, Password: "secret1"}, "10.0.0.1")
		require.NoError(t, err, credentials)
		claims, err := tm.Parse(out.Token)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1", claims.IP)
		assert.Equal(t, "Alice", claims.Nickname)
	}

	_, err = svc.Login(ctx, &dto.UserLoginRequest{Credentials: "alice", Password: "wrong"}, "")
	assert.Equal(t, code.ErrorUserLoginPasswordFailed, err)
	_, err = svc.Login(ctx, &dto.UserLoginRequest{Credentials: "nobody", Password: "secret1"}, "")
	assert.Equal(t, code.ErrorUserLoginPasswordFailed, err)
}

func TestUserService_GetInfoAndSeed(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestUserService(false)

	accounts := []MockAccount{
		{Email: "owner@example.com", Password: "password"},
		{Email: "guest@example.com", Username: "guest_1", Nickname: "Guest", Password: "password"},
	}
	n, err := svc.SeedAccounts(ctx, accounts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// already present
	n, err = svc.SeedAccounts(ctx, accounts)
	require.NoError(t, err)
	assert.Zero(t, n)

	info, err := svc.GetInfo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "owner", info.Username)
	assert.Empty(t, info.Token)

	_, err = svc.GetInfo(ctx, 99)
	assert.Equal(t, code.ErrorUserNotFound, err)
}
