package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-go/internal/crypto"
	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/repository"
	"github.com/skillswap/skillswap-go/internal/repository/sqlitetest"
)

func newTestAuthService(t *testing.T) (*AuthService, *crypto.TokenService, *repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepository(sqlitetest.New(t))
	tokens := crypto.NewTokenService("test-secret", "skillswap", time.Hour)
	return NewAuthService(users, tokens), tokens, users
}

func registerRequest() model.CreateUserRequest {
	return model.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice Liddell",
	}
}

func TestRegister(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.IsActive)

	subject, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*model.CreateUserRequest)
		wantErr error
	}{
		{"empty username", func(r *model.CreateUserRequest) { r.Username = "  " }, ErrUsernameRequired},
		{"empty email", func(r *model.CreateUserRequest) { r.Email = "" }, ErrEmailRequired},
		{"empty password", func(r *model.CreateUserRequest) { r.Password = "" }, ErrPasswordRequired},
		{"empty full name", func(r *model.CreateUserRequest) { r.FullName = "" }, ErrFullNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest()
			tt.mutate(&req)
			_, err := svc.Register(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	dup = registerRequest()
	dup.Username = "other"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	subject, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	// Wrong password and unknown user look identical to the caller.
	_, err = svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUser_SelfOnly(t *testing.T) {
	svc, _, users := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	alice, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)

	mallory := &model.User{ID: alice.ID + 1, Username: "mallory"}
	newName := "Renamed"
	_, err = svc.UpdateUser(ctx, mallory, alice.ID, model.UpdateUserRequest{FullName: &newName})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateUser(ctx, alice, alice.ID, model.UpdateUserRequest{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.Equal(t, "alice", updated.Username)
}
