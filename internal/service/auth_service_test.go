package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/cinelog/cinelog-backend/internal/config"
	"github.com/cinelog/cinelog-backend/internal/dto"
	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/cinelog/cinelog-backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuth(t *testing.T) AuthService {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Role{}, &model.User{}))
	require.NoError(t, db.Create(&model.Role{Name: "member", Description: "Regular member"}).Error)

	cfg := &config.Config{JWTSecret: "test-secret", JWTTTLMinutes: 30}
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterIssuesConfiguredToken(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	auth, err := svc.Register(ctx, dto.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer", auth.TokenType)
	require.EqualValues(t, 30*60, auth.ExpiresIn)

	// The token must verify against the configured secret, not an
	// ambient default
	token, err := jwt.ParseWithClaims(auth.AccessToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	require.Equal(t, auth.User.ID.String(), claims.Subject)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	input := dto.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	require.ErrorIs(t, err, apperror.ErrConflict)

	// Same username under a new email is still a conflict
	input.Email = "alice2@example.com"
	_, err = svc.Register(ctx, input)
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	auth, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, "alice", auth.User.Username)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "ghost@example.com", Password: "password123"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
}
