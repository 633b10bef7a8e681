package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-shop-api/internal/core/auth"
	"go-shop-api/internal/domain"
	"go-shop-api/internal/service"
	resp "go-shop-api/internal/transport/http/response"
	"go-shop-api/pkg/utils"
)

func newAuthFixture() (*memStore, *service.AuthService) {
	s := newMemStore()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "go-shop-api", TTL: time.Hour}
	svc := service.NewAuthService(s.repos().Users, jwter, zap.NewNop())
	return s, svc
}

func TestRegister(t *testing.T) {
	s, svc := newAuthFixture()

	out, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "alice@shop.test",
		Password: "secret1",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, domain.RoleUser, out.User.Role, "role defaults to USER")
	assert.Equal(t, "alice@shop.test", out.User.Email)

	// 持久化的是哈希，不是明文
	stored := s.users[out.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, utils.CheckPassword("secret1", stored.PasswordHash))
}

func TestRegister_EmailTaken(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email: "alice@shop.test", Password: "secret1", Name: "Alice",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), service.RegisterInput{
		Email: "alice@shop.test", Password: "other66", Name: "Impostor",
	})
	ae := requireAErr(t, err, resp.CodeConflict)
	assert.Contains(t, ae.Error(), "already registered")
}

func TestRegister_AdminRole(t *testing.T) {
	_, svc := newAuthFixture()

	out, err := svc.Register(context.Background(), service.RegisterInput{
		Email: "root@shop.test", Password: "secret1", Name: "Root", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, out.User.Role)
}

func TestLogin(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email: "alice@shop.test", Password: "secret1", Name: "Alice",
	})
	require.NoError(t, err)

	out, err := svc.Login(context.Background(), service.LoginInput{
		Email: "alice@shop.test", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	// 错误口令与不存在的账号返回同一个错误
	_, err = svc.Login(context.Background(), service.LoginInput{
		Email: "alice@shop.test", Password: "wrong",
	})
	ae := requireAErr(t, err, resp.CodeUnauthorized)

	_, err2 := svc.Login(context.Background(), service.LoginInput{
		Email: "nobody@shop.test", Password: "secret1",
	})
	ae2 := requireAErr(t, err2, resp.CodeUnauthorized)
	assert.Equal(t, ae.Error(), ae2.Error())
}

func TestMe(t *testing.T) {
	s, svc := newAuthFixture()
	seedUser(s, "u1", "alice@shop.test", domain.RoleUser)

	out, err := svc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@shop.test", out.Email)

	_, err = svc.Me(context.Background(), "ghost")
	requireAErr(t, err, resp.CodeNotFound)
}
