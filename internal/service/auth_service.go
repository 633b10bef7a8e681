package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-shop-api/internal/core/auth"
	"go-shop-api/internal/domain"
	"go-shop-api/internal/transport/http/ez"
	"go-shop-api/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwter: jwter, log: log}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,max=64"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserOut struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AuthOut struct {
	Token string  `json:"token"`
	User  UserOut `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthOut, error) {
	email := strings.TrimSpace(in.Email)
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, ez.Internal("check email failed", err)
	}
	if exists {
		return nil, ez.Conflict("email already registered")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: utils.HashPassword(in.Password),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册兜底：唯一索引冲突也按已占用处理
		if isDupKey(err) {
			return nil, ez.Conflict("email already registered")
		}
		return nil, ez.Internal("create user failed", err)
	}
	s.log.Info("user registered", zap.String("uid", u.ID), zap.String("role", u.Role))
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthOut, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, ez.Internal("find user failed", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, ez.Unauthorized("invalid credentials")
	}
	return s.issue(u)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*UserOut, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ez.Internal("find user failed", err)
	}
	if u == nil {
		return nil, ez.NotFound("user not found")
	}
	return &UserOut{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}, nil
}

func (s *AuthService) issue(u *domain.User) (*AuthOut, error) {
	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil || tok == "" {
		return nil, ez.Internal("issue token failed", err)
	}
	return &AuthOut{
		Token: tok,
		User:  UserOut{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	}, nil
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
