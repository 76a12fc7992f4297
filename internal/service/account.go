package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"streamblog/internal/core/auth"
	"streamblog/internal/domain"
	"streamblog/pkg/utils"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 150
	maxBioLen      = 500
	maxAvatarLen   = 255
)

// Revoker 登出时吊销 token（Redis 实现见 core/cache）
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type ProfilePatch struct {
	Email  *string
	Bio    *string
	Avatar *string
}

type AccountService struct {
	users   domain.UserRepository
	jwter   *auth.JWTer
	revoker Revoker // 可为 nil
	log     *zap.Logger
}

func NewAccountService(users domain.UserRepository, jwter *auth.JWTer, revoker Revoker, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{users: users, jwter: jwter, revoker: revoker, log: log}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		return nil, domain.Invalid("username", "is required")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		return nil, domain.Invalid("username", fmt.Sprintf("must be at most %d characters", maxUsernameLen))
	case len(in.Password) < minPasswordLen:
		return nil, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Invalid("username", "already taken")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Username: username, Email: email, PasswordHash: hash, Role: domain.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册：唯一约束兜底
		if isDupKey(err) {
			return nil, domain.Invalid("username", "already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.String("id", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrNotAuthenticated)
	}
	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, u, nil
}

func (s *AccountService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return domain.ErrNotAuthenticated
	}
	if s.revoker == nil || claims.ID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.TTLLeft(time.Now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AccountService) Profile(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.user(ctx, actor.ID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, actor *domain.Actor, patch ProfilePatch) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	fields := map[string]any{}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if patch.Bio != nil {
		if utf8.RuneCountInString(*patch.Bio) > maxBioLen {
			return nil, domain.Invalid("bio", fmt.Sprintf("must be at most %d characters", maxBioLen))
		}
		fields["bio"] = *patch.Bio
	}
	if patch.Avatar != nil {
		if utf8.RuneCountInString(*patch.Avatar) > maxAvatarLen {
			return nil, domain.Invalid("avatar", fmt.Sprintf("must be at most %d characters", maxAvatarLen))
		}
		fields["avatar"] = strings.TrimSpace(*patch.Avatar)
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, actor.ID, fields); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.user(ctx, actor.ID)
}

func (s *AccountService) ListUsers(ctx context.Context, actor *domain.Actor, offset, limit int) ([]domain.User, int64, error) {
	if err := requireStaff(actor); err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit)
}

func (s *AccountService) SetRole(ctx context.Context, actor *domain.Actor, userID, role string) (*domain.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if role != domain.RoleUser && role != domain.RoleStaff {
		return nil, domain.Invalid("role", "must be user or staff")
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"role": role}); err != nil {
		return nil, fmt.Errorf("user %q: %w", userID, err)
	}
	s.log.Info("user role changed", zap.String("id", userID), zap.String("role", role), zap.String("by", actor.ID))
	return s.user(ctx, userID)
}

func (s *AccountService) user(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("email", "must be a valid email")
	}
	return email, nil
}
