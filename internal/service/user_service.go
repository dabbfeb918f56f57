package service

import (
	"context"
	"strings"
	"time"

	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/pkg/events"
	"skill-swap/pkg/jwt"
	"skill-swap/pkg/logger"
	"skill-swap/pkg/password"

	"go.uber.org/zap"
)

// TokenRevoker 令牌注销（登出黑名单）
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username     string
	Password     string
	Name         string
	Bio          *string
	Location     *string
	Availability *string
	AvatarURL    *string
}

type UserService struct {
	repo       *repository.UserRepository
	jwtService *jwt.JWTService
	revoker    TokenRevoker
	publisher  events.Publisher
}

func NewUserService(repo *repository.UserRepository, jwtService *jwt.JWTService, revoker TokenRevoker, publisher events.Publisher) *UserService {
	return &UserService{repo: repo, jwtService: jwtService, revoker: revoker, publisher: publisher}
}

// Register 注册，成功后直接签发 token
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	username := strings.TrimSpace(in.Username)
	name := strings.TrimSpace(in.Name)
	if username == "" || in.Password == "" {
		return nil, "", model.NewValidationError("username and password are required")
	}
	if name == "" {
		return nil, "", model.NewValidationError("name is required")
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, "", model.NewConflictError("username already exists")
	} else if !model.IsKind(err, model.KindNotFound) {
		return nil, "", err
	}

	// 密码哈希
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Bio:          in.Bio,
		Location:     in.Location,
		Availability: in.Availability,
		AvatarURL:    in.AvatarURL,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	logger.Info("用户注册成功", zap.Uint("user_id", user.ID))
	events.Emit(ctx, s.publisher, events.UserRegistered, user)
	return user, token, nil
}

// Login 登录，用户不存在与密码错误返回相同错误
func (s *UserService) Login(ctx context.Context, username, plainPassword string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || plainPassword == "" {
		return nil, "", model.NewValidationError("username and password are required")
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if model.IsKind(err, model.KindNotFound) {
			return nil, "", model.NewUnauthenticatedError("invalid username or password")
		}
		return nil, "", err
	}
	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, "", model.NewUnauthenticatedError("invalid username or password")
	}
	token, err := s.jwtService.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout 将当前令牌加入黑名单直到其过期
func (s *UserService) Logout(ctx context.Context, claims *jwt.CustomClaims) error {
	if claims == nil {
		return model.NewUnauthenticatedError("not logged in")
	}
	if s.revoker == nil {
		logger.Warn("未启用令牌黑名单，登出仅由客户端丢弃令牌", zap.String("jti", claims.ID))
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.TTL()); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

// CurrentUser 当前登录用户，账号已不存在时视为未登录
func (s *UserService) CurrentUser(ctx context.Context, caller uint) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, caller)
	if model.IsKind(err, model.KindNotFound) {
		return nil, model.NewUnauthenticatedError("user no longer exists")
	}
	return u, err
}

// GetUser 根据ID获取用户
func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser 更新个人资料，只能修改自己的资料
func (s *UserService) UpdateUser(ctx context.Context, caller, id uint, patch model.UserPatch) (*model.User, error) {
	if caller != id {
		return nil, model.NewForbiddenError("cannot update another user's profile")
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, model.NewValidationError("name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Availability != nil {
		updates["availability"] = *patch.Availability
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, model.NewValidationError("password cannot be empty")
		}
		hash, err := password.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}

	if err := s.repo.Update(ctx, u, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
