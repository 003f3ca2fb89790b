package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"laborsync/backend/config"
	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
	"laborsync/backend/pkg/jwt"
	"laborsync/backend/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidToken       = errors.New("Token 无效或已过期")
	ErrTokenRevoked       = errors.New("Token 已注销")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout 将当前 Access Token 加入黑名单直至其过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	// EnsureBootstrapAdmin 系统中没有任何用户时创建初始管理员
	EnsureBootstrapAdmin(ctx context.Context) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	if s.rdb != nil {
		revoked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	// 角色可能已变更，以数据库为准
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("查询用户失败", zap.String("id", claims.UserID), zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	// 旧 Refresh Token 作废（轮换）
	s.revoke(ctx, claims)
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return ErrInvalidToken
	}
	s.revoke(ctx, claims)
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) EnsureBootstrapAdmin(ctx context.Context) error {
	count, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("统计用户数失败", zap.Error(err))
		return err
	}
	if count > 0 {
		return nil
	}

	username := s.cfg.Auth.BootstrapAdminUsername
	password := s.cfg.Auth.BootstrapAdminPassword
	if username == "" || password == "" {
		s.logger.Warn("系统中没有用户且未配置初始管理员，跳过创建")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	admin := &model.User{
		Username:               username,
		PasswordHash:           string(hash),
		Role:                   model.RoleAdmin,
		AccessibleOperationIDs: model.StringArray{},
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		s.logger.Error("创建初始管理员失败", zap.Error(err))
		return err
	}

	s.logger.Info("已创建初始管理员", zap.String("username", username))
	return nil
}

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// revoke 将 Token 加入黑名单，Redis 不可用时仅记录日志
func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.rdb == nil {
		s.logger.Warn("Redis 不可用，Token 未加入黑名单", zap.String("user_id", claims.UserID))
		return
	}
	ttl := jwt.RemainingTTL(claims)
	if ttl <= 0 {
		return
	}
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("写入 Token 黑名单失败", zap.String("user_id", claims.UserID), zap.Error(err))
	}
}
