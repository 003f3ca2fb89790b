package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUsernameExists     = errors.New("用户名已存在")
	ErrUserSelfDelete     = errors.New("不能删除自己")
	ErrUserSelfRoleChange = errors.New("不能修改自己的角色")
	ErrNoPermission       = errors.New("无权操作")
)

// UserService 用户业务接口（仅管理员可调用）
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	return items, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户名失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:               req.Username,
		PasswordHash:           string(hash),
		Role:                   req.Role,
		ManagerID:              req.ManagerID,
		AccessibleOperationIDs: model.StringArray(req.AccessibleOperationIDs),
	}
	user.CreatedBy = &callerID
	if user.AccessibleOperationIDs == nil {
		user.AccessibleOperationIDs = model.StringArray{}
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if _, err := s.repo.User.GetByUsername(ctx, *req.Username); err == nil {
			return nil, ErrUsernameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询用户名失败", zap.Error(err))
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Role != nil && *req.Role != user.Role {
		if id == callerID {
			return nil, ErrUserSelfRoleChange
		}
		user.Role = *req.Role
	}
	// 密码为空时保持不变
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.ManagerID != nil {
		user.ManagerID = req.ManagerID
	}
	if req.AccessibleOperationIDs != nil {
		user.AccessibleOperationIDs = model.StringArray(*req.AccessibleOperationIDs)
	}

	user.Version = req.Version
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	ids := []string(u.AccessibleOperationIDs)
	if ids == nil {
		ids = []string{}
	}
	return dto.UserResponse{
		ID:                     u.UserID,
		Username:               u.Username,
		Role:                   u.Role,
		ManagerID:              u.ManagerID,
		AccessibleOperationIDs: ids,
		Version:                u.Version,
		CreatedAt:              formatTime(u.CreatedAt),
	}
}
