package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 运营点模块业务错误 ──

var (
	ErrOperationNotFound        = errors.New("运营点不存在")
	ErrManagerNotFound          = errors.New("负责人不存在")
	ErrManagerRoleInvalid       = errors.New("负责人必须为管理员或经理")
	ErrVacationExceedsHeadcount = errors.New("休假人数不能超过总人数")
	ErrOperationAccessDenied    = errors.New("无权访问该运营点")
)

// OperationService 运营点业务接口
type OperationService interface {
	// ListAccessible 返回调用者可访问的运营点
	// Admin 全部；Manager 为其负责的运营点；Viewer 为显式授权的运营点
	ListAccessible(ctx context.Context, userID, role string) ([]dto.OperationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OperationResponse, error)
	Create(ctx context.Context, req *dto.CreateOperationRequest, callerID string) (*dto.OperationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOperationRequest, callerID string) (*dto.OperationResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// CheckAccess 运营点不存在返回 ErrOperationNotFound，无权访问返回 ErrOperationAccessDenied
	CheckAccess(ctx context.Context, userID, role, operationID string) error
}

type operationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOperationService 创建 OperationService 实例
func NewOperationService(repo *repository.Repository, logger *zap.Logger) OperationService {
	return &operationService{repo: repo, logger: logger}
}

func (s *operationService) ListAccessible(ctx context.Context, userID, role string) ([]dto.OperationResponse, error) {
	var (
		ops []model.Operation
		err error
	)
	switch role {
	case model.RoleAdmin:
		ops, err = s.repo.Operation.List(ctx)
	case model.RoleManager:
		ops, err = s.repo.Operation.ListByManager(ctx, userID)
	default:
		var user *model.User
		user, err = s.repo.User.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			break
		}
		ops, err = s.repo.Operation.ListByIDs(ctx, user.AccessibleOperationIDs)
	}
	if err != nil {
		s.logger.Error("查询运营点列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.OperationResponse, 0, len(ops))
	for i := range ops {
		items = append(items, toOperationResponse(&ops[i]))
	}
	return items, nil
}

func (s *operationService) GetByID(ctx context.Context, id string) (*dto.OperationResponse, error) {
	op, err := s.getOperation(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toOperationResponse(op)
	return &resp, nil
}

func (s *operationService) Create(ctx context.Context, req *dto.CreateOperationRequest, callerID string) (*dto.OperationResponse, error) {
	if req.EmployeesOnVacation > req.TotalHeadcount {
		return nil, ErrVacationExceedsHeadcount
	}
	if err := s.checkManager(ctx, req.ManagerID); err != nil {
		return nil, err
	}

	op := &model.Operation{
		Name:                req.Name,
		Location:            req.Location,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		ManagerID:           req.ManagerID,
		TotalHeadcount:      req.TotalHeadcount,
		EmployeesOnVacation: req.EmployeesOnVacation,
	}
	op.CreatedBy = &callerID

	if err := s.repo.Operation.Create(ctx, op); err != nil {
		s.logger.Error("创建运营点失败", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, op.OperationID)
}

func (s *operationService) Update(ctx context.Context, id string, req *dto.UpdateOperationRequest, callerID string) (*dto.OperationResponse, error) {
	op, err := s.getOperation(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		op.Name = *req.Name
	}
	if req.Location != nil {
		op.Location = *req.Location
	}
	if req.Latitude != nil {
		op.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		op.Longitude = req.Longitude
	}
	if req.ManagerID != nil {
		if err := s.checkManager(ctx, req.ManagerID); err != nil {
			return nil, err
		}
		op.ManagerID = req.ManagerID
	}
	if req.TotalHeadcount != nil {
		op.TotalHeadcount = *req.TotalHeadcount
	}
	if req.EmployeesOnVacation != nil {
		op.EmployeesOnVacation = *req.EmployeesOnVacation
	}
	if op.EmployeesOnVacation > op.TotalHeadcount {
		return nil, ErrVacationExceedsHeadcount
	}

	op.UpdatedBy = &callerID
	op.Manager = nil
	if err := s.repo.Operation.Update(ctx, op); err != nil {
		s.logger.Error("更新运营点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *operationService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getOperation(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Operation.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除运营点失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *operationService) CheckAccess(ctx context.Context, userID, role, operationID string) error {
	op, err := s.getOperation(ctx, operationID)
	if err != nil {
		return err
	}

	switch role {
	case model.RoleAdmin:
		return nil
	case model.RoleManager:
		if op.ManagerID != nil && *op.ManagerID == userID {
			return nil
		}
		return ErrOperationAccessDenied
	default:
		user, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOperationAccessDenied
			}
			s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
			return err
		}
		if user.AccessibleOperationIDs.Contains(operationID) {
			return nil
		}
		return ErrOperationAccessDenied
	}
}

func (s *operationService) getOperation(ctx context.Context, id string) (*model.Operation, error) {
	op, err := s.repo.Operation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperationNotFound
		}
		s.logger.Error("查询运营点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return op, nil
}

// checkManager 负责人须存在且角色为 Admin/Manager
func (s *operationService) checkManager(ctx context.Context, managerID *string) error {
	if managerID == nil || *managerID == "" {
		return nil
	}
	user, err := s.repo.User.GetByID(ctx, *managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrManagerNotFound
		}
		s.logger.Error("查询负责人失败", zap.String("id", *managerID), zap.Error(err))
		return err
	}
	if user.Role != model.RoleAdmin && user.Role != model.RoleManager {
		return ErrManagerRoleInvalid
	}
	return nil
}

func toOperationResponse(op *model.Operation) dto.OperationResponse {
	resp := dto.OperationResponse{
		ID:                  op.OperationID,
		Name:                op.Name,
		Location:            op.Location,
		Latitude:            op.Latitude,
		Longitude:           op.Longitude,
		ManagerID:           op.ManagerID,
		TotalHeadcount:      op.TotalHeadcount,
		EmployeesOnVacation: op.EmployeesOnVacation,
		CreatedAt:           formatTime(op.CreatedAt),
	}
	if op.Manager != nil {
		resp.ManagerName = op.Manager.Username
	}
	return resp
}
