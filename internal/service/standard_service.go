package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 工程标准模块业务错误 ──

var (
	ErrStandardNotFound = errors.New("工程标准不存在")
)

// StandardService 工程标准业务接口
// 小时产能与人数均由服务端重算，客户端传入值仅作为输入
type StandardService interface {
	List(ctx context.Context, req *dto.StandardListRequest) ([]dto.StandardResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StandardResponse, error)
	Create(ctx context.Context, req *dto.StandardRequest, callerID string) (*dto.StandardResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStandardRequest, callerID string) (*dto.StandardResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Recompute 表单预览：应用单字段修改并返回重算后的数值，不落库
	Recompute(req *dto.RecomputeRequest) dto.StandardValues
	// UpdateField 行内单字段编辑，与 Recompute 使用相同的重算规则
	UpdateField(ctx context.Context, id string, req *dto.UpdateFieldRequest, callerID string) (*dto.StandardResponse, error)
	// Replicate 将选中的标准复制到每个指定日期
	Replicate(ctx context.Context, req *dto.ReplicateRequest, callerID string) ([]dto.StandardResponse, error)
}

type standardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStandardService 创建 StandardService 实例
func NewStandardService(repo *repository.Repository, logger *zap.Logger) StandardService {
	return &standardService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *standardService) List(ctx context.Context, req *dto.StandardListRequest) ([]dto.StandardResponse, error) {
	filter := repository.StandardFilter{
		Activity:    req.Activity,
		ProcessType: req.ProcessType,
	}
	if d, ok := labor.ParseDate(req.StartDate); ok {
		filter.Start = &d
	}
	if d, ok := labor.ParseDate(req.EndDate); ok {
		filter.End = &d
	}

	stds, err := s.repo.Standard.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询工程标准失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.StandardResponse, 0, len(stds))
	for i := range stds {
		items = append(items, toStandardResponse(&stds[i]))
	}
	return items, nil
}

func (s *standardService) GetByID(ctx context.Context, id string) (*dto.StandardResponse, error) {
	std, err := s.getStandard(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStandardResponse(std)
	return &resp, nil
}

// ────────────────────── Create / Update / Delete ──────────────────────

func (s *standardService) Create(ctx context.Context, req *dto.StandardRequest, callerID string) (*dto.StandardResponse, error) {
	var std model.EngineeringStandard
	applyStandardRequest(&std, req)
	std = labor.NormalizeStandard(std)
	std.CreatedBy = &callerID

	if err := s.repo.Standard.Create(ctx, &std); err != nil {
		s.logger.Error("创建工程标准失败", zap.Error(err))
		return nil, err
	}

	resp := toStandardResponse(&std)
	return &resp, nil
}

func (s *standardService) Update(ctx context.Context, id string, req *dto.UpdateStandardRequest, callerID string) (*dto.StandardResponse, error) {
	std, err := s.getStandard(ctx, id)
	if err != nil {
		return nil, err
	}

	applyStandardRequest(std, &req.StandardRequest)
	*std = labor.NormalizeStandard(*std)
	std.Version = req.Version
	std.UpdatedBy = &callerID

	if err := s.repo.Standard.Update(ctx, std); err != nil {
		return nil, err
	}

	resp := toStandardResponse(std)
	return &resp, nil
}

func (s *standardService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getStandard(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Standard.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除工程标准失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Recompute / UpdateField ──────────────────────

func (s *standardService) Recompute(req *dto.RecomputeRequest) dto.StandardValues {
	rec := model.EngineeringStandard{
		CycleTime:          req.Values.CycleTime,
		HourlyProductivity: req.Values.HourlyProductivity,
		DailyDemand:        req.Values.DailyDemand,
		WorkTime:           req.Values.WorkTime,
		BreakTime:          req.Values.BreakTime,
		Headcounts:         req.Values.Headcounts,
	}
	rec = labor.RecomputeStandardField(rec, labor.StandardField(req.Field), req.Value)
	return dto.StandardValues{
		CycleTime:          rec.CycleTime,
		HourlyProductivity: rec.HourlyProductivity,
		DailyDemand:        rec.DailyDemand,
		WorkTime:           rec.WorkTime,
		BreakTime:          rec.BreakTime,
		Headcounts:         rec.Headcounts,
	}
}

func (s *standardService) UpdateField(ctx context.Context, id string, req *dto.UpdateFieldRequest, callerID string) (*dto.StandardResponse, error) {
	std, err := s.getStandard(ctx, id)
	if err != nil {
		return nil, err
	}

	*std = labor.RecomputeStandardField(*std, labor.StandardField(req.Field), req.Value)
	std.Version = req.Version
	std.UpdatedBy = &callerID

	if err := s.repo.Standard.Update(ctx, std); err != nil {
		return nil, err
	}

	resp := toStandardResponse(std)
	return &resp, nil
}

// ────────────────────── Replicate ──────────────────────

func (s *standardService) Replicate(ctx context.Context, req *dto.ReplicateRequest, callerID string) ([]dto.StandardResponse, error) {
	ids := appendUnique(req.IDs)
	sources, err := s.repo.Standard.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询工程标准失败", zap.Error(err))
		return nil, err
	}
	if len(sources) != len(ids) {
		return nil, ErrStandardNotFound
	}

	dates := appendUnique(req.Dates)
	copies := make([]model.EngineeringStandard, 0, len(sources)*len(dates))
	for _, date := range dates {
		for _, src := range sources {
			c := model.EngineeringStandard{
				Activity:           src.Activity,
				ProcessType:        src.ProcessType,
				Driver:             src.Driver,
				CycleTime:          src.CycleTime,
				HourlyProductivity: src.HourlyProductivity,
				DailyDemand:        src.DailyDemand,
				WorkTime:           src.WorkTime,
				BreakTime:          src.BreakTime,
				ExecutionDate:      date,
			}
			c = labor.NormalizeStandard(c)
			c.CreatedBy = &callerID
			copies = append(copies, c)
		}
	}

	if err := s.repo.Standard.BatchCreate(ctx, copies); err != nil {
		s.logger.Error("复制工程标准失败", zap.Int("count", len(copies)), zap.Error(err))
		return nil, err
	}

	items := make([]dto.StandardResponse, 0, len(copies))
	for i := range copies {
		items = append(items, toStandardResponse(&copies[i]))
	}
	return items, nil
}

func (s *standardService) getStandard(ctx context.Context, id string) (*model.EngineeringStandard, error) {
	std, err := s.repo.Standard.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStandardNotFound
		}
		s.logger.Error("查询工程标准失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return std, nil
}

func applyStandardRequest(std *model.EngineeringStandard, req *dto.StandardRequest) {
	std.Activity = req.Activity
	std.ProcessType = req.ProcessType
	std.Driver = req.Driver
	std.CycleTime = req.CycleTime
	std.HourlyProductivity = req.HourlyProductivity
	std.DailyDemand = req.DailyDemand
	std.WorkTime = req.WorkTime
	std.BreakTime = req.BreakTime
	std.ExecutionDate = req.ExecutionDate
}

func toStandardResponse(s *model.EngineeringStandard) dto.StandardResponse {
	return dto.StandardResponse{
		ID:                 s.StandardID,
		Activity:           s.Activity,
		ProcessType:        s.ProcessType,
		Driver:             s.Driver,
		CycleTime:          s.CycleTime,
		HourlyProductivity: s.HourlyProductivity,
		DailyDemand:        s.DailyDemand,
		WorkTime:           s.WorkTime,
		BreakTime:          s.BreakTime,
		Headcounts:         s.Headcounts,
		ExecutionDate:      s.ExecutionDate,
		Version:            s.Version,
	}
}
