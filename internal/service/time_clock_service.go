package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"laborsync/backend/config"
	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 打卡模块业务错误 ──

var (
	ErrClockActivityNotAllowed = errors.New("员工不具备该作业技能")
	ErrClockNotOnline          = errors.New("员工当前未签到，无法签退")
)

// TimeClockService 打卡业务接口
type TimeClockService interface {
	List(ctx context.Context, operationID string, req *dto.TimeLogListRequest) ([]dto.TimeLogResponse, int64, error)
	// Clock 记录签到/签退
	// 签到时作业环节须为员工技能之一；签退要求员工当前在岗，签退记录的作业环节为离开的环节
	Clock(ctx context.Context, operationID string, req *dto.ClockRequest, callerID, callerRole string) (*dto.TimeLogResponse, error)
}

type timeClockService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewTimeClockService 创建 TimeClockService 实例
func NewTimeClockService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TimeClockService {
	return &timeClockService{
		repo:   repo,
		loc:    cfg.Labor.Location(),
		now:    time.Now,
		logger: logger,
	}
}

func (s *timeClockService) List(ctx context.Context, operationID string, req *dto.TimeLogListRequest) ([]dto.TimeLogResponse, int64, error) {
	filter := repository.TimeLogFilter{
		EmployeeName: req.EmployeeName,
		Type:         req.Type,
		Offset:       req.GetOffset(),
		Limit:        req.GetPageSize(),
	}
	if since, ok := s.periodStart(req.Period); ok {
		filter.Since = &since
	}

	logs, total, err := s.repo.TimeLog.ListByOperation(ctx, operationID, filter)
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.TimeLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, toTimeLogResponse(&logs[i]))
	}
	return items, total, nil
}

// periodStart 统计周期在业务时区下的起始时刻，all 或空表示不限
func (s *timeClockService) periodStart(period string) (time.Time, bool) {
	if period == "" || period == "all" {
		return time.Time{}, false
	}
	start, _, ok := labor.PeriodWindow(period, labor.CalendarDay(s.now(), s.loc))
	if !ok {
		return time.Time{}, false
	}
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc), true
}

func (s *timeClockService) Clock(ctx context.Context, operationID string, req *dto.ClockRequest, callerID, callerRole string) (*dto.TimeLogResponse, error) {
	if callerRole == model.RoleViewer {
		return nil, ErrNoPermission
	}

	emp, err := findEmployeeInOperation(ctx, s.repo, s.logger, operationID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.TimeLog.ListByEmployee(ctx, emp.EmployeeID)
	if err != nil {
		s.logger.Error("查询员工打卡记录失败", zap.String("id", emp.EmployeeID), zap.Error(err))
		return nil, err
	}
	status := labor.StatusOf(emp.EmployeeID, logs)

	activity := req.Activity
	switch model.LogType(req.Type) {
	case model.LogCheckIn:
		if !emp.HasActivity(req.Activity) {
			return nil, ErrClockActivityNotAllowed
		}
	case model.LogCheckOut:
		if !status.Online {
			return nil, ErrClockNotOnline
		}
		activity = status.Activity
	}

	entry := &model.TimeLog{
		EmployeeID:   emp.EmployeeID,
		EmployeeName: emp.Name,
		Type:         req.Type,
		Timestamp:    s.now().UTC(),
		Activity:     activity,
		CreatedBy:    &callerID,
	}
	if err := s.repo.TimeLog.Create(ctx, entry); err != nil {
		s.logger.Error("写入打卡记录失败", zap.String("id", emp.EmployeeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工打卡",
		zap.String("employee_id", emp.EmployeeID),
		zap.String("type", entry.Type),
		zap.String("activity", entry.Activity),
	)
	resp := toTimeLogResponse(entry)
	return &resp, nil
}

func toTimeLogResponse(l *model.TimeLog) dto.TimeLogResponse {
	return dto.TimeLogResponse{
		ID:           l.TimeLogID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		Type:         l.Type,
		Timestamp:    formatTime(l.Timestamp),
		Activity:     l.Activity,
	}
}
