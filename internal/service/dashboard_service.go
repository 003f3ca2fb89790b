package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborsync/backend/config"
	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 仪表盘模块业务错误 ──

var (
	ErrDashboardBadWindow   = errors.New("统计区间无效")
	ErrDashboardBadActivity = errors.New("作业环节筛选无效")
)

// headcountLookbackDays 人数趋势需要向前多取的天数
const headcountLookbackDays = 6

// DashboardService 仪表盘业务接口
type DashboardService interface {
	// GetSnapshot 计算运营点在指定区间的仪表盘快照
	// 结果按 (运营点, 区间, 作业环节) 在进程内缓存，TTL 为 0 时不缓存
	GetSnapshot(ctx context.Context, operationID string, req *dto.DashboardRequest) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	cache  *cache.Cache
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) DashboardService {
	ttl := cfg.Labor.DashboardCacheTTL
	return &dashboardService{
		repo:   repo,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
		loc:    cfg.Labor.Location(),
		now:    time.Now,
		logger: logger,
	}
}

func (s *dashboardService) GetSnapshot(ctx context.Context, operationID string, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	start, end, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}
	activities, err := parseActivities(req.Activities)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%s|%s|%s", operationID, labor.FormatDate(start), labor.FormatDate(end), strings.Join(activities, ","))
	if s.ttl > 0 {
		if v, ok := s.cache.Get(key); ok {
			return v.(*dto.DashboardResponse), nil
		}
	}

	in, err := s.loadInput(ctx, operationID, start, end)
	if err != nil {
		return nil, err
	}
	in.Activities = activities

	resp := toDashboardResponse(&in.Operation, start, end, labor.BuildSnapshot(*in))
	if s.ttl > 0 {
		s.cache.SetDefault(key, resp)
	}
	return resp, nil
}

// resolveWindow 显式起止日期优先，否则按 period 与参考日期计算
func (s *dashboardService) resolveWindow(req *dto.DashboardRequest) (time.Time, time.Time, error) {
	if req.StartDate != "" || req.EndDate != "" {
		start, okStart := labor.ParseDate(req.StartDate)
		end, okEnd := labor.ParseDate(req.EndDate)
		switch {
		case okStart && !okEnd:
			end = start
		case !okStart && okEnd:
			start = end
		case !okStart && !okEnd:
			return time.Time{}, time.Time{}, ErrDashboardBadWindow
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, ErrDashboardBadWindow
		}
		return start, end, nil
	}

	ref := labor.CalendarDay(s.now(), s.loc)
	if req.Date != "" {
		d, ok := labor.ParseDate(req.Date)
		if !ok {
			return time.Time{}, time.Time{}, ErrDashboardBadWindow
		}
		ref = d
	}
	start, end, ok := labor.PeriodWindow(req.Period, ref)
	if !ok {
		return time.Time{}, time.Time{}, ErrDashboardBadWindow
	}
	return start, end, nil
}

func (s *dashboardService) loadInput(ctx context.Context, operationID string, start, end time.Time) (*labor.SnapshotInput, error) {
	op, err := s.repo.Operation.GetByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperationNotFound
		}
		s.logger.Error("查询运营点失败", zap.String("id", operationID), zap.Error(err))
		return nil, err
	}

	employees, err := s.repo.Employee.ListByOperation(ctx, operationID, repository.EmployeeFilter{})
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}

	// 在岗状态取决于最新打卡，不按区间截断
	logs, _, err := s.repo.TimeLog.ListByOperation(ctx, operationID, repository.TimeLogFilter{})
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}

	tasks, _, err := s.repo.TaskExecution.ListByOperation(ctx, operationID, repository.TaskFilter{Start: &start, End: &end})
	if err != nil {
		s.logger.Error("查询作业记录失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}

	stdStart := end.AddDate(0, 0, -headcountLookbackDays)
	if start.Before(stdStart) {
		stdStart = start
	}
	standards, err := s.repo.Standard.List(ctx, repository.StandardFilter{Start: &stdStart, End: &end})
	if err != nil {
		s.logger.Error("查询工程标准失败", zap.Error(err))
		return nil, err
	}

	return &labor.SnapshotInput{
		Operation: *op,
		Start:     start,
		End:       end,
		Logs:      logs,
		Tasks:     tasks,
		Standards: standards,
		Employees: employees,
		Location:  s.loc,
	}, nil
}

// parseActivities 解析逗号分隔的作业环节，去重后按字典序返回
func parseActivities(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		a := strings.TrimSpace(part)
		if a == "" {
			continue
		}
		if !model.IsValidActivity(a) {
			return nil, ErrDashboardBadActivity
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out, nil
}

func toDashboardResponse(op *model.Operation, start, end time.Time, snap labor.Snapshot) *dto.DashboardResponse {
	resp := &dto.DashboardResponse{
		OperationID:          op.OperationID,
		OperationName:        op.Name,
		StartDate:            labor.FormatDate(start),
		EndDate:              labor.FormatDate(end),
		ActiveEmployees:      snap.ActiveEmployees,
		TasksProgress:        labor.Round(snap.TasksProgress, 1),
		TotalTasksToday:      snap.TotalTasksToday,
		PlannedTasksToday:    snap.PlannedTasksToday,
		OverallProductivity:  snap.OverallProductivity,
		DemandVsExecution:    make([]dto.ActivityDemandResponse, 0, len(snap.DemandVsExecution)),
		EmployeeDistribution: make([]dto.DistributionEntry, 0, len(snap.EmployeeDistribution)),
		HeadcountVsDemand:    make([]dto.HeadcountPoint, 0, len(snap.HeadcountVsDemand)),
	}

	for _, d := range snap.DemandVsExecution {
		resp.DemandVsExecution = append(resp.DemandVsExecution, dto.ActivityDemandResponse{
			Name:    d.Activity,
			Planned: d.Planned,
			Actual:  d.Actual,
			Driver:  d.Driver,
		})
	}
	for _, a := range model.Activities {
		if n := snap.EmployeeDistribution[string(a)]; n > 0 {
			resp.EmployeeDistribution = append(resp.EmployeeDistribution, dto.DistributionEntry{Name: string(a), Value: n})
		}
	}
	for _, h := range snap.HeadcountVsDemand {
		resp.HeadcountVsDemand = append(resp.HeadcountVsDemand, dto.HeadcountPoint{
			Date:      labor.FormatDate(h.Date),
			Day:       h.Date.Weekday().String()[:3],
			Headcount: h.Headcount,
			Demand:    h.Demand,
		})
	}
	if f := snap.Filtered; f != nil {
		resp.Filtered = &dto.FilteredTotalsResponse{
			Activities:          f.Activities,
			PlannedTasks:        f.Planned,
			TotalTasks:          f.Actual,
			TasksProgress:       labor.Round(f.Progress, 1),
			OverallProductivity: f.OverallProductivity,
		}
	}
	if a := snap.Absenteeism; a != nil {
		resp.Absenteeism = &dto.AbsenteeismResponse{
			TotalHeadcount:      op.TotalHeadcount,
			EmployeesOnVacation: op.EmployeesOnVacation,
			EffectiveHeadcount:  a.EffectiveHeadcount,
			AbsentToday:         a.AbsentToday,
			AbsenteeismRate:     labor.Round(a.Rate, 1),
		}
	}
	return resp
}
