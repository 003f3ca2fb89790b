package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborsync/backend/config"
	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ShiftOff 排班表中休息日的展示值
const ShiftOff = "Off"

// PlanningService 排班计划业务接口
type PlanningService interface {
	GetShiftPlan(ctx context.Context, operationID string, req *dto.ShiftPlanRequest) (*dto.ShiftPlanResponse, error)
	// ExportICS 以 iCalendar 导出周排班，每个员工工作日一个事件
	ExportICS(ctx context.Context, operationID string, req *dto.ShiftPlanRequest) ([]byte, string, error)
}

type planningService struct {
	repo              *repository.Repository
	loc               *time.Location
	shiftStart        string
	defaultWorkHours  float64
	defaultBreakHours float64
	now               func() time.Time
	logger            *zap.Logger
}

// NewPlanningService 创建 PlanningService 实例
func NewPlanningService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PlanningService {
	return &planningService{
		repo:              repo,
		loc:               cfg.Labor.Location(),
		shiftStart:        cfg.Labor.ShiftStart,
		defaultWorkHours:  cfg.Labor.DefaultWorkHours,
		defaultBreakHours: cfg.Labor.DefaultBreakHours,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *planningService) GetShiftPlan(ctx context.Context, operationID string, req *dto.ShiftPlanRequest) (*dto.ShiftPlanResponse, error) {
	_, plan, err := s.buildPlan(ctx, operationID, req)
	if err != nil {
		return nil, err
	}
	return toShiftPlanResponse(operationID, plan), nil
}

func (s *planningService) ExportICS(ctx context.Context, operationID string, req *dto.ShiftPlanRequest) ([]byte, string, error) {
	op, plan, err := s.buildPlan(ctx, operationID, req)
	if err != nil {
		return nil, "", err
	}

	hour, minute := 8, 0
	if t, err := time.Parse("15:04", s.shiftStart); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}

	stamp := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//LaborSync//Shift Plan//EN")
	cal.SetXWRCalName(fmt.Sprintf("%s %s", op.Name, labor.FormatDate(plan.WeekStart)))

	for _, row := range plan.Rows {
		for i, cell := range row.Days {
			if cell.Off() {
				continue
			}
			day := plan.Days[i]
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, s.loc)
			end := start.Add(time.Duration(cell.WorkHours * float64(time.Hour)))

			event := cal.AddEvent(fmt.Sprintf("%s-%s@laborsync", row.EmployeeID, day.Format("20060102")))
			event.SetDtStampTime(stamp)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(fmt.Sprintf("%s · %s", row.EmployeeName, cell.Activity))
			desc := fmt.Sprintf("%s (%s)", cell.Activity, op.Name)
			if cell.BreakHours > 0 {
				desc += fmt.Sprintf(", break %sh", strconv.FormatFloat(cell.BreakHours, 'f', -1, 64))
			}
			event.SetDescription(desc)
			if op.Location != "" {
				event.SetLocation(op.Location)
			}
		}
	}

	filename := fmt.Sprintf("shift-plan_%s.ics", plan.WeekStart.Format("2006-01-02"))
	return []byte(cal.Serialize()), filename, nil
}

func (s *planningService) buildPlan(ctx context.Context, operationID string, req *dto.ShiftPlanRequest) (*model.Operation, labor.ShiftPlan, error) {
	op, err := s.repo.Operation.GetByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, labor.ShiftPlan{}, ErrOperationNotFound
		}
		s.logger.Error("查询运营点失败", zap.String("id", operationID), zap.Error(err))
		return nil, labor.ShiftPlan{}, err
	}

	week := labor.CalendarDay(s.now(), s.loc)
	if d, ok := labor.ParseDate(req.Week); ok {
		week = d
	}

	employees, err := s.repo.Employee.ListByOperation(ctx, operationID, repository.EmployeeFilter{})
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, labor.ShiftPlan{}, err
	}
	standards, err := s.repo.Standard.List(ctx, repository.StandardFilter{})
	if err != nil {
		s.logger.Error("查询工程标准失败", zap.Error(err))
		return nil, labor.ShiftPlan{}, err
	}

	plan := labor.PlanShifts(labor.PlanInput{
		WeekStart:        week,
		Employees:        employees,
		Standards:        standards,
		DefaultWorkHours:  s.defaultWorkHours,
		DefaultBreakHours: s.defaultBreakHours,
	})
	return op, plan, nil
}

func toShiftPlanResponse(operationID string, plan labor.ShiftPlan) *dto.ShiftPlanResponse {
	resp := &dto.ShiftPlanResponse{
		OperationID: operationID,
		WeekStart:   labor.FormatDate(plan.WeekStart),
		Days:        make([]string, 0, len(plan.Days)),
		Rows:        make([]dto.ShiftRowResponse, 0, len(plan.Rows)),
		Coverage:    make([]dto.CoverageResponse, 0, len(plan.Coverage)),
	}
	for _, d := range plan.Days {
		resp.Days = append(resp.Days, labor.FormatDate(d))
	}
	for _, row := range plan.Rows {
		r := dto.ShiftRowResponse{
			EmployeeID:   row.EmployeeID,
			EmployeeName: row.EmployeeName,
			Shifts:       make([]string, 0, len(row.Days)),
		}
		for _, cell := range row.Days {
			if cell.Off() {
				r.Shifts = append(r.Shifts, ShiftOff)
			} else {
				r.Shifts = append(r.Shifts, cell.Activity)
			}
		}
		resp.Rows = append(resp.Rows, r)
	}
	for _, c := range plan.Coverage {
		resp.Coverage = append(resp.Coverage, dto.CoverageResponse{
			Date:      labor.FormatDate(c.Date),
			Activity:  c.Activity,
			Required:  c.Required,
			Assigned:  c.Assigned,
			Shortfall: c.Shortfall,
		})
	}
	return resp
}
