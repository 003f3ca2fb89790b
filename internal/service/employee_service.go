package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborsync/backend/config"
	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound     = errors.New("员工不存在")
	ErrEmployeeOperationIDs = errors.New("所属运营点不存在")
)

// 员工状态展示值
const (
	StatusOnline  = "Online"
	StatusOffline = "Offline"
)

// EmployeeService 员工业务接口，所有操作限定在路径中的运营点内
type EmployeeService interface {
	List(ctx context.Context, operationID string, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error)
	GetDetail(ctx context.Context, operationID, id string) (*dto.EmployeeDetailResponse, error)
	GetHistory(ctx context.Context, operationID, id string) (*dto.EmployeeHistoryResponse, error)
	Create(ctx context.Context, operationID string, req *dto.CreateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, operationID, id string, req *dto.UpdateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, operationID, id string, callerID string) error
}

type employeeService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{
		repo:   repo,
		loc:    cfg.Labor.Location(),
		now:    time.Now,
		logger: logger,
	}
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, operationID string, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error) {
	emps, err := s.repo.Employee.ListByOperation(ctx, operationID, repository.EmployeeFilter{
		Name:     req.Name,
		Activity: req.Activity,
	})
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}

	logs, _, err := s.repo.TimeLog.ListByOperation(ctx, operationID, repository.TimeLogFilter{})
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}
	statuses := labor.CurrentStatuses(logs)

	items := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		items = append(items, toEmployeeResponse(&emps[i], statuses[emps[i].EmployeeID]))
	}
	return items, nil
}

// ────────────────────── GetDetail ──────────────────────

func (s *employeeService) GetDetail(ctx context.Context, operationID, id string) (*dto.EmployeeDetailResponse, error) {
	emp, err := s.getInOperation(ctx, operationID, id)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.TimeLog.ListByEmployee(ctx, id)
	if err != nil {
		s.logger.Error("查询员工打卡记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	team, err := s.repo.Employee.ListByOperation(ctx, operationID, repository.EmployeeFilter{})
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}
	tasks, _, err := s.repo.TaskExecution.ListByOperation(ctx, operationID, repository.TaskFilter{})
	if err != nil {
		s.logger.Error("查询作业记录失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}
	standards, err := s.repo.Standard.List(ctx, repository.StandardFilter{})
	if err != nil {
		s.logger.Error("查询工程标准失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	status := labor.StatusOf(id, logs)
	prod := labor.CompareWithTeam(*emp, team, tasks, standards)

	today := labor.FormatDate(labor.CalendarDay(now, s.loc))
	completed := 0.0
	for _, t := range labor.TasksOf(id, tasks) {
		if t.ExecutionDate == today {
			completed += t.Quantity
		}
	}

	minutes := 0
	if status.Online {
		minutes = workedMinutes(logs, now)
	}

	resp := &dto.EmployeeDetailResponse{
		EmployeeResponse:        toEmployeeResponse(emp, status),
		TodayWorkMinutes:        minutes,
		TodayWorkFormatted:      fmt.Sprintf("%02dh %02dm", minutes/60, minutes%60),
		TodayTasksCompleted:     completed,
		OverallProductivity:     prod.Overall,
		TeamAverageProductivity: prod.TeamAverage,
		ProductivityByActivity:  make([]dto.ActivityProductivityResponse, 0, len(prod.ByActivity)),
	}
	for _, c := range prod.ByActivity {
		resp.ProductivityByActivity = append(resp.ProductivityByActivity, dto.ActivityProductivityResponse{
			Activity: c.Activity,
			Employee: c.Employee,
			Team:     c.Team,
		})
	}
	return resp, nil
}

// workedMinutes 距最近一次签到的整分钟数，logs 需按时间倒序
func workedMinutes(logs []model.TimeLog, now time.Time) int {
	for _, l := range logs {
		if l.Type != string(model.LogCheckIn) {
			continue
		}
		d := now.Sub(l.Timestamp)
		if d < 0 {
			return 0
		}
		return int(d / time.Minute)
	}
	return 0
}

// ────────────────────── GetHistory ──────────────────────

func (s *employeeService) GetHistory(ctx context.Context, operationID, id string) (*dto.EmployeeHistoryResponse, error) {
	if _, err := s.getInOperation(ctx, operationID, id); err != nil {
		return nil, err
	}

	logs, err := s.repo.TimeLog.ListByEmployee(ctx, id)
	if err != nil {
		s.logger.Error("查询员工打卡记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	tasks, err := s.repo.TaskExecution.ListByEmployee(ctx, id)
	if err != nil {
		s.logger.Error("查询员工作业记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := &dto.EmployeeHistoryResponse{
		TimeLogs: make([]dto.TimeLogResponse, 0, len(logs)),
		Tasks:    make([]dto.TaskExecutionResponse, 0, len(tasks)),
	}
	for i := range logs {
		resp.TimeLogs = append(resp.TimeLogs, toTimeLogResponse(&logs[i]))
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, operationID string, req *dto.CreateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error) {
	opIDs := appendUnique(req.OperationIDs, operationID)
	if err := s.checkOperations(ctx, opIDs); err != nil {
		return nil, err
	}

	regDate := labor.CalendarDay(s.now(), s.loc)
	if req.RegistrationDate != "" {
		// binding 已校验格式
		regDate, _ = labor.ParseDate(req.RegistrationDate)
	}

	emp := &model.Employee{
		Name:             req.Name,
		Activities:       model.StringArray(req.Activities),
		RegistrationDate: regDate,
		Photo:            req.Photo,
		OperationIDs:     model.StringArray(opIDs),
	}
	emp.CreatedBy = &callerID

	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	resp := toEmployeeResponse(emp, labor.Status{})
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, operationID, id string, req *dto.UpdateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error) {
	emp, err := s.getInOperation(ctx, operationID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Activities != nil {
		emp.Activities = model.StringArray(*req.Activities)
	}
	if req.Photo != nil {
		emp.Photo = *req.Photo
	}
	if req.OperationIDs != nil {
		if err := s.checkOperations(ctx, *req.OperationIDs); err != nil {
			return nil, err
		}
		emp.OperationIDs = model.StringArray(appendUnique(*req.OperationIDs))
	}

	emp.UpdatedBy = &callerID
	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		s.logger.Error("更新员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	logs, err := s.repo.TimeLog.ListByEmployee(ctx, id)
	if err != nil {
		s.logger.Error("查询员工打卡记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toEmployeeResponse(emp, labor.StatusOf(id, logs))
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, operationID, id string, callerID string) error {
	if _, err := s.getInOperation(ctx, operationID, id); err != nil {
		return err
	}
	if err := s.repo.Employee.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除员工失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// getInOperation 员工不存在或不属于该运营点均视为不存在
func (s *employeeService) getInOperation(ctx context.Context, operationID, id string) (*model.Employee, error) {
	return findEmployeeInOperation(ctx, s.repo, s.logger, operationID, id)
}

func (s *employeeService) checkOperations(ctx context.Context, ids []string) error {
	ops, err := s.repo.Operation.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询运营点失败", zap.Error(err))
		return err
	}
	if len(ops) != len(appendUnique(ids)) {
		return ErrEmployeeOperationIDs
	}
	return nil
}

func findEmployeeInOperation(
	ctx context.Context,
	repo *repository.Repository,
	logger *zap.Logger,
	operationID, id string,
) (*model.Employee, error) {
	emp, err := repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !emp.InOperation(operationID) {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

// appendUnique 去重并追加，保持首次出现顺序
func appendUnique(ids []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(ids)+len(extra))
	out := make([]string, 0, len(ids)+len(extra))
	for _, id := range append(append([]string{}, ids...), extra...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toEmployeeResponse(e *model.Employee, st labor.Status) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:               e.EmployeeID,
		Name:             e.Name,
		Activities:       nonNil(e.Activities),
		RegistrationDate: labor.FormatDate(e.RegistrationDate),
		Photo:            e.Photo,
		OperationIDs:     nonNil(e.OperationIDs),
		Status:           StatusOffline,
	}
	if st.Online {
		resp.Status = StatusOnline
		resp.CurrentActivity = st.Activity
	}
	return resp
}

func nonNil(a model.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}
