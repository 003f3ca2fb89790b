package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborsync/backend/config"
	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// maxImportRows 单次导入最大行数（不含表头）
const maxImportRows = 1000

// ── 作业执行模块业务错误 ──

var (
	ErrTaskNotFound        = errors.New("作业记录不存在")
	ErrTaskNoActiveCheckIn = errors.New("员工当前未在该作业环节签到")
	ErrImportNoData        = errors.New("文件中没有有效数据行")
	ErrImportTooManyRows   = errors.New("单次导入不能超过 1000 行")
	ErrImportBadHeader     = errors.New("表头缺少必要列")
)

// TaskExecutionService 作业执行记录业务接口
type TaskExecutionService interface {
	List(ctx context.Context, operationID string, req *dto.TaskListRequest) ([]dto.TaskExecutionResponse, int64, error)
	// Create 手工录入，要求员工当前在该作业环节签到
	Create(ctx context.Context, operationID string, req *dto.CreateTaskRequest, callerID string) (*dto.TaskExecutionResponse, error)
	Update(ctx context.Context, operationID, id string, req *dto.UpdateTaskRequest, callerID string) (*dto.TaskExecutionResponse, error)
	Delete(ctx context.Context, operationID, id string) error
	ParseImportFile(reader io.Reader) ([]ImportTaskRow, error)
	Import(ctx context.Context, operationID string, rows []ImportTaskRow, callerID string) (*dto.ImportResult, error)
	// Ingest 外部系统推送，不要求签到
	Ingest(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskExecutionResponse, error)
}

// ImportTaskRow Excel 导入解析后的单行数据
type ImportTaskRow struct {
	Row            int
	EmployeeID     string
	EmployeeName   string
	Activity       string
	Quantity       string
	Driver         string
	ExecutionHours string
	ExecutionDate  string
}

type taskExecutionService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewTaskExecutionService 创建 TaskExecutionService 实例
func NewTaskExecutionService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TaskExecutionService {
	return &taskExecutionService{
		repo:   repo,
		loc:    cfg.Labor.Location(),
		now:    time.Now,
		logger: logger,
	}
}

// ────────────────────── List ──────────────────────

func (s *taskExecutionService) List(ctx context.Context, operationID string, req *dto.TaskListRequest) ([]dto.TaskExecutionResponse, int64, error) {
	filter := repository.TaskFilter{
		EmployeeName: req.EmployeeName,
		Activity:     req.Activity,
		Offset:       req.GetOffset(),
		Limit:        req.GetPageSize(),
	}
	if d, ok := labor.ParseDate(req.StartDate); ok {
		filter.Start = &d
	}
	if d, ok := labor.ParseDate(req.EndDate); ok {
		filter.End = &d
	}

	tasks, total, err := s.repo.TaskExecution.ListByOperation(ctx, operationID, filter)
	if err != nil {
		s.logger.Error("查询作业记录失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.TaskExecutionResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, toTaskResponse(&tasks[i]))
	}
	return items, total, nil
}

// ────────────────────── Create ──────────────────────

func (s *taskExecutionService) Create(ctx context.Context, operationID string, req *dto.CreateTaskRequest, callerID string) (*dto.TaskExecutionResponse, error) {
	emp, err := findEmployeeInOperation(ctx, s.repo, s.logger, operationID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.TimeLog.ListByEmployee(ctx, emp.EmployeeID)
	if err != nil {
		s.logger.Error("查询员工打卡记录失败", zap.String("id", emp.EmployeeID), zap.Error(err))
		return nil, err
	}
	if st := labor.StatusOf(emp.EmployeeID, logs); !st.Online || st.Activity != req.Activity {
		return nil, ErrTaskNoActiveCheckIn
	}

	task := s.newTask(emp, req, model.TaskSourceManual)
	task.CreatedBy = &callerID
	if err := s.repo.TaskExecution.Create(ctx, task); err != nil {
		s.logger.Error("创建作业记录失败", zap.Error(err))
		return nil, err
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

// ────────────────────── Ingest ──────────────────────

func (s *taskExecutionService) Ingest(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskExecutionResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	task := s.newTask(emp, req, model.TaskSourceAPI)
	if err := s.repo.TaskExecution.Create(ctx, task); err != nil {
		s.logger.Error("写入集成作业记录失败", zap.Error(err))
		return nil, err
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

func (s *taskExecutionService) newTask(emp *model.Employee, req *dto.CreateTaskRequest, source string) *model.TaskExecution {
	date := req.ExecutionDate
	if date == "" {
		date = labor.FormatDate(labor.CalendarDay(s.now(), s.loc))
	}
	return &model.TaskExecution{
		EmployeeID:     emp.EmployeeID,
		EmployeeName:   emp.Name,
		Activity:       req.Activity,
		Quantity:       req.Quantity,
		Driver:         req.Driver,
		ExecutionHours: req.ExecutionHours,
		ExecutionDate:  date,
		Source:         source,
	}
}

// ────────────────────── Update ──────────────────────

func (s *taskExecutionService) Update(ctx context.Context, operationID, id string, req *dto.UpdateTaskRequest, callerID string) (*dto.TaskExecutionResponse, error) {
	task, err := s.getInOperation(ctx, operationID, id)
	if err != nil {
		return nil, err
	}

	if req.Activity != nil {
		task.Activity = *req.Activity
	}
	if req.Quantity != nil {
		task.Quantity = *req.Quantity
	}
	if req.Driver != nil {
		task.Driver = *req.Driver
	}
	if req.ExecutionHours != nil {
		task.ExecutionHours = *req.ExecutionHours
	}
	if req.ExecutionDate != nil {
		task.ExecutionDate = *req.ExecutionDate
	}

	task.UpdatedBy = &callerID
	if err := s.repo.TaskExecution.Update(ctx, task); err != nil {
		s.logger.Error("更新作业记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *taskExecutionService) Delete(ctx context.Context, operationID, id string) error {
	if _, err := s.getInOperation(ctx, operationID, id); err != nil {
		return err
	}
	if err := s.repo.TaskExecution.Delete(ctx, id); err != nil {
		s.logger.Error("删除作业记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// getInOperation 记录不存在或其员工不属于该运营点均视为不存在
func (s *taskExecutionService) getInOperation(ctx context.Context, operationID, id string) (*model.TaskExecution, error) {
	task, err := s.repo.TaskExecution.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询作业记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if _, err := findEmployeeInOperation(ctx, s.repo, s.logger, operationID, task.EmployeeID); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// ────────────────────── ParseImportFile ──────────────────────

func (s *taskExecutionService) ParseImportFile(reader io.Reader) ([]ImportTaskRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseTaskHeaderIndex(excelRows[0])
	if colIndex["employee_id"] < 0 && colIndex["employee_name"] < 0 {
		return nil, ErrImportBadHeader
	}
	for _, col := range []string{"activity", "quantity", "driver", "execution_hours"} {
		if colIndex[col] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	cell := func(row []string, col string) string {
		if idx := colIndex[col]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportTaskRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportTaskRow{
			Row:            i + 1,
			EmployeeID:     cell(row, "employee_id"),
			EmployeeName:   cell(row, "employee_name"),
			Activity:       cell(row, "activity"),
			Quantity:       cell(row, "quantity"),
			Driver:         cell(row, "driver"),
			ExecutionHours: cell(row, "execution_hours"),
			ExecutionDate:  cell(row, "execution_date"),
		}

		// 跳过全空行
		if item.EmployeeID == "" && item.EmployeeName == "" && item.Activity == "" &&
			item.Quantity == "" && item.Driver == "" && item.ExecutionHours == "" && item.ExecutionDate == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseTaskHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseTaskHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"employee_id":     -1,
		"employee_name":   -1,
		"activity":        -1,
		"quantity":        -1,
		"driver":          -1,
		"execution_hours": -1,
		"execution_date":  -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch lower {
		case "employee_id", "employee id", "员工id", "员工编号":
			idx["employee_id"] = i
		case "employee_name", "employee", "员工", "员工姓名", "funcionário", "funcionario":
			idx["employee_name"] = i
		case "activity", "作业环节", "atividade":
			idx["activity"] = i
		case "quantity", "数量", "quantidade":
			idx["quantity"] = i
		case "driver", "计量单位":
			idx["driver"] = i
		case "execution_hours", "hours", "工时", "horas":
			idx["execution_hours"] = i
		case "execution_date", "date", "日期", "data":
			idx["execution_date"] = i
		}
	}
	return idx
}

// ────────────────────── Import ──────────────────────

func (s *taskExecutionService) Import(ctx context.Context, operationID string, rows []ImportTaskRow, callerID string) (*dto.ImportResult, error) {
	resp := &dto.ImportResult{Total: len(rows)}

	// 预加载运营点员工，便于按编号或姓名查找
	emps, err := s.repo.Employee.ListByOperation(ctx, operationID, repository.EmployeeFilter{})
	if err != nil {
		s.logger.Error("加载员工列表失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, err
	}
	byID := make(map[string]*model.Employee, len(emps))
	byName := make(map[string][]*model.Employee, len(emps))
	for i := range emps {
		e := &emps[i]
		byID[e.EmployeeID] = e
		key := strings.ToLower(e.Name)
		byName[key] = append(byName[key], e)
	}

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row, Reason: reason})
	}

	today := labor.FormatDate(labor.CalendarDay(s.now(), s.loc))

	// 第一阶段：逐行校验
	var tasks []model.TaskExecution
	for _, row := range rows {
		var emp *model.Employee
		switch {
		case row.EmployeeID != "":
			emp = byID[row.EmployeeID]
			if emp == nil {
				fail(row.Row, fmt.Sprintf("员工不存在: %s", row.EmployeeID))
				continue
			}
		case row.EmployeeName != "":
			matches := byName[strings.ToLower(row.EmployeeName)]
			if len(matches) == 0 {
				fail(row.Row, fmt.Sprintf("员工不存在: %s", row.EmployeeName))
				continue
			}
			if len(matches) > 1 {
				fail(row.Row, fmt.Sprintf("员工姓名重复，请使用员工编号: %s", row.EmployeeName))
				continue
			}
			emp = matches[0]
		default:
			fail(row.Row, "员工为空")
			continue
		}

		if !model.IsValidActivity(row.Activity) {
			fail(row.Row, fmt.Sprintf("作业环节无效: %s", row.Activity))
			continue
		}
		if !model.IsValidDriver(row.Driver) {
			fail(row.Row, fmt.Sprintf("计量单位无效: %s", row.Driver))
			continue
		}
		quantity, err := parseNonNegative(row.Quantity)
		if err != nil {
			fail(row.Row, fmt.Sprintf("数量无效: %s", row.Quantity))
			continue
		}
		hours, err := parseNonNegative(row.ExecutionHours)
		if err != nil {
			fail(row.Row, fmt.Sprintf("工时无效: %s", row.ExecutionHours))
			continue
		}
		date := today
		if row.ExecutionDate != "" {
			d, ok := labor.ParseDate(row.ExecutionDate)
			if !ok {
				fail(row.Row, fmt.Sprintf("日期格式应为 DD/MM/YYYY: %s", row.ExecutionDate))
				continue
			}
			date = labor.FormatDate(d)
		}

		task := model.TaskExecution{
			EmployeeID:     emp.EmployeeID,
			EmployeeName:   emp.Name,
			Activity:       row.Activity,
			Quantity:       quantity,
			Driver:         row.Driver,
			ExecutionHours: hours,
			ExecutionDate:  date,
			Source:         model.TaskSourceImport,
		}
		task.CreatedBy = &callerID
		tasks = append(tasks, task)
	}

	// 第二阶段：批量写入通过校验的记录
	if len(tasks) > 0 {
		if err := s.repo.TaskExecution.BatchCreate(ctx, tasks); err != nil {
			s.logger.Error("批量导入作业记录失败", zap.String("operation_id", operationID), zap.Error(err))
			return nil, err
		}
	}
	resp.Success = len(tasks)

	s.logger.Info("作业记录导入完成",
		zap.String("operation_id", operationID),
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// parseNonNegative 解析非负数，兼容逗号小数点
func parseNonNegative(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid value %v", v)
	}
	return v, nil
}

func toTaskResponse(t *model.TaskExecution) dto.TaskExecutionResponse {
	return dto.TaskExecutionResponse{
		ID:             t.TaskExecutionID,
		EmployeeID:     t.EmployeeID,
		EmployeeName:   t.EmployeeName,
		Activity:       t.Activity,
		Quantity:       t.Quantity,
		Driver:         t.Driver,
		ExecutionHours: t.ExecutionHours,
		ExecutionDate:  t.ExecutionDate,
		Source:         t.Source,
	}
}
