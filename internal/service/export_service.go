package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportDashboard 导出仪表盘：概览 + 各作业环节需求与执行
	ExportDashboard(ctx context.Context, operationID string, req *dto.DashboardRequest) (*bytes.Buffer, string, error)
	// ExportTasks 导出区间内作业记录及单条生产率
	ExportTasks(ctx context.Context, operationID string, req *dto.TaskListRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo      *repository.Repository
	dashboard DashboardService
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, dashboard DashboardService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, dashboard: dashboard, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportDashboard
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "概览"：指标名 / 数值
//   - Sheet "需求与执行"：作业环节 / 计量单位 / 计划 / 完成 / 完成率

func (s *exportService) ExportDashboard(ctx context.Context, operationID string, req *dto.DashboardRequest) (*bytes.Buffer, string, error) {
	snap, err := s.dashboard.GetSnapshot(ctx, operationID, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	summary := "概览"
	idx, _ := f.NewSheet(summary)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle := newHeaderStyle(f)

	f.SetCellValue(summary, "A1", fmt.Sprintf("%s %s - %s", snap.OperationName, snap.StartDate, snap.EndDate))
	f.MergeCell(summary, "A1", "B1")
	f.SetCellStyle(summary, "A1", "B1", headerStyle)
	f.SetColWidth(summary, "A", "A", 24)
	f.SetColWidth(summary, "B", "B", 16)

	metrics := [][2]interface{}{
		{"在岗员工", snap.ActiveEmployees},
		{"计划量", snap.PlannedTasksToday},
		{"完成量", snap.TotalTasksToday},
		{"完成进度 (%)", snap.TasksProgress},
		{"总体生产率 (%)", snap.OverallProductivity},
	}
	if a := snap.Absenteeism; a != nil {
		metrics = append(metrics,
			[2]interface{}{"有效人数", a.EffectiveHeadcount},
			[2]interface{}{"今日缺勤", a.AbsentToday},
			[2]interface{}{"缺勤率 (%)", a.AbsenteeismRate},
		)
	}
	for i, m := range metrics {
		row := i + 2
		f.SetCellValue(summary, cell("A", row), m[0])
		f.SetCellValue(summary, cell("B", row), m[1])
	}

	demand := "需求与执行"
	f.NewSheet(demand)
	headers := []string{"作业环节", "计量单位", "计划", "完成", "完成率 (%)"}
	for i, h := range headers {
		f.SetCellValue(demand, cell(colName(i), 1), h)
	}
	f.SetCellStyle(demand, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(demand, "A", "E", 16)

	for i, d := range snap.DemandVsExecution {
		row := i + 2
		rate := 0.0
		if d.Planned > 0 {
			rate = labor.Round(d.Actual/d.Planned*100, 1)
		}
		f.SetCellValue(demand, cell("A", row), d.Name)
		f.SetCellValue(demand, cell("B", row), d.Driver)
		f.SetCellValue(demand, cell("C", row), d.Planned)
		f.SetCellValue(demand, cell("D", row), d.Actual)
		f.SetCellValue(demand, cell("E", row), rate)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("dashboard_%s.xlsx", compactDate(snap.StartDate))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTasks
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTasks(ctx context.Context, operationID string, req *dto.TaskListRequest) (*bytes.Buffer, string, error) {
	filter := repository.TaskFilter{
		EmployeeName: req.EmployeeName,
		Activity:     req.Activity,
	}
	if d, ok := labor.ParseDate(req.StartDate); ok {
		filter.Start = &d
	}
	if d, ok := labor.ParseDate(req.EndDate); ok {
		filter.End = &d
	}

	tasks, _, err := s.repo.TaskExecution.ListByOperation(ctx, operationID, filter)
	if err != nil {
		s.logger.Error("查询作业记录失败", zap.String("operation_id", operationID), zap.Error(err))
		return nil, "", err
	}
	standards, err := s.repo.Standard.List(ctx, repository.StandardFilter{})
	if err != nil {
		s.logger.Error("查询工程标准失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "作业记录"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"日期", "员工", "作业环节", "计量单位", "数量", "工时", "生产率 (%)", "来源"}
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), newHeaderStyle(f))
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 24)
	f.SetColWidth(sheet, "C", "H", 14)

	for i := range tasks {
		t := tasks[i]
		row := i + 2
		prod := labor.Round(labor.ComputeProductivity([]model.TaskExecution{t}, standards), 1)
		f.SetCellValue(sheet, cell("A", row), t.ExecutionDate)
		f.SetCellValue(sheet, cell("B", row), t.EmployeeName)
		f.SetCellValue(sheet, cell("C", row), t.Activity)
		f.SetCellValue(sheet, cell("D", row), t.Driver)
		f.SetCellValue(sheet, cell("E", row), t.Quantity)
		f.SetCellValue(sheet, cell("F", row), t.ExecutionHours)
		f.SetCellValue(sheet, cell("G", row), prod)
		f.SetCellValue(sheet, cell("H", row), t.Source)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	name := "all"
	if filter.Start != nil {
		name = filter.Start.Format("20060102")
	}
	return buf, fmt.Sprintf("tasks_%s.xlsx", name), nil
}

// ── 辅助函数 ──

func newHeaderStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return style
}

// compactDate DD/MM/YYYY → YYYYMMDD，无法解析时原样返回
func compactDate(s string) string {
	if d, ok := labor.ParseDate(s); ok {
		return d.Format("20060102")
	}
	return s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
