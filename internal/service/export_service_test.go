package service

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"laborsync/backend/internal/dto"
)

func TestExportDashboard(t *testing.T) {
	dashboard, f := setupDashboardFixture(0)
	svc := NewExportService(f.repo, dashboard, f.logger)

	buf, filename, err := svc.ExportDashboard(context.Background(), "op-1", &dto.DashboardRequest{Date: "06/03/2024"})
	if err != nil {
		t.Fatalf("导出仪表盘失败: %v", err)
	}
	if filename != "dashboard_20240306.xlsx" {
		t.Errorf("文件名不正确: %s", filename)
	}

	xf, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法打开导出文件: %v", err)
	}
	defer xf.Close()

	sheets := xf.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "概览" || sheets[1] != "需求与执行" {
		t.Fatalf("工作表不正确: %v", sheets)
	}

	if v, _ := xf.GetCellValue("概览", "B2"); v != "1" {
		t.Errorf("期望在岗员工 1，实际 %s", v)
	}
	if v, _ := xf.GetCellValue("需求与执行", "A2"); v != "Receiving" {
		t.Errorf("首个作业环节应为 Receiving，实际 %s", v)
	}
	// Picking：完成 200 / 计划 400
	if v, _ := xf.GetCellValue("需求与执行", "E4"); v != "50" {
		t.Errorf("期望 Picking 完成率 50，实际 %s", v)
	}
}

func TestExportTasks(t *testing.T) {
	dashboard, f := setupDashboardFixture(0)
	svc := NewExportService(f.repo, dashboard, f.logger)

	buf, filename, err := svc.ExportTasks(context.Background(), "op-1", &dto.TaskListRequest{StartDate: "06/03/2024", EndDate: "06/03/2024"})
	if err != nil {
		t.Fatalf("导出作业记录失败: %v", err)
	}
	if filename != "tasks_20240306.xlsx" {
		t.Errorf("文件名不正确: %s", filename)
	}

	xf, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法打开导出文件: %v", err)
	}
	defer xf.Close()

	rows, err := xf.GetRows("作业记录")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("期望表头 + 2 行，实际 %d", len(rows))
	}

	// 单条生产率：Ana 200/100 ÷ 2h = 100；Bruno 50/50 ÷ 2h = 50
	got := map[string]string{rows[1][1]: rows[1][6], rows[2][1]: rows[2][6]}
	if got["Ana"] != "100" || got["Bruno"] != "50" {
		t.Errorf("单条生产率不正确: %v", got)
	}
}
