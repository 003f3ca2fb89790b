package dto

// ── 仪表盘模块 DTO ──

// DashboardRequest 仪表盘查询参数
// 指定 start_date/end_date 时忽略 period/date
type DashboardRequest struct {
	Period     string `form:"period"     binding:"omitempty,oneof=day week month"`
	Date       string `form:"date"       binding:"omitempty,br_date"`
	StartDate  string `form:"start_date" binding:"omitempty,br_date"`
	EndDate    string `form:"end_date"   binding:"omitempty,br_date"`
	Activities string `form:"activities" binding:"omitempty,max=200"` // 逗号分隔
}

// ActivityDemandResponse 单个作业环节的计划与完成量
type ActivityDemandResponse struct {
	Name    string  `json:"name"`
	Planned float64 `json:"planned"`
	Actual  float64 `json:"actual"`
	Driver  string  `json:"driver"`
}

// DistributionEntry 在岗员工按作业环节分布
type DistributionEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// HeadcountPoint 每日需求人数与到岗人数
type HeadcountPoint struct {
	Date      string `json:"date"`
	Day       string `json:"day"`
	Headcount int    `json:"headcount"`
	Demand    int    `json:"demand"`
}

// AbsenteeismResponse 缺勤统计
type AbsenteeismResponse struct {
	TotalHeadcount      int     `json:"total_headcount"`
	EmployeesOnVacation int     `json:"employees_on_vacation"`
	EffectiveHeadcount  int     `json:"effective_headcount"`
	AbsentToday         int     `json:"absent_today"`
	AbsenteeismRate     float64 `json:"absenteeism_rate"`
}

// FilteredTotalsResponse 选定作业环节的汇总指标
type FilteredTotalsResponse struct {
	Activities          []string `json:"activities"`
	PlannedTasks        float64  `json:"planned_tasks"`
	TotalTasks          float64  `json:"total_tasks"`
	TasksProgress       float64  `json:"tasks_progress"`
	OverallProductivity int      `json:"overall_productivity"`
}

// DashboardResponse 仪表盘快照
type DashboardResponse struct {
	OperationID          string                   `json:"operation_id"`
	OperationName        string                   `json:"operation_name"`
	StartDate            string                   `json:"start_date"`
	EndDate              string                   `json:"end_date"`
	ActiveEmployees      int                      `json:"active_employees"`
	TasksProgress        float64                  `json:"tasks_progress"`
	TotalTasksToday      float64                  `json:"total_tasks_today"`
	PlannedTasksToday    float64                  `json:"planned_tasks_today"`
	OverallProductivity  int                      `json:"overall_productivity"`
	DemandVsExecution    []ActivityDemandResponse `json:"demand_vs_execution_by_activity"`
	EmployeeDistribution []DistributionEntry      `json:"employee_distribution"`
	HeadcountVsDemand    []HeadcountPoint         `json:"headcount_vs_demand"`
	Absenteeism          *AbsenteeismResponse     `json:"absenteeism,omitempty"`
	Filtered             *FilteredTotalsResponse  `json:"filtered,omitempty"`
}
