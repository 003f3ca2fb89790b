package dto

// ── 排班计划模块 DTO ──

// ShiftPlanRequest 排班计划查询参数，week 为该周任意一天
type ShiftPlanRequest struct {
	Week string `form:"week" binding:"omitempty,br_date"`
}

// ShiftRowResponse 单个员工的周排班，shifts 按 days 顺序给出作业环节或 "Off"
type ShiftRowResponse struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Shifts       []string `json:"shifts"`
}

// CoverageResponse 需求覆盖情况
type CoverageResponse struct {
	Date      string `json:"date"`
	Activity  string `json:"activity"`
	Required  int    `json:"required"`
	Assigned  int    `json:"assigned"`
	Shortfall int    `json:"shortfall"`
}

// ShiftPlanResponse 周排班计划
type ShiftPlanResponse struct {
	OperationID string             `json:"operation_id"`
	WeekStart   string             `json:"week_start"`
	Days        []string           `json:"days"`
	Rows        []ShiftRowResponse `json:"rows"`
	Coverage    []CoverageResponse `json:"coverage"`
}
