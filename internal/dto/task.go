package dto

// ── 作业执行模块 DTO ──

// TaskListRequest 作业执行记录查询参数
type TaskListRequest struct {
	PaginationRequest
	EmployeeName string `form:"employee_name" binding:"omitempty,max=100"`
	Activity     string `form:"activity"      binding:"omitempty,activity"`
	StartDate    string `form:"start_date"    binding:"omitempty,br_date"`
	EndDate      string `form:"end_date"      binding:"omitempty,br_date"`
}

// CreateTaskRequest 录入作业执行记录（手工录入与外部集成共用）
type CreateTaskRequest struct {
	EmployeeID     string  `json:"employee_id"     binding:"required,uuid"`
	Activity       string  `json:"activity"        binding:"required,activity"`
	Quantity       float64 `json:"quantity"        binding:"min=0"`
	Driver         string  `json:"driver"          binding:"required,driver"`
	ExecutionHours float64 `json:"execution_hours" binding:"min=0"`
	ExecutionDate  string  `json:"execution_date"  binding:"omitempty,br_date"` // 为空时取当天
}

// UpdateTaskRequest 更新作业执行记录
type UpdateTaskRequest struct {
	Activity       *string  `json:"activity"        binding:"omitempty,activity"`
	Quantity       *float64 `json:"quantity"        binding:"omitempty,min=0"`
	Driver         *string  `json:"driver"          binding:"omitempty,driver"`
	ExecutionHours *float64 `json:"execution_hours" binding:"omitempty,min=0"`
	ExecutionDate  *string  `json:"execution_date"  binding:"omitempty,br_date"`
}

// TaskExecutionResponse 作业执行记录响应
type TaskExecutionResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Activity       string  `json:"activity"`
	Quantity       float64 `json:"quantity"`
	Driver         string  `json:"driver"`
	ExecutionHours float64 `json:"execution_hours"`
	ExecutionDate  string  `json:"execution_date"`
	Source         string  `json:"source"`
}
