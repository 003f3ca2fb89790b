package dto

// ── 员工模块 DTO ──

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	Name     string `form:"name"     binding:"omitempty,max=100"`
	Activity string `form:"activity" binding:"omitempty,activity"`
}

// CreateEmployeeRequest 创建员工请求，路径中的运营点会自动加入 operation_ids
type CreateEmployeeRequest struct {
	Name             string   `json:"name"              binding:"required,max=100"`
	Activities       []string `json:"activities"        binding:"required,min=1,dive,activity"`
	RegistrationDate string   `json:"registration_date" binding:"omitempty,br_date"`
	Photo            string   `json:"photo"             binding:"omitempty,startswith=data:image/"`
	OperationIDs     []string `json:"operation_ids"     binding:"omitempty,dive,uuid"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	Name         *string   `json:"name"          binding:"omitempty,max=100"`
	Activities   *[]string `json:"activities"    binding:"omitempty,min=1,dive,activity"`
	Photo        *string   `json:"photo"         binding:"omitempty,startswith=data:image/"`
	OperationIDs *[]string `json:"operation_ids" binding:"omitempty,min=1,dive,uuid"`
}

// EmployeeResponse 员工响应（含由打卡记录推导的状态）
type EmployeeResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Activities       []string `json:"activities"`
	RegistrationDate string   `json:"registration_date"`
	Photo            string   `json:"photo,omitempty"`
	OperationIDs     []string `json:"operation_ids"`
	Status           string   `json:"status"` // Online | Offline
	CurrentActivity  string   `json:"current_activity,omitempty"`
}

// ActivityProductivityResponse 某作业环节员工与团队生产率对比
type ActivityProductivityResponse struct {
	Activity string  `json:"activity"`
	Employee float64 `json:"employee"`
	Team     float64 `json:"team"`
}

// EmployeeDetailResponse 员工详情
type EmployeeDetailResponse struct {
	EmployeeResponse
	TodayWorkMinutes        int                            `json:"today_work_minutes"`
	TodayWorkFormatted      string                         `json:"today_work_formatted"` // "02h 05m"
	TodayTasksCompleted     float64                        `json:"today_tasks_completed"`
	OverallProductivity     float64                        `json:"overall_productivity"`
	TeamAverageProductivity float64                        `json:"team_average_productivity"`
	ProductivityByActivity  []ActivityProductivityResponse `json:"productivity_by_activity"`
}

// EmployeeHistoryResponse 员工历史记录
type EmployeeHistoryResponse struct {
	TimeLogs []TimeLogResponse       `json:"time_logs"`
	Tasks    []TaskExecutionResponse `json:"tasks"`
}
