package dto

// ── 打卡模块 DTO ──

// TimeLogListRequest 打卡记录查询参数
type TimeLogListRequest struct {
	PaginationRequest
	EmployeeName string `form:"employee_name" binding:"omitempty,max=100"`
	Type         string `form:"type"          binding:"omitempty,log_type"`
	Period       string `form:"period"        binding:"omitempty,oneof=all day week month"`
}

// ClockRequest 打卡请求
type ClockRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Type       string `json:"type"        binding:"required,log_type"`
	Activity   string `json:"activity"    binding:"required,activity"`
}

// TimeLogResponse 打卡记录响应
type TimeLogResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Type         string `json:"type"`
	Timestamp    string `json:"timestamp"`
	Activity     string `json:"activity"`
}
