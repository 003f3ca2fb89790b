package dto

// ── 工程标准模块 DTO ──

// StandardListRequest 工程标准查询参数
type StandardListRequest struct {
	StartDate   string `form:"start_date"   binding:"omitempty,br_date"`
	EndDate     string `form:"end_date"     binding:"omitempty,br_date"`
	Activity    string `form:"activity"     binding:"omitempty,activity"`
	ProcessType string `form:"process_type" binding:"omitempty,process_type"`
}

// StandardRequest 创建/更新工程标准，小时产能与人数由服务端重算
type StandardRequest struct {
	Activity           string  `json:"activity"            binding:"required,activity"`
	ProcessType        string  `json:"process_type"        binding:"required,process_type"`
	Driver             string  `json:"driver"              binding:"required,driver"`
	CycleTime          float64 `json:"cycle_time"          binding:"min=0"`
	HourlyProductivity float64 `json:"hourly_productivity" binding:"min=0"`
	DailyDemand        float64 `json:"daily_demand"        binding:"min=0"`
	WorkTime           float64 `json:"work_time"           binding:"min=0,max=24"`
	BreakTime          float64 `json:"break_time"          binding:"min=0,max=24"`
	ExecutionDate      string  `json:"execution_date"      binding:"required,br_date"`
}

// UpdateStandardRequest 更新工程标准（乐观锁）
type UpdateStandardRequest struct {
	StandardRequest
	Version int `json:"version" binding:"required,min=1"`
}

// StandardValues 参与计算的数值字段
type StandardValues struct {
	CycleTime          float64 `json:"cycle_time"          binding:"min=0"`
	HourlyProductivity float64 `json:"hourly_productivity" binding:"min=0"`
	DailyDemand        float64 `json:"daily_demand"        binding:"min=0"`
	WorkTime           float64 `json:"work_time"           binding:"min=0"`
	BreakTime          float64 `json:"break_time"          binding:"min=0"`
	Headcounts         int     `json:"headcounts"`
}

// RecomputeRequest 表单单字段修改预览
// value 可为数字或字符串，非数值按 0 处理
type RecomputeRequest struct {
	Values StandardValues `json:"values"`
	Field  string         `json:"field" binding:"required,oneof=cycle_time hourly_productivity daily_demand work_time break_time"`
	Value  interface{}    `json:"value"`
}

// UpdateFieldRequest 行内单字段编辑
type UpdateFieldRequest struct {
	Field   string      `json:"field"   binding:"required,oneof=cycle_time hourly_productivity daily_demand work_time break_time"`
	Value   interface{} `json:"value"`
	Version int         `json:"version" binding:"required,min=1"`
}

// ReplicateRequest 将选中的标准复制到指定日期
type ReplicateRequest struct {
	IDs   []string `json:"ids"   binding:"required,min=1,max=200,dive,uuid"`
	Dates []string `json:"dates" binding:"required,min=1,max=62,dive,br_date"`
}

// StandardResponse 工程标准响应
type StandardResponse struct {
	ID                 string  `json:"id"`
	Activity           string  `json:"activity"`
	ProcessType        string  `json:"process_type"`
	Driver             string  `json:"driver"`
	CycleTime          float64 `json:"cycle_time"`
	HourlyProductivity float64 `json:"hourly_productivity"`
	DailyDemand        float64 `json:"daily_demand"`
	WorkTime           float64 `json:"work_time"`
	BreakTime          float64 `json:"break_time"`
	Headcounts         int     `json:"headcounts"`
	ExecutionDate      string  `json:"execution_date"`
	Version            int     `json:"version"`
}
