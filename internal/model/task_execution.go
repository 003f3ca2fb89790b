package model

// TaskExecution 作业执行记录表，对应 task_executions
type TaskExecution struct {
	TaskExecutionID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_execution_id"`
	EmployeeID      string  `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	EmployeeName    string  `gorm:"type:varchar(100);not null"                     json:"employee_name"`
	Activity        string  `gorm:"type:varchar(20);not null"                      json:"activity"`
	Quantity        float64 `gorm:"type:numeric(14,2);not null;default:0"          json:"quantity"`
	Driver          string  `gorm:"type:varchar(20);not null"                      json:"driver"`
	ExecutionHours  float64 `gorm:"type:numeric(10,2);not null;default:0"          json:"execution_hours"`
	ExecutionDate   string  `gorm:"type:varchar(10);not null;index"                json:"execution_date"` // DD/MM/YYYY
	Source          string  `gorm:"type:varchar(10);not null;default:'manual'"     json:"source"`         // manual | import | api
	BaseModel
}

// TableName 指定表名
func (TaskExecution) TableName() string { return "task_executions" }
