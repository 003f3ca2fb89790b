package model

import "time"

// TimeLog 打卡记录表，对应 time_logs
// 员工当前状态由其最新一条记录推导，不单独存储
type TimeLog struct {
	TimeLogID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_log_id"`
	EmployeeID   string    `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	EmployeeName string    `gorm:"type:varchar(100);not null"                     json:"employee_name"`
	Type         string    `gorm:"type:varchar(20);not null"                      json:"type"` // Check-in | Check-out
	Timestamp    time.Time `gorm:"type:timestamptz;not null"                      json:"timestamp"`
	Activity     string    `gorm:"type:varchar(20);not null"                      json:"activity"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy    *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
}

// TableName 指定表名
func (TimeLog) TableName() string { return "time_logs" }
