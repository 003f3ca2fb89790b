package model

// EngineeringStandard 工程标准表，对应 engineering_standards
// HourlyProductivity 与 Headcounts 为派生字段，每次写入前由 labor.NormalizeStandard 重新计算
type EngineeringStandard struct {
	StandardID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"standard_id"`
	Seq                int64   `gorm:"->;column:seq"                                   json:"-"` // 写入序号，由数据库分配
	Activity           string  `gorm:"type:varchar(20);not null"                      json:"activity"`
	ProcessType        string  `gorm:"type:varchar(20);not null"                      json:"process_type"`
	Driver             string  `gorm:"type:varchar(20);not null"                      json:"driver"`
	CycleTime          float64 `gorm:"type:numeric(12,2);not null;default:0"          json:"cycle_time"` // 秒/单位
	HourlyProductivity float64 `gorm:"type:numeric(12,2);not null;default:0"          json:"hourly_productivity"`
	DailyDemand        float64 `gorm:"type:numeric(14,2);not null;default:0"          json:"daily_demand"`
	WorkTime           float64 `gorm:"type:numeric(6,2);not null;default:0"           json:"work_time"`  // 小时
	BreakTime          float64 `gorm:"type:numeric(6,2);not null;default:0"           json:"break_time"` // 小时
	Headcounts         int     `gorm:"not null;default:0"                             json:"headcounts"`
	ExecutionDate      string  `gorm:"type:varchar(10);not null;index"                json:"execution_date"` // DD/MM/YYYY
	VersionedModel
}

// TableName 指定表名
func (EngineeringStandard) TableName() string { return "engineering_standards" }
