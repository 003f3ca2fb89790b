package model

// Operation 仓库运营点表，对应 operations
type Operation struct {
	OperationID         string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"operation_id"`
	Name                string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Location            string   `gorm:"type:varchar(255);not null;default:''"          json:"location"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
	ManagerID           *string  `gorm:"type:uuid"                                      json:"manager_id,omitempty"`
	TotalHeadcount      int      `gorm:"not null;default:0"                             json:"total_headcount"`
	EmployeesOnVacation int      `gorm:"not null;default:0"                             json:"employees_on_vacation"`
	SoftDeleteModel

	// 关联
	Manager *User `gorm:"foreignKey:ManagerID;references:UserID" json:"manager,omitempty"`
}

// TableName 指定表名
func (Operation) TableName() string { return "operations" }
