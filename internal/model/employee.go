package model

import "time"

// Employee 员工表，对应 employees
type Employee struct {
	EmployeeID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Name             string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Activities       StringArray `gorm:"type:text[];not null;default:'{}'"              json:"activities"`
	RegistrationDate time.Time   `gorm:"type:date;not null"                             json:"registration_date"`
	Photo            string      `gorm:"type:text;not null;default:''"                  json:"photo"` // data URL
	OperationIDs     StringArray `gorm:"type:text[];not null;default:'{}'"              json:"operation_ids"`
	SoftDeleteModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// HasActivity 员工是否具备指定作业技能
func (e *Employee) HasActivity(a string) bool { return e.Activities.Contains(a) }

// InOperation 员工是否属于指定运营点
func (e *Employee) InOperation(operationID string) bool { return e.OperationIDs.Contains(operationID) }
