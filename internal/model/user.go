package model

// User 系统用户表，对应 users
type User struct {
	UserID                 string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username               string      `gorm:"type:varchar(100);not null"                     json:"username"`
	PasswordHash           string      `gorm:"type:varchar(255);not null"                     json:"-"`
	Role                   string      `gorm:"type:varchar(20);not null;default:'Viewer'"     json:"role"`
	ManagerID              *string     `gorm:"type:uuid"                                      json:"manager_id,omitempty"`
	AccessibleOperationIDs StringArray `gorm:"type:text[];not null;default:'{}'"              json:"accessible_operation_ids"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
