package model

import "time"

// APIKey 外部集成密钥表，对应 api_keys
// 同一时刻最多存在一条未删除记录
type APIKey struct {
	APIKeyID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"api_key_id"`
	Prefix     string     `gorm:"type:varchar(20);not null"                      json:"prefix"` // 明文前缀，用于展示
	KeyHash    string     `gorm:"type:varchar(255);not null"                     json:"-"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (APIKey) TableName() string { return "api_keys" }
