package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username               string   `json:"username"                 binding:"required,min=3,max=100"`
	Password               string   `json:"password"                 binding:"required,min=6,max=72"`
	Role                   string   `json:"role"                     binding:"required,role"`
	ManagerID              *string  `json:"manager_id"               binding:"omitempty,uuid"`
	AccessibleOperationIDs []string `json:"accessible_operation_ids" binding:"omitempty,dive,uuid"`
}

// UpdateUserRequest 更新用户请求，密码为空时保持不变
type UpdateUserRequest struct {
	Username               *string   `json:"username"                 binding:"omitempty,min=3,max=100"`
	Password               *string   `json:"password"                 binding:"omitempty,min=6,max=72"`
	Role                   *string   `json:"role"                     binding:"omitempty,role"`
	ManagerID              *string   `json:"manager_id"               binding:"omitempty,uuid"`
	AccessibleOperationIDs *[]string `json:"accessible_operation_ids" binding:"omitempty,dive,uuid"`
	Version                int       `json:"version"                  binding:"required,min=1"`
}
