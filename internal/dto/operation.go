package dto

// ── 运营点模块 DTO ──

// CreateOperationRequest 创建运营点请求
type CreateOperationRequest struct {
	Name                string   `json:"name"                  binding:"required,max=100"`
	Location            string   `json:"location"              binding:"omitempty,max=255"`
	Latitude            *float64 `json:"latitude"              binding:"omitempty,min=-90,max=90"`
	Longitude           *float64 `json:"longitude"             binding:"omitempty,min=-180,max=180"`
	ManagerID           *string  `json:"manager_id"            binding:"omitempty,uuid"`
	TotalHeadcount      int      `json:"total_headcount"       binding:"min=0"`
	EmployeesOnVacation int      `json:"employees_on_vacation" binding:"min=0,ltefield=TotalHeadcount"`
}

// UpdateOperationRequest 更新运营点请求
type UpdateOperationRequest struct {
	Name                *string  `json:"name"                  binding:"omitempty,max=100"`
	Location            *string  `json:"location"              binding:"omitempty,max=255"`
	Latitude            *float64 `json:"latitude"              binding:"omitempty,min=-90,max=90"`
	Longitude           *float64 `json:"longitude"             binding:"omitempty,min=-180,max=180"`
	ManagerID           *string  `json:"manager_id"            binding:"omitempty,uuid"`
	TotalHeadcount      *int     `json:"total_headcount"       binding:"omitempty,min=0"`
	EmployeesOnVacation *int     `json:"employees_on_vacation" binding:"omitempty,min=0"`
}

// OperationResponse 运营点响应
type OperationResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Location            string   `json:"location"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
	ManagerID           *string  `json:"manager_id,omitempty"`
	ManagerName         string   `json:"manager_name,omitempty"`
	TotalHeadcount      int      `json:"total_headcount"`
	EmployeesOnVacation int      `json:"employees_on_vacation"`
	CreatedAt           string   `json:"created_at"`
}
