package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Operation     OperationRepository
	Employee      EmployeeRepository
	TimeLog       TimeLogRepository
	TaskExecution TaskExecutionRepository
	Standard      StandardRepository
	APIKey        APIKeyRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Operation:     NewOperationRepo(db),
		Employee:      NewEmployeeRepo(db),
		TimeLog:       NewTimeLogRepo(db),
		TaskExecution: NewTaskExecutionRepo(db),
		Standard:      NewStandardRepo(db),
		APIKey:        NewAPIKeyRepo(db),
	}
}

// operationEmployeesSubQuery 运营点下未删除员工的子查询
const operationEmployeesSubQuery = "SELECT employee_id FROM employees WHERE ? = ANY(operation_ids) AND deleted_at IS NULL"

// brDateExpr 将 DD/MM/YYYY 文本列转换为 date，格式不符时为 NULL
func brDateExpr(column string) string {
	return "(CASE WHEN " + column + " ~ '^[0-9]{2}/[0-9]{2}/[0-9]{4}$' THEN to_date(" + column + ", 'DD/MM/YYYY') END)"
}

// applyPage limit <= 0 时不分页
func applyPage(db *gorm.DB, offset, limit int) *gorm.DB {
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	return db
}
