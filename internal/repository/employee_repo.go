package repository

import (
	"context"

	"gorm.io/gorm"

	"laborsync/backend/internal/model"
)

// EmployeeFilter 员工列表过滤条件
type EmployeeFilter struct {
	Name     string // 姓名模糊匹配
	Activity string
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	ListByOperation(ctx context.Context, operationID string, filter EmployeeFilter) ([]model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) ListByOperation(ctx context.Context, operationID string, filter EmployeeFilter) ([]model.Employee, error) {
	var emps []model.Employee
	db := r.db.WithContext(ctx).
		Where("? = ANY(operation_ids)", operationID)
	if filter.Name != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Activity != "" {
		db = db.Where("? = ANY(activities)", filter.Activity)
	}
	err := db.Order("name ASC").Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *employeeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
