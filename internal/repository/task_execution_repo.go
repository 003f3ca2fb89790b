package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"laborsync/backend/internal/model"
)

// TaskFilter 作业执行记录过滤条件
type TaskFilter struct {
	EmployeeName string
	Activity     string
	Start        *time.Time // 按 execution_date 闭区间过滤
	End          *time.Time
	Offset       int
	Limit        int // <= 0 表示不分页
}

// TaskExecutionRepository 作业执行记录数据访问接口
type TaskExecutionRepository interface {
	Create(ctx context.Context, task *model.TaskExecution) error
	BatchCreate(ctx context.Context, tasks []model.TaskExecution) error
	GetByID(ctx context.Context, id string) (*model.TaskExecution, error)
	ListByOperation(ctx context.Context, operationID string, filter TaskFilter) ([]model.TaskExecution, int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.TaskExecution, error)
	Update(ctx context.Context, task *model.TaskExecution) error
	Delete(ctx context.Context, id string) error
}

type taskExecutionRepo struct {
	db *gorm.DB
}

// NewTaskExecutionRepo 创建 TaskExecutionRepository 实例
func NewTaskExecutionRepo(db *gorm.DB) TaskExecutionRepository {
	return &taskExecutionRepo{db: db}
}

func (r *taskExecutionRepo) Create(ctx context.Context, task *model.TaskExecution) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskExecutionRepo) BatchCreate(ctx context.Context, tasks []model.TaskExecution) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(tasks, 200).Error
}

func (r *taskExecutionRepo) GetByID(ctx context.Context, id string) (*model.TaskExecution, error) {
	var task model.TaskExecution
	err := r.db.WithContext(ctx).
		Where("task_execution_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOperation 按执行日期倒序
func (r *taskExecutionRepo) ListByOperation(ctx context.Context, operationID string, filter TaskFilter) ([]model.TaskExecution, int64, error) {
	var tasks []model.TaskExecution
	var total int64

	dateExpr := brDateExpr("execution_date")
	db := r.db.WithContext(ctx).
		Model(&model.TaskExecution{}).
		Where("employee_id IN ("+operationEmployeesSubQuery+")", operationID)
	if filter.EmployeeName != "" {
		db = db.Where("employee_name ILIKE ?", "%"+filter.EmployeeName+"%")
	}
	if filter.Activity != "" {
		db = db.Where("activity = ?", filter.Activity)
	}
	if filter.Start != nil {
		db = db.Where(dateExpr+" >= ?", filter.Start.Format("2006-01-02"))
	}
	if filter.End != nil {
		db = db.Where(dateExpr+" <= ?", filter.End.Format("2006-01-02"))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyPage(db, filter.Offset, filter.Limit).
		Order(dateExpr + " DESC NULLS LAST, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *taskExecutionRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.TaskExecution, error) {
	var tasks []model.TaskExecution
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order(brDateExpr("execution_date") + " DESC NULLS LAST, created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskExecutionRepo) Update(ctx context.Context, task *model.TaskExecution) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskExecutionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("task_execution_id = ?", id).
		Delete(&model.TaskExecution{}).Error
}
