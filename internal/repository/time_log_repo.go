package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"laborsync/backend/internal/model"
)

// TimeLogFilter 打卡记录过滤条件
type TimeLogFilter struct {
	EmployeeName string
	Type         string
	Since        *time.Time
	Offset       int
	Limit        int // <= 0 表示不分页
}

// TimeLogRepository 打卡记录数据访问接口
// 所有列表均按时间倒序返回，时间相同按写入顺序倒序
type TimeLogRepository interface {
	Create(ctx context.Context, log *model.TimeLog) error
	ListByOperation(ctx context.Context, operationID string, filter TimeLogFilter) ([]model.TimeLog, int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.TimeLog, error)
	LatestByEmployee(ctx context.Context, employeeID string) (*model.TimeLog, error)
}

type timeLogRepo struct {
	db *gorm.DB
}

// NewTimeLogRepo 创建 TimeLogRepository 实例
func NewTimeLogRepo(db *gorm.DB) TimeLogRepository {
	return &timeLogRepo{db: db}
}

const timeLogOrder = "timestamp DESC, created_at DESC"

func (r *timeLogRepo) Create(ctx context.Context, log *model.TimeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *timeLogRepo) ListByOperation(ctx context.Context, operationID string, filter TimeLogFilter) ([]model.TimeLog, int64, error) {
	var logs []model.TimeLog
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.TimeLog{}).
		Where("employee_id IN ("+operationEmployeesSubQuery+")", operationID)
	if filter.EmployeeName != "" {
		db = db.Where("employee_name ILIKE ?", "%"+filter.EmployeeName+"%")
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Since != nil {
		db = db.Where("timestamp >= ?", *filter.Since)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyPage(db, filter.Offset, filter.Limit).
		Order(timeLogOrder).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *timeLogRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.TimeLog, error) {
	var logs []model.TimeLog
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order(timeLogOrder).
		Find(&logs).Error
	return logs, err
}

func (r *timeLogRepo) LatestByEmployee(ctx context.Context, employeeID string) (*model.TimeLog, error) {
	var log model.TimeLog
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order(timeLogOrder).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}
