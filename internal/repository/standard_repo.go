package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"laborsync/backend/internal/model"
	pkgerrors "laborsync/backend/pkg/errors"
)

// StandardFilter 工程标准过滤条件
type StandardFilter struct {
	Start       *time.Time
	End         *time.Time
	Activity    string
	ProcessType string
}

// StandardRepository 工程标准数据访问接口
// 列表按写入顺序返回：生产率计算取同作业环节的第一条标准
type StandardRepository interface {
	Create(ctx context.Context, std *model.EngineeringStandard) error
	BatchCreate(ctx context.Context, stds []model.EngineeringStandard) error
	GetByID(ctx context.Context, id string) (*model.EngineeringStandard, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.EngineeringStandard, error)
	List(ctx context.Context, filter StandardFilter) ([]model.EngineeringStandard, error)
	Update(ctx context.Context, std *model.EngineeringStandard) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type standardRepo struct {
	db *gorm.DB
}

// NewStandardRepo 创建 StandardRepository 实例
func NewStandardRepo(db *gorm.DB) StandardRepository {
	return &standardRepo{db: db}
}

// standardOrder 按写入序号排序；同一批次写入的 created_at 相同，不能作为顺序依据
const standardOrder = "seq ASC"

func (r *standardRepo) Create(ctx context.Context, std *model.EngineeringStandard) error {
	return r.db.WithContext(ctx).Create(std).Error
}

// BatchCreate 事务内批量写入，任一失败整体回滚
func (r *standardRepo) BatchCreate(ctx context.Context, stds []model.EngineeringStandard) error {
	if len(stds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(stds, 100).Error
	})
}

func (r *standardRepo) GetByID(ctx context.Context, id string) (*model.EngineeringStandard, error) {
	var std model.EngineeringStandard
	err := r.db.WithContext(ctx).
		Where("standard_id = ?", id).
		First(&std).Error
	if err != nil {
		return nil, err
	}
	return &std, nil
}

func (r *standardRepo) ListByIDs(ctx context.Context, ids []string) ([]model.EngineeringStandard, error) {
	var stds []model.EngineeringStandard
	if len(ids) == 0 {
		return stds, nil
	}
	err := r.db.WithContext(ctx).
		Where("standard_id IN ?", ids).
		Order(standardOrder).
		Find(&stds).Error
	return stds, err
}

func (r *standardRepo) List(ctx context.Context, filter StandardFilter) ([]model.EngineeringStandard, error) {
	var stds []model.EngineeringStandard

	dateExpr := brDateExpr("execution_date")
	db := r.db.WithContext(ctx)
	if filter.Start != nil {
		db = db.Where(dateExpr+" >= ?", filter.Start.Format("2006-01-02"))
	}
	if filter.End != nil {
		db = db.Where(dateExpr+" <= ?", filter.End.Format("2006-01-02"))
	}
	if filter.Activity != "" {
		db = db.Where("activity = ?", filter.Activity)
	}
	if filter.ProcessType != "" {
		db = db.Where("process_type = ?", filter.ProcessType)
	}

	err := db.Order(standardOrder).Find(&stds).Error
	return stds, err
}

// Update 乐观锁更新，version 不匹配时返回 ErrOptimisticLock
func (r *standardRepo) Update(ctx context.Context, std *model.EngineeringStandard) error {
	oldVersion := std.Version
	result := r.db.WithContext(ctx).
		Model(&model.EngineeringStandard{}).
		Where("standard_id = ? AND version = ?", std.StandardID, oldVersion).
		Updates(map[string]interface{}{
			"activity":            std.Activity,
			"process_type":        std.ProcessType,
			"driver":              std.Driver,
			"cycle_time":          std.CycleTime,
			"hourly_productivity": std.HourlyProductivity,
			"daily_demand":        std.DailyDemand,
			"work_time":           std.WorkTime,
			"break_time":          std.BreakTime,
			"headcounts":          std.Headcounts,
			"execution_date":      std.ExecutionDate,
			"updated_by":          std.UpdatedBy,
			"updated_at":          gorm.Expr("NOW()"),
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	std.Version = oldVersion + 1
	return nil
}

func (r *standardRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.EngineeringStandard{}).
		Where("standard_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
