package repository

import (
	"context"

	"gorm.io/gorm"

	"laborsync/backend/internal/model"
)

// OperationRepository 运营点数据访问接口
type OperationRepository interface {
	Create(ctx context.Context, op *model.Operation) error
	GetByID(ctx context.Context, id string) (*model.Operation, error)
	List(ctx context.Context) ([]model.Operation, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Operation, error)
	ListByManager(ctx context.Context, managerID string) ([]model.Operation, error)
	Update(ctx context.Context, op *model.Operation) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type operationRepo struct {
	db *gorm.DB
}

// NewOperationRepo 创建 OperationRepository 实例
func NewOperationRepo(db *gorm.DB) OperationRepository {
	return &operationRepo{db: db}
}

func (r *operationRepo) Create(ctx context.Context, op *model.Operation) error {
	return r.db.WithContext(ctx).Omit("Manager").Create(op).Error
}

func (r *operationRepo) GetByID(ctx context.Context, id string) (*model.Operation, error) {
	var op model.Operation
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Where("operation_id = ?", id).
		First(&op).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operationRepo) List(ctx context.Context) ([]model.Operation, error) {
	var ops []model.Operation
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Order("name ASC").
		Find(&ops).Error
	return ops, err
}

func (r *operationRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Operation, error) {
	var ops []model.Operation
	if len(ids) == 0 {
		return ops, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Where("operation_id IN ?", ids).
		Order("name ASC").
		Find(&ops).Error
	return ops, err
}

func (r *operationRepo) ListByManager(ctx context.Context, managerID string) ([]model.Operation, error) {
	var ops []model.Operation
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Where("manager_id = ?", managerID).
		Order("name ASC").
		Find(&ops).Error
	return ops, err
}

func (r *operationRepo) Update(ctx context.Context, op *model.Operation) error {
	return r.db.WithContext(ctx).Omit("Manager").Save(op).Error
}

func (r *operationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Operation{}).
		Where("operation_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
