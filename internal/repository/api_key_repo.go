package repository

import (
	"context"

	"gorm.io/gorm"

	"laborsync/backend/internal/model"
)

// APIKeyRepository 集成密钥数据访问接口
type APIKeyRepository interface {
	GetActive(ctx context.Context) (*model.APIKey, error)
	// Replace 作废现有密钥并写入新密钥（同一事务）
	Replace(ctx context.Context, key *model.APIKey) error
	DeleteActive(ctx context.Context, deletedBy string) (int64, error)
	TouchLastUsed(ctx context.Context, id string) error
}

type apiKeyRepo struct {
	db *gorm.DB
}

// NewAPIKeyRepo 创建 APIKeyRepository 实例
func NewAPIKeyRepo(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) GetActive(ctx context.Context) (*model.APIKey, error) {
	var key model.APIKey
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) Replace(ctx context.Context, key *model.APIKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deletedBy := ""
		if key.CreatedBy != nil {
			deletedBy = *key.CreatedBy
		}
		if err := softDeleteActiveKeys(tx, deletedBy).Error; err != nil {
			return err
		}
		return tx.Create(key).Error
	})
}

func (r *apiKeyRepo) DeleteActive(ctx context.Context, deletedBy string) (int64, error) {
	result := softDeleteActiveKeys(r.db.WithContext(ctx), deletedBy)
	return result.RowsAffected, result.Error
}

func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.APIKey{}).
		Where("api_key_id = ?", id).
		UpdateColumn("last_used_at", gorm.Expr("NOW()")).Error
}

func softDeleteActiveKeys(db *gorm.DB, deletedBy string) *gorm.DB {
	updates := map[string]interface{}{"deleted_at": gorm.Expr("NOW()")}
	if deletedBy != "" {
		updates["deleted_by"] = deletedBy
	}
	return db.Model(&model.APIKey{}).
		Where("deleted_at IS NULL").
		Updates(updates)
}
