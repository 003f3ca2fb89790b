package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"laborsync/backend/config"
	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
)

// ── 集成密钥模块业务错误 ──

var (
	ErrAPIKeyNotFound = errors.New("集成密钥不存在")
	ErrAPIKeyInvalid  = errors.New("集成密钥无效")
)

const (
	apiKeyScheme    = "ls_key_"
	apiKeyPrefixLen = len(apiKeyScheme) + 4
	apiKeyMask      = "********"
)

// APIKeyService 集成密钥业务接口
type APIKeyService interface {
	Get(ctx context.Context) (*dto.APIKeyResponse, error)
	// Generate 生成新密钥并作废旧密钥，明文仅返回一次
	Generate(ctx context.Context, callerID string) (*dto.GeneratedAPIKeyResponse, error)
	Delete(ctx context.Context, callerID string) error
	// Verify 校验明文密钥，通过的结果在进程内缓存
	Verify(ctx context.Context, raw string) (bool, error)
}

type apiKeyService struct {
	repo   *repository.Repository
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewAPIKeyService 创建 APIKeyService 实例
func NewAPIKeyService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) APIKeyService {
	ttl := cfg.Labor.APIKeyCacheTTL
	return &apiKeyService{
		repo:   repo,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
		logger: logger,
	}
}

func (s *apiKeyService) Get(ctx context.Context) (*dto.APIKeyResponse, error) {
	key, err := s.repo.APIKey.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.APIKeyResponse{Exists: false}, nil
		}
		s.logger.Error("查询集成密钥失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.APIKeyResponse{
		Exists:    true,
		MaskedKey: key.Prefix + apiKeyMask,
		CreatedAt: formatTime(key.CreatedAt),
	}
	if key.LastUsedAt != nil {
		resp.LastUsedAt = formatTime(*key.LastUsedAt)
	}
	return resp, nil
}

func (s *apiKeyService) Generate(ctx context.Context, callerID string) (*dto.GeneratedAPIKeyResponse, error) {
	raw := apiKeyScheme + strings.ReplaceAll(uuid.NewString(), "-", "")

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("集成密钥哈希失败", zap.Error(err))
		return nil, err
	}

	key := &model.APIKey{
		Prefix:  raw[:apiKeyPrefixLen],
		KeyHash: string(hash),
	}
	key.CreatedBy = &callerID
	key.CreatedAt = time.Now()

	if err := s.repo.APIKey.Replace(ctx, key); err != nil {
		s.logger.Error("保存集成密钥失败", zap.Error(err))
		return nil, err
	}
	s.cache.Flush()

	s.logger.Info("集成密钥已生成", zap.String("prefix", key.Prefix), zap.String("caller", callerID))
	return &dto.GeneratedAPIKeyResponse{
		Key:       raw,
		MaskedKey: key.Prefix + apiKeyMask,
		CreatedAt: formatTime(key.CreatedAt),
	}, nil
}

func (s *apiKeyService) Delete(ctx context.Context, callerID string) error {
	n, err := s.repo.APIKey.DeleteActive(ctx, callerID)
	if err != nil {
		s.logger.Error("删除集成密钥失败", zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrAPIKeyNotFound
	}
	s.cache.Flush()
	s.logger.Info("集成密钥已删除", zap.String("caller", callerID))
	return nil
}

func (s *apiKeyService) Verify(ctx context.Context, raw string) (bool, error) {
	if !strings.HasPrefix(raw, apiKeyScheme) || len(raw) <= apiKeyPrefixLen {
		return false, nil
	}

	if s.ttl > 0 {
		if v, ok := s.cache.Get(raw); ok {
			s.touch(ctx, v.(string))
			return true, nil
		}
	}

	key, err := s.repo.APIKey.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("查询集成密钥失败", zap.Error(err))
		return false, err
	}
	if key.Prefix != raw[:apiKeyPrefixLen] {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(raw)); err != nil {
		return false, nil
	}

	if s.ttl > 0 {
		s.cache.SetDefault(raw, key.APIKeyID)
	}
	s.touch(ctx, key.APIKeyID)
	return true, nil
}

// touch 更新最近使用时间，失败只记录日志
func (s *apiKeyService) touch(ctx context.Context, id string) {
	if err := s.repo.APIKey.TouchLastUsed(ctx, id); err != nil {
		s.logger.Warn("更新集成密钥使用时间失败", zap.String("id", id), zap.Error(err))
	}
}
