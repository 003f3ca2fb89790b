package service

import (
	"time"

	"go.uber.org/zap"

	"laborsync/backend/config"
	"laborsync/backend/internal/repository"
	"laborsync/backend/pkg/jwt"
	"laborsync/backend/pkg/redis"
)

// timeLayout 响应中时间戳的统一格式
const timeLayout = "2006-01-02T15:04:05Z"

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	User      UserService
	Operation OperationService
	Employee  EmployeeService
	TimeClock TimeClockService
	Task      TaskExecutionService
	Standard  StandardService
	Dashboard DashboardService
	Planning  PlanningService
	Export    ExportService
	APIKey    APIKeyService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 降级模式：不做 Token 黑名单）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	dashboard := NewDashboardService(cfg, repo, logger)
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:      NewUserService(repo, logger),
		Operation: NewOperationService(repo, logger),
		Employee:  NewEmployeeService(cfg, repo, logger),
		TimeClock: NewTimeClockService(cfg, repo, logger),
		Task:      NewTaskExecutionService(cfg, repo, logger),
		Standard:  NewStandardService(repo, logger),
		Dashboard: dashboard,
		Planning:  NewPlanningService(cfg, repo, logger),
		Export:    NewExportService(repo, dashboard, logger),
		APIKey:    NewAPIKeyService(cfg, repo, logger),
	}
}

// formatTime 格式化为 UTC 时间戳，零值返回空串
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
