package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 容器镜像可能不含 zoneinfo

	"go.uber.org/zap"

	"laborsync/backend/config"
	"laborsync/backend/internal/api/handler"
	"laborsync/backend/internal/api/router"
	"laborsync/backend/internal/repository"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/database"
	"laborsync/backend/pkg/jwt"
	applogger "laborsync/backend/pkg/logger"
	"laborsync/backend/pkg/redis"
	"laborsync/backend/pkg/validator"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("LABORSYNC_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Labor.Timezone),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, applogger.GormLogLevel(cfg.Log.Level), logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时降级，黑名单与限流不可用）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 注册自定义校验规则
	if err := validator.RegisterGinValidations(); err != nil {
		logger.Fatal("注册校验规则失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Auth.EnsureBootstrapAdmin(bootCtx); err != nil {
		logger.Fatal("创建初始管理员失败", zap.Error(err))
	}
	bootCancel()

	// 7. 初始化路由
	engine := router.Setup(cfg, h, svc, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
