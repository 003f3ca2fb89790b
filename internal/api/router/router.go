package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"laborsync/backend/config"
	"laborsync/backend/internal/api/handler"
	"laborsync/backend/internal/api/middleware"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/jwt"
	"laborsync/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	svc *service.Service,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(model.RoleAdmin)
	editor := middleware.RoleAuth(model.RoleAdmin, model.RoleManager)
	labor := cfg.Labor

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login",
				middleware.RateLimit(rdb, "login", labor.LoginRateLimit, labor.RateWindow, middleware.ByClientIP, logger),
				h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 外部集成（API Key）
		if cfg.Feature.IntegrationAPIEnabled {
			integration := v1.Group("/integration")
			integration.Use(
				middleware.RateLimit(rdb, "integration", labor.IntegrationRateMax, labor.RateWindow, middleware.ByAPIKeyPrefix, logger),
				middleware.APIKeyAuth(svc.APIKey, logger),
			)
			{
				integration.POST("/tasks", h.Task.IngestTask)
			}
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块
			users := authorized.Group("/users", admin)
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
			}

			// 运营点模块
			authorized.GET("/operations", h.Operation.ListOperations)
			authorized.POST("/operations", admin, h.Operation.CreateOperation)

			op := authorized.Group("/operations/:id")
			op.Use(middleware.OperationAccess(svc.Operation))
			{
				op.GET("", h.Operation.GetOperation)
				op.PUT("", admin, h.Operation.UpdateOperation)
				op.DELETE("", admin, h.Operation.DeleteOperation)

				// 员工
				op.GET("/employees", h.Employee.ListEmployees)
				op.GET("/employees/:employee_id", h.Employee.GetEmployee)
				op.GET("/employees/:employee_id/history", h.Employee.GetHistory)
				op.POST("/employees", editor, h.Employee.CreateEmployee)
				op.PUT("/employees/:employee_id", editor, h.Employee.UpdateEmployee)
				op.DELETE("/employees/:employee_id", editor, h.Employee.DeleteEmployee)

				// 打卡（Viewer 的限制在 Service 层）
				op.GET("/time-clock", h.TimeClock.ListTimeLogs)
				op.POST("/time-clock", h.TimeClock.Clock)

				// 作业执行
				op.GET("/tasks", h.Task.ListTasks)
				op.POST("/tasks", editor, h.Task.CreateTask)
				op.PUT("/tasks/:task_id", editor, h.Task.UpdateTask)
				op.DELETE("/tasks/:task_id", editor, h.Task.DeleteTask)
				if cfg.Feature.ExcelImportEnabled {
					op.POST("/tasks/import", editor, h.Task.ImportTasks)
				}

				// 仪表盘 / 排班 / 导出
				op.GET("/dashboard", h.Dashboard.GetDashboard)
				op.GET("/planning/shift-plan", h.Planning.GetShiftPlan)
				op.GET("/planning/shift-plan.ics", h.Planning.ExportShiftPlanICS)
				op.GET("/export/dashboard", h.Export.ExportDashboard)
				op.GET("/export/tasks", h.Export.ExportTasks)
			}

			// 工程标准模块
			standards := authorized.Group("/standards")
			{
				standards.GET("", h.Standard.ListStandards)
				standards.GET("/:id", h.Standard.GetStandard)
				standards.POST("", editor, h.Standard.CreateStandard)
				standards.PUT("/:id", editor, h.Standard.UpdateStandard)
				standards.DELETE("/:id", editor, h.Standard.DeleteStandard)
				standards.POST("/recompute", h.Standard.Recompute)
				standards.PATCH("/:id/field", editor, h.Standard.UpdateField)
				standards.POST("/replicate", editor, h.Standard.Replicate)
			}

			// 集成密钥管理
			apiKey := authorized.Group("/api-key", admin)
			{
				apiKey.GET("", h.APIKey.GetAPIKey)
				apiKey.POST("", h.APIKey.GenerateAPIKey)
				apiKey.DELETE("", h.APIKey.DeleteAPIKey)
			}
		}
	}

	return r
}
