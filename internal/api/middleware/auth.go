package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/jwt"
	"laborsync/backend/pkg/redis"
	"laborsync/backend/pkg/response"
)

// apiKeyHeader 外部集成请求携带密钥的请求头
const apiKeyHeader = "X-API-Key"

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// rdb 为 nil 时跳过黑名单检查（Redis 降级模式）
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("查询 Token 黑名单失败，降级放行", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 11003, "Token 已注销")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

// OperationAccess 运营点访问控制，读取路径参数 :id
// 须挂在 JWTAuth 之后
func OperationAccess(opSvc service.OperationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		role := c.GetString("role")
		if userID == "" || role == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		err := opSvc.CheckAccess(c.Request.Context(), userID, role, c.Param("id"))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, service.ErrOperationNotFound):
			response.NotFound(c, 13001, "运营点不存在")
			c.Abort()
		case errors.Is(err, service.ErrOperationAccessDenied):
			response.Forbidden(c, 10003, "无权访问该运营点")
			c.Abort()
		default:
			response.InternalError(c)
			c.Abort()
		}
	}
}

// APIKeyAuth 外部集成认证，校验 X-API-Key 请求头
func APIKeyAuth(apiKeySvc service.APIKeyService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if raw == "" {
			response.Unauthorized(c, 19002, "缺少集成密钥")
			c.Abort()
			return
		}

		ok, err := apiKeySvc.Verify(c.Request.Context(), raw)
		if err != nil {
			logger.Error("校验集成密钥失败", zap.Error(err))
			response.InternalError(c)
			c.Abort()
			return
		}
		if !ok {
			response.Unauthorized(c, 19002, "集成密钥无效")
			c.Abort()
			return
		}

		c.Next()
	}
}
