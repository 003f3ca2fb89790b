package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"laborsync/backend/pkg/redis"
	"laborsync/backend/pkg/response"
)

// KeyFunc 提取限流维度（IP、API Key 等）
type KeyFunc func(c *gin.Context) string

// ByClientIP 按客户端 IP 限流（登录接口）
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByAPIKeyPrefix 按集成密钥前缀限流，缺失时退回客户端 IP
func ByAPIKeyPrefix(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader(apiKeyHeader))
	if len(raw) > 11 {
		return "key:" + raw[:11]
	}
	return "ip:" + c.ClientIP()
}

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// scope: 限流分组名（login / integration）
// limit: 窗口内允许的最大请求数，<= 0 时不限流
// rdb 为 nil 时降级放行（与 JWTAuth 策略一致）
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration, keyFn KeyFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", scope, keyFn(c))
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
