package handler

import (
	"github.com/gin-gonic/gin"

	"laborsync/backend/pkg/jwt"
	"laborsync/backend/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxClaims   = "claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxUserID)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxRole)
}

// MustGetClaims 提取完整的 Access Token 声明（登出时用于写入黑名单）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
