package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// RefreshToken 使用 Refresh Token 换取新的 Token 对
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出，当前 Access Token 进入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetCurrentUser 获取当前登录用户
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
	case errors.Is(err, service.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, 11002, "Token 无效或已过期")
	case errors.Is(err, service.ErrTokenRevoked):
		response.Error(c, http.StatusUnauthorized, 11003, "Token 已注销")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, "用户不存在")
	default:
		response.InternalError(c)
	}
}
