package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	pkgerrors "laborsync/backend/pkg/errors"
	"laborsync/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器（仅 Admin）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// CreateUser 创建用户
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.Created(c, user)
}

// UpdateUser 更新用户（乐观锁）
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteUser 删除用户
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrUsernameExists):
		response.Conflict(c, 12002, "用户名已存在")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, 12003, "不能删除自己")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.BadRequest(c, 12004, "不能修改自己的角色")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12005, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
