package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

// OperationHandler 运营点模块 HTTP 处理器
type OperationHandler struct {
	opSvc service.OperationService
}

// NewOperationHandler 创建 OperationHandler
func NewOperationHandler(opSvc service.OperationService) *OperationHandler {
	return &OperationHandler{opSvc: opSvc}
}

// ListOperations 当前用户可访问的运营点
// GET /api/v1/operations
func (h *OperationHandler) ListOperations(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	items, err := h.opSvc.ListAccessible(c.Request.Context(), userID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetOperation 运营点详情（经 OperationAccess 中间件鉴权）
// GET /api/v1/operations/:id
func (h *OperationHandler) GetOperation(c *gin.Context) {
	op, err := h.opSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleOperationError(c, err)
		return
	}

	response.OK(c, op)
}

// CreateOperation 创建运营点
// POST /api/v1/operations
func (h *OperationHandler) CreateOperation(c *gin.Context) {
	var req dto.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	op, err := h.opSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleOperationError(c, err)
		return
	}

	response.Created(c, op)
}

// UpdateOperation 更新运营点
// PUT /api/v1/operations/:id
func (h *OperationHandler) UpdateOperation(c *gin.Context) {
	var req dto.UpdateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	op, err := h.opSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleOperationError(c, err)
		return
	}

	response.OK(c, op)
}

// DeleteOperation 删除运营点
// DELETE /api/v1/operations/:id
func (h *OperationHandler) DeleteOperation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.opSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleOperationError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleOperationError 运营点相关错误，其他模块在运营点缺失时复用
func handleOperationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOperationNotFound):
		response.NotFound(c, 13001, "运营点不存在")
	case errors.Is(err, service.ErrManagerNotFound), errors.Is(err, service.ErrUserNotFound):
		response.BadRequest(c, 13002, "负责人不存在")
	case errors.Is(err, service.ErrManagerRoleInvalid):
		response.BadRequest(c, 13003, "负责人必须为管理员或经理")
	case errors.Is(err, service.ErrVacationExceedsHeadcount):
		response.BadRequest(c, 13004, "休假人数不能超过总人数")
	case errors.Is(err, service.ErrOperationAccessDenied):
		response.Forbidden(c, 10003, "无权访问该运营点")
	default:
		response.InternalError(c)
	}
}
