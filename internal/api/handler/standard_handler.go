package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	pkgerrors "laborsync/backend/pkg/errors"
	"laborsync/backend/pkg/response"
)

// StandardHandler 工程标准模块 HTTP 处理器
type StandardHandler struct {
	stdSvc service.StandardService
}

// NewStandardHandler 创建 StandardHandler
func NewStandardHandler(stdSvc service.StandardService) *StandardHandler {
	return &StandardHandler{stdSvc: stdSvc}
}

// ListStandards 工程标准列表
// GET /api/v1/standards
func (h *StandardHandler) ListStandards(c *gin.Context) {
	var req dto.StandardListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, err := h.stdSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetStandard 工程标准详情
// GET /api/v1/standards/:id
func (h *StandardHandler) GetStandard(c *gin.Context) {
	std, err := h.stdSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleStandardError(c, err)
		return
	}

	response.OK(c, std)
}

// CreateStandard 创建工程标准
// POST /api/v1/standards
func (h *StandardHandler) CreateStandard(c *gin.Context) {
	var req dto.StandardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	std, err := h.stdSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleStandardError(c, err)
		return
	}

	response.Created(c, std)
}

// UpdateStandard 整体更新工程标准（乐观锁）
// PUT /api/v1/standards/:id
func (h *StandardHandler) UpdateStandard(c *gin.Context) {
	var req dto.UpdateStandardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	std, err := h.stdSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleStandardError(c, err)
		return
	}

	response.OK(c, std)
}

// DeleteStandard 删除工程标准
// DELETE /api/v1/standards/:id
func (h *StandardHandler) DeleteStandard(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.stdSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleStandardError(c, err)
		return
	}

	response.OK(c, nil)
}

// Recompute 表单联动预览，不落库
// POST /api/v1/standards/recompute
func (h *StandardHandler) Recompute(c *gin.Context) {
	var req dto.RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	response.OK(c, h.stdSvc.Recompute(&req))
}

// UpdateField 行内单字段编辑
// PATCH /api/v1/standards/:id/field
func (h *StandardHandler) UpdateField(c *gin.Context) {
	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	std, err := h.stdSvc.UpdateField(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleStandardError(c, err)
		return
	}

	response.OK(c, std)
}

// Replicate 将选中的标准复制到多个日期
// POST /api/v1/standards/replicate
func (h *StandardHandler) Replicate(c *gin.Context) {
	var req dto.ReplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.stdSvc.Replicate(c.Request.Context(), &req, callerID)
	if err != nil {
		handleStandardError(c, err)
		return
	}

	response.Created(c, gin.H{"list": items})
}

func handleStandardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStandardNotFound):
		response.NotFound(c, 17001, "工程标准不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 17002, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
