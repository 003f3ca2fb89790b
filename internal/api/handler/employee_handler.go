package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

// EmployeeHandler 员工模块 HTTP 处理器
type EmployeeHandler struct {
	empSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(empSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{empSvc: empSvc}
}

// ListEmployees 运营点员工列表（含实时在岗状态）
// GET /api/v1/operations/:id/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, err := h.empSvc.List(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetEmployee 员工详情：今日工时、完成量与生产率对比
// GET /api/v1/operations/:id/employees/:employee_id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	detail, err := h.empSvc.GetDetail(c.Request.Context(), c.Param("id"), c.Param("employee_id"))
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, detail)
}

// GetHistory 员工打卡与作业历史
// GET /api/v1/operations/:id/employees/:employee_id/history
func (h *EmployeeHandler) GetHistory(c *gin.Context) {
	history, err := h.empSvc.GetHistory(c.Request.Context(), c.Param("id"), c.Param("employee_id"))
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, history)
}

// CreateEmployee 创建员工
// POST /api/v1/operations/:id/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	emp, err := h.empSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.Created(c, emp)
}

// UpdateEmployee 更新员工
// PUT /api/v1/operations/:id/employees/:employee_id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	emp, err := h.empSvc.Update(c.Request.Context(), c.Param("id"), c.Param("employee_id"), &req, callerID)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, emp)
}

// DeleteEmployee 删除员工
// DELETE /api/v1/operations/:id/employees/:employee_id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.empSvc.Delete(c.Request.Context(), c.Param("id"), c.Param("employee_id"), callerID); err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 14001, "员工不存在")
	case errors.Is(err, service.ErrEmployeeOperationIDs):
		response.BadRequest(c, 14002, "所属运营点不存在")
	default:
		handleOperationError(c, err)
	}
}
