package handler

import (
	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

const icsContentType = "text/calendar; charset=utf-8"

// PlanningHandler 周排班 HTTP 处理器
type PlanningHandler struct {
	planningSvc service.PlanningService
}

// NewPlanningHandler 创建 PlanningHandler
func NewPlanningHandler(planningSvc service.PlanningService) *PlanningHandler {
	return &PlanningHandler{planningSvc: planningSvc}
}

// GetShiftPlan 周排班（周一至周五）
// GET /api/v1/operations/:id/planning/shift-plan?week=DD/MM/YYYY
func (h *PlanningHandler) GetShiftPlan(c *gin.Context) {
	var req dto.ShiftPlanRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	plan, err := h.planningSvc.GetShiftPlan(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleOperationError(c, err)
		return
	}

	response.OK(c, plan)
}

// ExportShiftPlanICS 以 iCalendar 下载周排班
// GET /api/v1/operations/:id/planning/shift-plan.ics?week=DD/MM/YYYY
func (h *PlanningHandler) ExportShiftPlanICS(c *gin.Context) {
	var req dto.ShiftPlanRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	body, filename, err := h.planningSvc.ExportICS(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleOperationError(c, err)
		return
	}

	response.Attachment(c, filename, icsContentType, body)
}
