package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

// DashboardHandler 仪表盘 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard 运营点仪表盘快照
// GET /api/v1/operations/:id/dashboard?period=day|week|month&date=&start_date=&end_date=&activities=
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	snapshot, err := h.dashboardSvc.GetSnapshot(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleDashboardError(c, err)
		return
	}

	response.OK(c, snapshot)
}

func handleDashboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDashboardBadWindow):
		response.BadRequest(c, 18001, "统计区间无效")
	case errors.Is(err, service.ErrDashboardBadActivity):
		response.BadRequest(c, 18002, "作业环节筛选无效")
	default:
		handleOperationError(c, err)
	}
}
