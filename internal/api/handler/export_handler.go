package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportDashboard 导出仪表盘
// GET /api/v1/operations/:id/export/dashboard
func (h *ExportHandler) ExportDashboard(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportDashboard(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, xlsxContentType, buf.Bytes())
}

// ExportTasks 导出作业执行记录
// GET /api/v1/operations/:id/export/tasks
func (h *ExportHandler) ExportTasks(c *gin.Context) {
	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportTasks(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, xlsxContentType, buf.Bytes())
}

func handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 18003, "生成 Excel 文件失败")
	default:
		handleDashboardError(c, err)
	}
}
