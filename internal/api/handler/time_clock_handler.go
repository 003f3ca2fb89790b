package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

// TimeClockHandler 打卡模块 HTTP 处理器
type TimeClockHandler struct {
	clockSvc service.TimeClockService
}

// NewTimeClockHandler 创建 TimeClockHandler
func NewTimeClockHandler(clockSvc service.TimeClockService) *TimeClockHandler {
	return &TimeClockHandler{clockSvc: clockSvc}
}

// ListTimeLogs 打卡记录（按时间倒序分页）
// GET /api/v1/operations/:id/time-clock
func (h *TimeClockHandler) ListTimeLogs(c *gin.Context) {
	var req dto.TimeLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.clockSvc.List(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Clock 签到 / 签退
// POST /api/v1/operations/:id/time-clock
func (h *TimeClockHandler) Clock(c *gin.Context) {
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	log, err := h.clockSvc.Clock(c.Request.Context(), c.Param("id"), &req, callerID, role)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.Created(c, log)
}

func handleTimeClockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClockActivityNotAllowed):
		response.BadRequest(c, 15001, "员工不具备该作业技能")
	case errors.Is(err, service.ErrClockNotOnline):
		response.Conflict(c, 15002, "员工当前未签到，无法签退")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 15003, "无权操作")
	default:
		handleEmployeeError(c, err)
	}
}
