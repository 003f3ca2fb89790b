package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

// TaskHandler 作业执行模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskExecutionService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskExecutionService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// ListTasks 作业执行记录（按日期倒序分页）
// GET /api/v1/operations/:id/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.taskSvc.List(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// CreateTask 手工录入作业执行记录
// POST /api/v1/operations/:id/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// UpdateTask 更新作业执行记录
// PUT /api/v1/operations/:id/tasks/:task_id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.taskSvc.Update(c.Request.Context(), c.Param("id"), c.Param("task_id"), &req, callerID)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// DeleteTask 删除作业执行记录
// DELETE /api/v1/operations/:id/tasks/:task_id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskSvc.Delete(c.Request.Context(), c.Param("id"), c.Param("task_id")); err != nil {
		handleTaskError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportTasks Excel 批量导入，逐行校验，返回成功与失败明细
// POST /api/v1/operations/:id/tasks/import
func (h *TaskHandler) ImportTasks(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 16006, "请上传 Excel 文件")
		return
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".xlsx" {
		response.BadRequest(c, 16006, "仅支持 .xlsx 格式")
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 16006, "无法读取上传文件")
		return
	}
	defer file.Close()

	rows, err := h.taskSvc.ParseImportFile(file)
	if err != nil {
		handleTaskImportError(c, err)
		return
	}

	result, err := h.taskSvc.Import(c.Request.Context(), c.Param("id"), rows, callerID)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	response.OK(c, result)
}

// IngestTask 外部系统推送作业执行记录（API Key 认证）
// POST /api/v1/integration/tasks
func (h *TaskHandler) IngestTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Ingest(c.Request.Context(), &req)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

func handleTaskImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 16003, "文件中没有有效数据行")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 16004, "单次导入不能超过 1000 行")
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 16005, "表头缺少必要列")
	default:
		response.BadRequest(c, 16006, "无法解析 Excel 文件")
	}
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 16001, "作业记录不存在")
	case errors.Is(err, service.ErrTaskNoActiveCheckIn):
		response.Conflict(c, 16002, "员工当前未在该作业环节签到")
	default:
		handleEmployeeError(c, err)
	}
}
