package handler

import "laborsync/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Operation *OperationHandler
	Employee  *EmployeeHandler
	TimeClock *TimeClockHandler
	Task      *TaskHandler
	Standard  *StandardHandler
	Dashboard *DashboardHandler
	Planning  *PlanningHandler
	Export    *ExportHandler
	APIKey    *APIKeyHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Operation: NewOperationHandler(svc.Operation),
		Employee:  NewEmployeeHandler(svc.Employee),
		TimeClock: NewTimeClockHandler(svc.TimeClock),
		Task:      NewTaskHandler(svc.Task),
		Standard:  NewStandardHandler(svc.Standard),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Planning:  NewPlanningHandler(svc.Planning),
		Export:    NewExportHandler(svc.Export),
		APIKey:    NewAPIKeyHandler(svc.APIKey),
	}
}
