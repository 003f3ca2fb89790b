package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/service"
	pkgerrors "laborsync/backend/pkg/errors"
	"laborsync/backend/pkg/jwt"
	"laborsync/backend/pkg/response"
	"laborsync/backend/pkg/validator"
)

const (
	testOpID  = "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"
	testEmpID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterGinValidations(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutClaims  *jwt.Claims
	logoutErr     error
	meResult      *dto.UserResponse
	meErr         error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.logoutClaims = claims
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) EnsureBootstrapAdmin(_ context.Context) error { return nil }

// ── Mock UserService ──

type mockUserService struct {
	user *dto.UserResponse
	err  error
}

func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if m.user == nil {
		return nil, 0, m.err
	}
	return []dto.UserResponse{*m.user}, 1, m.err
}
func (m *mockUserService) GetByID(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.user, m.err
}
func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest, _ string) (*dto.UserResponse, error) {
	return m.user, m.err
}
func (m *mockUserService) Update(_ context.Context, _ string, _ *dto.UpdateUserRequest, _ string) (*dto.UserResponse, error) {
	return m.user, m.err
}
func (m *mockUserService) Delete(_ context.Context, _ string, _ string) error { return m.err }

// ── Mock OperationService ──

type mockOperationService struct {
	ops       []dto.OperationResponse
	err       error
	gotRole   string
	accessErr error
}

func (m *mockOperationService) ListAccessible(_ context.Context, _, role string) ([]dto.OperationResponse, error) {
	m.gotRole = role
	return m.ops, m.err
}
func (m *mockOperationService) GetByID(_ context.Context, _ string) (*dto.OperationResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.ops[0], nil
}
func (m *mockOperationService) Create(_ context.Context, _ *dto.CreateOperationRequest, _ string) (*dto.OperationResponse, error) {
	return nil, m.err
}
func (m *mockOperationService) Update(_ context.Context, _ string, _ *dto.UpdateOperationRequest, _ string) (*dto.OperationResponse, error) {
	return nil, m.err
}
func (m *mockOperationService) Delete(_ context.Context, _ string, _ string) error { return m.err }
func (m *mockOperationService) CheckAccess(_ context.Context, _, _, _ string) error {
	return m.accessErr
}

// ── Mock EmployeeService ──

type mockEmployeeService struct {
	detail *dto.EmployeeDetailResponse
	err    error
}

func (m *mockEmployeeService) List(_ context.Context, _ string, _ *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error) {
	return nil, m.err
}
func (m *mockEmployeeService) GetDetail(_ context.Context, _, _ string) (*dto.EmployeeDetailResponse, error) {
	return m.detail, m.err
}
func (m *mockEmployeeService) GetHistory(_ context.Context, _, _ string) (*dto.EmployeeHistoryResponse, error) {
	return nil, m.err
}
func (m *mockEmployeeService) Create(_ context.Context, _ string, _ *dto.CreateEmployeeRequest, _ string) (*dto.EmployeeResponse, error) {
	return nil, m.err
}
func (m *mockEmployeeService) Update(_ context.Context, _, _ string, _ *dto.UpdateEmployeeRequest, _ string) (*dto.EmployeeResponse, error) {
	return nil, m.err
}
func (m *mockEmployeeService) Delete(_ context.Context, _, _ string, _ string) error { return m.err }

// ── Mock TimeClockService ──

type mockTimeClockService struct {
	log *dto.TimeLogResponse
	err error
}

func (m *mockTimeClockService) List(_ context.Context, _ string, _ *dto.TimeLogListRequest) ([]dto.TimeLogResponse, int64, error) {
	return nil, 0, m.err
}
func (m *mockTimeClockService) Clock(_ context.Context, _ string, _ *dto.ClockRequest, _, _ string) (*dto.TimeLogResponse, error) {
	return m.log, m.err
}

// ── Mock TaskExecutionService ──

type mockTaskService struct {
	task         *dto.TaskExecutionResponse
	err          error
	parseRows    []service.ImportTaskRow
	parseErr     error
	importResult *dto.ImportResult
	importedRows int
}

func (m *mockTaskService) List(_ context.Context, _ string, _ *dto.TaskListRequest) ([]dto.TaskExecutionResponse, int64, error) {
	return nil, 0, m.err
}
func (m *mockTaskService) Create(_ context.Context, _ string, _ *dto.CreateTaskRequest, _ string) (*dto.TaskExecutionResponse, error) {
	return m.task, m.err
}
func (m *mockTaskService) Update(_ context.Context, _, _ string, _ *dto.UpdateTaskRequest, _ string) (*dto.TaskExecutionResponse, error) {
	return m.task, m.err
}
func (m *mockTaskService) Delete(_ context.Context, _, _ string) error { return m.err }
func (m *mockTaskService) ParseImportFile(r io.Reader) ([]service.ImportTaskRow, error) {
	io.Copy(io.Discard, r)
	return m.parseRows, m.parseErr
}
func (m *mockTaskService) Import(_ context.Context, _ string, rows []service.ImportTaskRow, _ string) (*dto.ImportResult, error) {
	m.importedRows = len(rows)
	return m.importResult, m.err
}
func (m *mockTaskService) Ingest(_ context.Context, _ *dto.CreateTaskRequest) (*dto.TaskExecutionResponse, error) {
	return m.task, m.err
}

// ── Mock StandardService ──

type mockStandardService struct {
	std        *dto.StandardResponse
	err        error
	recomputed dto.StandardValues
}

func (m *mockStandardService) List(_ context.Context, _ *dto.StandardListRequest) ([]dto.StandardResponse, error) {
	return nil, m.err
}
func (m *mockStandardService) GetByID(_ context.Context, _ string) (*dto.StandardResponse, error) {
	return m.std, m.err
}
func (m *mockStandardService) Create(_ context.Context, _ *dto.StandardRequest, _ string) (*dto.StandardResponse, error) {
	return m.std, m.err
}
func (m *mockStandardService) Update(_ context.Context, _ string, _ *dto.UpdateStandardRequest, _ string) (*dto.StandardResponse, error) {
	return m.std, m.err
}
func (m *mockStandardService) Delete(_ context.Context, _ string, _ string) error { return m.err }
func (m *mockStandardService) Recompute(_ *dto.RecomputeRequest) dto.StandardValues {
	return m.recomputed
}
func (m *mockStandardService) UpdateField(_ context.Context, _ string, _ *dto.UpdateFieldRequest, _ string) (*dto.StandardResponse, error) {
	return m.std, m.err
}
func (m *mockStandardService) Replicate(_ context.Context, _ *dto.ReplicateRequest, _ string) ([]dto.StandardResponse, error) {
	return nil, m.err
}

// ── Mock DashboardService ──

type mockDashboardService struct {
	snapshot *dto.DashboardResponse
	err      error
}

func (m *mockDashboardService) GetSnapshot(_ context.Context, _ string, _ *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	return m.snapshot, m.err
}

// ── Mock PlanningService ──

type mockPlanningService struct {
	ics      []byte
	filename string
	err      error
}

func (m *mockPlanningService) GetShiftPlan(_ context.Context, _ string, _ *dto.ShiftPlanRequest) (*dto.ShiftPlanResponse, error) {
	return &dto.ShiftPlanResponse{}, m.err
}
func (m *mockPlanningService) ExportICS(_ context.Context, _ string, _ *dto.ShiftPlanRequest) ([]byte, string, error) {
	return m.ics, m.filename, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDashboard(_ context.Context, _ string, _ *dto.DashboardRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportTasks(_ context.Context, _ string, _ *dto.TaskListRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock APIKeyService ──

type mockAPIKeyService struct {
	deleteErr error
}

func (m *mockAPIKeyService) Get(_ context.Context) (*dto.APIKeyResponse, error) {
	return &dto.APIKeyResponse{}, nil
}
func (m *mockAPIKeyService) Generate(_ context.Context, _ string) (*dto.GeneratedAPIKeyResponse, error) {
	return &dto.GeneratedAPIKeyResponse{Key: "ls_key_test"}, nil
}
func (m *mockAPIKeyService) Delete(_ context.Context, _ string) error { return m.deleteErr }
func (m *mockAPIKeyService) Verify(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context, role string) {
	c.Set(CtxUserID, "test-user-id")
	c.Set(CtxUsername, "tester")
	c.Set(CtxRole, role)
	c.Set(CtxClaims, &jwt.Claims{UserID: "test-user-id", Username: "tester", Role: role, TokenType: jwt.TokenTypeAccess})
}

// serve 注册单条路由并执行请求；role 为空时不注入认证信息
func serve(method, route, target string, body io.Reader, contentType, role string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if role != "" {
			setAuth(c, role)
		}
		h(c)
	})

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, wantHTTP, wantCode int) {
	t.Helper()
	if w.Code != wantHTTP {
		t.Errorf("期望 HTTP %d，实际 %d（%s）", wantHTTP, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != wantCode {
		t.Errorf("期望业务码 %d，实际 %d", wantCode, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		body     io.Reader
		err      error
		wantHTTP int
		wantCode int
	}{
		{"成功", jsonBody(dto.LoginRequest{Username: "ana", Password: "secret1"}), nil, http.StatusOK, 0},
		{"JSON 非法", strings.NewReader("invalid json"), nil, http.StatusBadRequest, 10001},
		{"密码错误", jsonBody(dto.LoginRequest{Username: "ana", Password: "x"}), service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{
				loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900},
				loginErr:    tt.err,
			})
			w := serve("POST", "/auth/login", "/auth/login", tt.body, "application/json", "", h.Login)
			assertStatus(t, w, tt.wantHTTP, tt.wantCode)
		})
	}
}

func TestAuthHandler_Refresh_Revoked(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrTokenRevoked})

	w := serve("POST", "/auth/refresh", "/auth/refresh",
		jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}), "application/json", "", h.RefreshToken)
	assertStatus(t, w, http.StatusUnauthorized, 11003)
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", "/auth/logout", nil, "", "Manager", h.Logout)
	assertStatus(t, w, http.StatusOK, 0)
	if mock.logoutClaims == nil || mock.logoutClaims.UserID != "test-user-id" {
		t.Errorf("登出应携带当前 Token 声明，实际 %+v", mock.logoutClaims)
	}

	w = serve("POST", "/auth/logout", "/auth/logout", nil, "", "", h.Logout)
	assertStatus(t, w, http.StatusUnauthorized, 10002)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{meResult: &dto.UserResponse{ID: "test-user-id", Username: "tester"}})

	w := serve("GET", "/auth/me", "/auth/me", nil, "", "Viewer", h.GetCurrentUser)
	assertStatus(t, w, http.StatusOK, 0)
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_Create_Validation(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	w := serve("POST", "/users", "/users",
		jsonBody(map[string]string{"username": "bob", "password": "123", "role": "Manager"}),
		"application/json", "Admin", h.CreateUser)
	assertStatus(t, w, http.StatusBadRequest, 10001)

	w = serve("POST", "/users", "/users",
		jsonBody(map[string]string{"username": "bob", "password": "secret1", "role": "Root"}),
		"application/json", "Admin", h.CreateUser)
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestUserHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"版本冲突", pkgerrors.ErrOptimisticLock, http.StatusConflict, 12005},
		{"用户名重复", service.ErrUsernameExists, http.StatusConflict, 12002},
		{"修改自身角色", service.ErrUserSelfRoleChange, http.StatusBadRequest, 12004},
		{"用户不存在", service.ErrUserNotFound, http.StatusNotFound, 12001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUserHandler(&mockUserService{err: tt.err})
			w := serve("PUT", "/users/:id", "/users/u-1",
				jsonBody(map[string]interface{}{"username": "bobby", "version": 1}),
				"application/json", "Admin", h.UpdateUser)
			assertStatus(t, w, tt.wantHTTP, tt.wantCode)
		})
	}
}

// ═══════════════════════════════════════════════════════════
// OperationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestOperationHandler_List_PassesRole(t *testing.T) {
	mock := &mockOperationService{ops: []dto.OperationResponse{{ID: testOpID, Name: "Cajamar"}}}
	h := NewOperationHandler(mock)

	w := serve("GET", "/operations", "/operations", nil, "", "Viewer", h.ListOperations)
	assertStatus(t, w, http.StatusOK, 0)
	if mock.gotRole != "Viewer" {
		t.Errorf("期望按 Viewer 过滤，实际 %s", mock.gotRole)
	}
}

func TestOperationHandler_Create_VacationExceeds(t *testing.T) {
	h := NewOperationHandler(&mockOperationService{})

	w := serve("POST", "/operations", "/operations",
		jsonBody(map[string]interface{}{"name": "Cajamar", "total_headcount": 5, "employees_on_vacation": 6}),
		"application/json", "Admin", h.CreateOperation)
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestOperationHandler_Get_NotFound(t *testing.T) {
	h := NewOperationHandler(&mockOperationService{err: service.ErrOperationNotFound})

	w := serve("GET", "/operations/:id", "/operations/"+testOpID, nil, "", "Admin", h.GetOperation)
	assertStatus(t, w, http.StatusNotFound, 13001)
}

// ═══════════════════════════════════════════════════════════
// EmployeeHandler / TimeClockHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEmployeeHandler_GetEmployee(t *testing.T) {
	h := NewEmployeeHandler(&mockEmployeeService{detail: &dto.EmployeeDetailResponse{TodayWorkFormatted: "01h 30m"}})
	w := serve("GET", "/operations/:id/employees/:employee_id", "/operations/"+testOpID+"/employees/"+testEmpID, nil, "", "Manager", h.GetEmployee)
	assertStatus(t, w, http.StatusOK, 0)

	h = NewEmployeeHandler(&mockEmployeeService{err: service.ErrEmployeeNotFound})
	w = serve("GET", "/operations/:id/employees/:employee_id", "/operations/"+testOpID+"/employees/"+testEmpID, nil, "", "Manager", h.GetEmployee)
	assertStatus(t, w, http.StatusNotFound, 14001)
}

func TestEmployeeHandler_Create_UnknownActivity(t *testing.T) {
	h := NewEmployeeHandler(&mockEmployeeService{})

	w := serve("POST", "/operations/:id/employees", "/operations/"+testOpID+"/employees",
		jsonBody(map[string]interface{}{"name": "Ana", "activities": []string{"Sorting"}}),
		"application/json", "Manager", h.CreateEmployee)
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestTimeClockHandler_Clock(t *testing.T) {
	body := func() io.Reader {
		return jsonBody(dto.ClockRequest{EmployeeID: testEmpID, Type: "Check-in", Activity: "Picking"})
	}
	route, target := "/operations/:id/time-clock", "/operations/"+testOpID+"/time-clock"

	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"成功", nil, http.StatusCreated, 0},
		{"Viewer 不能打卡", service.ErrNoPermission, http.StatusForbidden, 15003},
		{"技能不符", service.ErrClockActivityNotAllowed, http.StatusBadRequest, 15001},
		{"未签到签退", service.ErrClockNotOnline, http.StatusConflict, 15002},
		{"员工不存在", service.ErrEmployeeNotFound, http.StatusNotFound, 14001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTimeClockHandler(&mockTimeClockService{log: &dto.TimeLogResponse{ID: "log-1"}, err: tt.err})
			w := serve("POST", route, target, body(), "application/json", "Manager", h.Clock)
			assertStatus(t, w, tt.wantHTTP, tt.wantCode)
		})
	}
}

func TestTimeClockHandler_Clock_BadType(t *testing.T) {
	h := NewTimeClockHandler(&mockTimeClockService{})

	w := serve("POST", "/operations/:id/time-clock", "/operations/"+testOpID+"/time-clock",
		jsonBody(map[string]string{"employee_id": testEmpID, "type": "Break", "activity": "Picking"}),
		"application/json", "Manager", h.Clock)
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

// ═══════════════════════════════════════════════════════════
// TaskHandler Tests
// ═══════════════════════════════════════════════════════════

func multipartFile(t *testing.T, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("构造上传文件失败: %v", err)
	}
	part.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestTaskHandler_Import(t *testing.T) {
	route, target := "/operations/:id/tasks/import", "/operations/"+testOpID+"/tasks/import"

	t.Run("成功", func(t *testing.T) {
		mock := &mockTaskService{
			parseRows:    []service.ImportTaskRow{{Row: 2}, {Row: 3}},
			importResult: &dto.ImportResult{Total: 2, Success: 1, Failed: 1},
		}
		h := NewTaskHandler(mock)
		body, ct := multipartFile(t, "tasks.xlsx", []byte("xlsx"))

		w := serve("POST", route, target, body, ct, "Manager", h.ImportTasks)
		assertStatus(t, w, http.StatusOK, 0)
		if mock.importedRows != 2 {
			t.Errorf("期望导入 2 行，实际 %d", mock.importedRows)
		}
	})

	t.Run("缺少文件", func(t *testing.T) {
		h := NewTaskHandler(&mockTaskService{})
		w := serve("POST", route, target, strings.NewReader(""), "multipart/form-data; boundary=x", "Manager", h.ImportTasks)
		assertStatus(t, w, http.StatusBadRequest, 16006)
	})

	t.Run("扩展名不符", func(t *testing.T) {
		h := NewTaskHandler(&mockTaskService{})
		body, ct := multipartFile(t, "tasks.csv", []byte("a,b"))
		w := serve("POST", route, target, body, ct, "Manager", h.ImportTasks)
		assertStatus(t, w, http.StatusBadRequest, 16006)
	})

	t.Run("表头缺失", func(t *testing.T) {
		h := NewTaskHandler(&mockTaskService{parseErr: service.ErrImportBadHeader})
		body, ct := multipartFile(t, "tasks.xlsx", []byte("xlsx"))
		w := serve("POST", route, target, body, ct, "Manager", h.ImportTasks)
		assertStatus(t, w, http.StatusBadRequest, 16005)
	})
}

func TestTaskHandler_Create_NoCheckIn(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{err: service.ErrTaskNoActiveCheckIn})

	w := serve("POST", "/operations/:id/tasks", "/operations/"+testOpID+"/tasks",
		jsonBody(dto.CreateTaskRequest{EmployeeID: testEmpID, Activity: "Picking", Quantity: 10, Driver: "Lines", ExecutionHours: 1}),
		"application/json", "Manager", h.CreateTask)
	assertStatus(t, w, http.StatusConflict, 16002)
}

func TestTaskHandler_Ingest(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{task: &dto.TaskExecutionResponse{ID: "t-1", Source: "integration"}})

	w := serve("POST", "/integration/tasks", "/integration/tasks",
		jsonBody(dto.CreateTaskRequest{EmployeeID: testEmpID, Activity: "Packing", Quantity: 5, Driver: "Each", ExecutionHours: 0.5}),
		"application/json", "", h.IngestTask)
	assertStatus(t, w, http.StatusCreated, 0)

	w = serve("POST", "/integration/tasks", "/integration/tasks",
		jsonBody(map[string]interface{}{"employee_id": testEmpID, "activity": "Packing", "quantity": -1, "driver": "Each"}),
		"application/json", "", h.IngestTask)
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

// ═══════════════════════════════════════════════════════════
// StandardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestStandardHandler_Recompute(t *testing.T) {
	h := NewStandardHandler(&mockStandardService{recomputed: dto.StandardValues{CycleTime: 60, HourlyProductivity: 60, Headcounts: 3}})

	w := serve("POST", "/standards/recompute", "/standards/recompute",
		jsonBody(map[string]interface{}{"values": map[string]float64{"daily_demand": 1000}, "field": "hourly_productivity", "value": "60"}),
		"application/json", "Viewer", h.Recompute)
	assertStatus(t, w, http.StatusOK, 0)

	var got struct {
		Data dto.StandardValues `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Data.Headcounts != 3 {
		t.Errorf("期望人数 3，实际 %d", got.Data.Headcounts)
	}

	w = serve("POST", "/standards/recompute", "/standards/recompute",
		jsonBody(map[string]interface{}{"field": "headcounts", "value": 1}),
		"application/json", "Viewer", h.Recompute)
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestStandardHandler_UpdateField_Conflict(t *testing.T) {
	h := NewStandardHandler(&mockStandardService{err: pkgerrors.ErrOptimisticLock})

	w := serve("PATCH", "/standards/:id/field", "/standards/s-1/field",
		jsonBody(dto.UpdateFieldRequest{Field: "daily_demand", Value: 100.0, Version: 1}),
		"application/json", "Manager", h.UpdateField)
	assertStatus(t, w, http.StatusConflict, 17002)
}

// ═══════════════════════════════════════════════════════════
// Dashboard / Planning / Export / APIKey Tests
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_GetDashboard(t *testing.T) {
	route := "/operations/:id/dashboard"
	base := "/operations/" + testOpID + "/dashboard"

	tests := []struct {
		name     string
		query    string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"成功", "?period=week", nil, http.StatusOK, 0},
		{"日期格式错误", "?date=2024-03-06", nil, http.StatusBadRequest, 10001},
		{"区间无效", "?start_date=06/03/2024&end_date=01/03/2024", service.ErrDashboardBadWindow, http.StatusBadRequest, 18001},
		{"环节无效", "?activities=Sorting", service.ErrDashboardBadActivity, http.StatusBadRequest, 18002},
		{"运营点不存在", "", service.ErrOperationNotFound, http.StatusNotFound, 13001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDashboardHandler(&mockDashboardService{snapshot: &dto.DashboardResponse{OperationID: testOpID}, err: tt.err})
			w := serve("GET", route, base+tt.query, nil, "", "Viewer", h.GetDashboard)
			assertStatus(t, w, tt.wantHTTP, tt.wantCode)
		})
	}
}

func TestPlanningHandler_ExportICS(t *testing.T) {
	h := NewPlanningHandler(&mockPlanningService{ics: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), filename: "shift-plan_2024-03-04.ics"})

	w := serve("GET", "/operations/:id/planning/shift-plan.ics", "/operations/"+testOpID+"/planning/shift-plan.ics?week=06/03/2024", nil, "", "Manager", h.ExportShiftPlanICS)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type 不正确: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "shift-plan_2024-03-04.ics") {
		t.Errorf("Content-Disposition 不正确: %s", cd)
	}
}

func TestExportHandler(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "dashboard_20240306.xlsx"})
	w := serve("GET", "/operations/:id/export/dashboard", "/operations/"+testOpID+"/export/dashboard", nil, "", "Viewer", h.ExportDashboard)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != xlsxContentType {
		t.Errorf("导出响应不正确: %d %s", w.Code, w.Header().Get("Content-Type"))
	}

	h = NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail})
	w = serve("GET", "/operations/:id/export/tasks", "/operations/"+testOpID+"/export/tasks", nil, "", "Viewer", h.ExportTasks)
	assertStatus(t, w, http.StatusInternalServerError, 18003)
}

func TestAPIKeyHandler_Delete_NotFound(t *testing.T) {
	h := NewAPIKeyHandler(&mockAPIKeyService{deleteErr: service.ErrAPIKeyNotFound})

	w := serve("DELETE", "/api-key", "/api-key", nil, "", "Admin", h.DeleteAPIKey)
	assertStatus(t, w, http.StatusNotFound, 19001)
}

func TestAPIKeyHandler_Generate(t *testing.T) {
	h := NewAPIKeyHandler(&mockAPIKeyService{})

	w := serve("POST", "/api-key", "/api-key", nil, "", "Admin", h.GenerateAPIKey)
	assertStatus(t, w, http.StatusCreated, 0)
}
