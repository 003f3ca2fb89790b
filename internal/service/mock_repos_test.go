package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborsync/backend/config"
	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
	"laborsync/backend/internal/repository"
	pkgerrors "laborsync/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	if user.Version == 0 {
		user.Version = 1
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cur, ok := m.users[user.UserID]
	if !ok || cur.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version++
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock OperationRepository ──

type mockOperationRepo struct {
	ops   map[string]*model.Operation
	users *mockUserRepo
}

func newMockOperationRepo(users *mockUserRepo) *mockOperationRepo {
	return &mockOperationRepo{ops: make(map[string]*model.Operation), users: users}
}

func (m *mockOperationRepo) Create(_ context.Context, op *model.Operation) error {
	if op.OperationID == "" {
		op.OperationID = "op-" + op.Name
	}
	m.ops[op.OperationID] = op
	return nil
}

func (m *mockOperationRepo) GetByID(_ context.Context, id string) (*model.Operation, error) {
	op, ok := m.ops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *op
	if cp.ManagerID != nil && m.users != nil {
		if u, ok := m.users.users[*cp.ManagerID]; ok {
			cp.Manager = u
		}
	}
	return &cp, nil
}

func (m *mockOperationRepo) List(_ context.Context) ([]model.Operation, error) {
	return m.filter(func(*model.Operation) bool { return true }), nil
}

func (m *mockOperationRepo) ListByIDs(_ context.Context, ids []string) ([]model.Operation, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return m.filter(func(op *model.Operation) bool { return set[op.OperationID] }), nil
}

func (m *mockOperationRepo) ListByManager(_ context.Context, managerID string) ([]model.Operation, error) {
	return m.filter(func(op *model.Operation) bool {
		return op.ManagerID != nil && *op.ManagerID == managerID
	}), nil
}

func (m *mockOperationRepo) Update(_ context.Context, op *model.Operation) error {
	if _, ok := m.ops[op.OperationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *op
	m.ops[op.OperationID] = &cp
	return nil
}

func (m *mockOperationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.ops, id)
	return nil
}

func (m *mockOperationRepo) filter(keep func(*model.Operation) bool) []model.Operation {
	var out []model.Operation
	for _, op := range m.ops {
		if keep(op) {
			out = append(out, *op)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	emps map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{emps: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	if emp.EmployeeID == "" {
		emp.EmployeeID = "emp-" + strings.ToLower(strings.ReplaceAll(emp.Name, " ", "-"))
	}
	m.emps[emp.EmployeeID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.emps[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListByOperation(_ context.Context, operationID string, filter repository.EmployeeFilter) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range m.emps {
		if !e.InOperation(operationID) {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Activity != "" && !e.HasActivity(filter.Activity) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	if _, ok := m.emps[emp.EmployeeID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *emp
	m.emps[emp.EmployeeID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.emps, id)
	return nil
}

func (m *mockEmployeeRepo) inOperation(employeeID, operationID string) bool {
	e, ok := m.emps[employeeID]
	return ok && e.InOperation(operationID)
}

// ── Mock TimeLogRepository ──

type mockTimeLogRepo struct {
	logs []model.TimeLog
	emps *mockEmployeeRepo
}

func newMockTimeLogRepo(emps *mockEmployeeRepo) *mockTimeLogRepo {
	return &mockTimeLogRepo{emps: emps}
}

func (m *mockTimeLogRepo) Create(_ context.Context, log *model.TimeLog) error {
	if log.TimeLogID == "" {
		log.TimeLogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockTimeLogRepo) ListByOperation(_ context.Context, operationID string, filter repository.TimeLogFilter) ([]model.TimeLog, int64, error) {
	var out []model.TimeLog
	for _, l := range m.sorted() {
		if !m.emps.inOperation(l.EmployeeID, operationID) {
			continue
		}
		if filter.EmployeeName != "" && !strings.Contains(strings.ToLower(l.EmployeeName), strings.ToLower(filter.EmployeeName)) {
			continue
		}
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		if filter.Since != nil && l.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, l)
	}
	total := int64(len(out))
	return page(out, filter.Offset, filter.Limit), total, nil
}

func (m *mockTimeLogRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.TimeLog, error) {
	var out []model.TimeLog
	for _, l := range m.sorted() {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockTimeLogRepo) LatestByEmployee(ctx context.Context, employeeID string) (*model.TimeLog, error) {
	logs, _ := m.ListByEmployee(ctx, employeeID)
	if len(logs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &logs[0], nil
}

func (m *mockTimeLogRepo) sorted() []model.TimeLog {
	out := append([]model.TimeLog(nil), m.logs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// ── Mock TaskExecutionRepository ──

type mockTaskRepo struct {
	tasks []model.TaskExecution
	emps  *mockEmployeeRepo
}

func newMockTaskRepo(emps *mockEmployeeRepo) *mockTaskRepo {
	return &mockTaskRepo{emps: emps}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.TaskExecution) error {
	if task.TaskExecutionID == "" {
		task.TaskExecutionID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	}
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *mockTaskRepo) BatchCreate(ctx context.Context, tasks []model.TaskExecution) error {
	for i := range tasks {
		if err := m.Create(ctx, &tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.TaskExecution, error) {
	for i := range m.tasks {
		if m.tasks[i].TaskExecutionID == id {
			cp := m.tasks[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListByOperation(_ context.Context, operationID string, filter repository.TaskFilter) ([]model.TaskExecution, int64, error) {
	var out []model.TaskExecution
	for _, t := range m.tasks {
		if !m.emps.inOperation(t.EmployeeID, operationID) {
			continue
		}
		if filter.EmployeeName != "" && !strings.Contains(strings.ToLower(t.EmployeeName), strings.ToLower(filter.EmployeeName)) {
			continue
		}
		if filter.Activity != "" && t.Activity != filter.Activity {
			continue
		}
		if filter.Start != nil || filter.End != nil {
			d, ok := labor.ParseDate(t.ExecutionDate)
			if !ok {
				continue
			}
			if filter.Start != nil && d.Before(*filter.Start) {
				continue
			}
			if filter.End != nil && d.After(*filter.End) {
				continue
			}
		}
		out = append(out, t)
	}
	total := int64(len(out))
	return page(out, filter.Offset, filter.Limit), total, nil
}

func (m *mockTaskRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.TaskExecution, error) {
	var out []model.TaskExecution
	for _, t := range m.tasks {
		if t.EmployeeID == employeeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.TaskExecution) error {
	for i := range m.tasks {
		if m.tasks[i].TaskExecutionID == task.TaskExecutionID {
			m.tasks[i] = *task
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	for i := range m.tasks {
		if m.tasks[i].TaskExecutionID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock StandardRepository ──

type mockStandardRepo struct {
	stds []model.EngineeringStandard
}

func newMockStandardRepo() *mockStandardRepo {
	return &mockStandardRepo{}
}

func (m *mockStandardRepo) Create(_ context.Context, std *model.EngineeringStandard) error {
	if std.StandardID == "" {
		std.StandardID = fmt.Sprintf("std-%d", len(m.stds)+1)
	}
	if std.Version == 0 {
		std.Version = 1
	}
	m.stds = append(m.stds, *std)
	return nil
}

func (m *mockStandardRepo) BatchCreate(ctx context.Context, stds []model.EngineeringStandard) error {
	for i := range stds {
		if err := m.Create(ctx, &stds[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStandardRepo) GetByID(_ context.Context, id string) (*model.EngineeringStandard, error) {
	for i := range m.stds {
		if m.stds[i].StandardID == id {
			cp := m.stds[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStandardRepo) ListByIDs(_ context.Context, ids []string) ([]model.EngineeringStandard, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var out []model.EngineeringStandard
	for _, s := range m.stds {
		if set[s.StandardID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStandardRepo) List(_ context.Context, filter repository.StandardFilter) ([]model.EngineeringStandard, error) {
	var out []model.EngineeringStandard
	for _, s := range m.stds {
		if filter.Activity != "" && s.Activity != filter.Activity {
			continue
		}
		if filter.ProcessType != "" && s.ProcessType != filter.ProcessType {
			continue
		}
		if filter.Start != nil || filter.End != nil {
			d, ok := labor.ParseDate(s.ExecutionDate)
			if !ok {
				continue
			}
			if filter.Start != nil && d.Before(*filter.Start) {
				continue
			}
			if filter.End != nil && d.After(*filter.End) {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStandardRepo) Update(_ context.Context, std *model.EngineeringStandard) error {
	for i := range m.stds {
		if m.stds[i].StandardID != std.StandardID {
			continue
		}
		if m.stds[i].Version != std.Version {
			return pkgerrors.ErrOptimisticLock
		}
		std.Version++
		m.stds[i] = *std
		return nil
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockStandardRepo) Delete(_ context.Context, id string, _ string) error {
	for i := range m.stds {
		if m.stds[i].StandardID == id {
			m.stds = append(m.stds[:i], m.stds[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock APIKeyRepository ──

type mockAPIKeyRepo struct {
	active  *model.APIKey
	touched int
}

func (m *mockAPIKeyRepo) GetActive(_ context.Context) (*model.APIKey, error) {
	if m.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.active
	return &cp, nil
}

func (m *mockAPIKeyRepo) Replace(_ context.Context, key *model.APIKey) error {
	if key.APIKeyID == "" {
		key.APIKeyID = "key-" + key.Prefix
	}
	cp := *key
	m.active = &cp
	return nil
}

func (m *mockAPIKeyRepo) DeleteActive(_ context.Context, _ string) (int64, error) {
	if m.active == nil {
		return 0, nil
	}
	m.active = nil
	return 1, nil
}

func (m *mockAPIKeyRepo) TouchLastUsed(_ context.Context, _ string) error {
	m.touched++
	if m.active != nil {
		now := time.Now()
		m.active.LastUsedAt = &now
	}
	return nil
}

// ── 测试夹具 ──

// testFixture 聚合全部 mock，便于各服务测试复用
type testFixture struct {
	users     *mockUserRepo
	ops       *mockOperationRepo
	emps      *mockEmployeeRepo
	logs      *mockTimeLogRepo
	tasks     *mockTaskRepo
	standards *mockStandardRepo
	apiKeys   *mockAPIKeyRepo
	repo      *repository.Repository
	cfg       *config.Config
	logger    *zap.Logger
}

func newTestFixture() *testFixture {
	users := newMockUserRepo()
	emps := newMockEmployeeRepo()
	f := &testFixture{
		users:     users,
		ops:       newMockOperationRepo(users),
		emps:      emps,
		logs:      newMockTimeLogRepo(emps),
		tasks:     newMockTaskRepo(emps),
		standards: newMockStandardRepo(),
		apiKeys:   &mockAPIKeyRepo{},
		logger:    zap.NewNop(),
	}
	f.repo = &repository.Repository{
		User:          f.users,
		Operation:     f.ops,
		Employee:      f.emps,
		TimeLog:       f.logs,
		TaskExecution: f.tasks,
		Standard:      f.standards,
		APIKey:        f.apiKeys,
	}
	f.cfg = &config.Config{
		Labor: config.LaborConfig{
			Timezone:          "UTC",
			ShiftStart:        "08:00",
			DefaultWorkHours:  8,
			DefaultBreakHours: 1,
			APIKeyCacheTTL:    time.Minute,
		},
	}
	return f
}

// fixedNow 测试用固定时钟：2024-03-06（周三）10:00 UTC
var fixedNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func (f *testFixture) addOperation(id, name string, managerID *string) *model.Operation {
	op := &model.Operation{OperationID: id, Name: name, ManagerID: managerID, TotalHeadcount: 10, EmployeesOnVacation: 1}
	f.ops.ops[id] = op
	return op
}

func (f *testFixture) addEmployee(id, name string, activities []string, opIDs ...string) *model.Employee {
	e := &model.Employee{
		EmployeeID:       id,
		Name:             name,
		Activities:       model.StringArray(activities),
		RegistrationDate: fixedNow.AddDate(-1, 0, 0),
		OperationIDs:     model.StringArray(opIDs),
	}
	f.emps.emps[id] = e
	return e
}

func (f *testFixture) addLog(empID, empName string, typ model.LogType, activity string, at time.Time) {
	f.logs.logs = append(f.logs.logs, model.TimeLog{
		TimeLogID:    fmt.Sprintf("log-%d", len(f.logs.logs)+1),
		EmployeeID:   empID,
		EmployeeName: empName,
		Type:         string(typ),
		Activity:     activity,
		Timestamp:    at,
	})
}

func (f *testFixture) addTask(empID, empName, activity string, qty, hours float64, date string) {
	f.tasks.tasks = append(f.tasks.tasks, model.TaskExecution{
		TaskExecutionID: fmt.Sprintf("task-%d", len(f.tasks.tasks)+1),
		EmployeeID:      empID,
		EmployeeName:    empName,
		Activity:        activity,
		Quantity:        qty,
		Driver:          string(model.DriverLines),
		ExecutionHours:  hours,
		ExecutionDate:   date,
		Source:          model.TaskSourceManual,
	})
}

func (f *testFixture) addStandard(id, activity string, hp, demand, work, brk float64, date string) {
	std := labor.NormalizeStandard(model.EngineeringStandard{
		StandardID:         id,
		Activity:           activity,
		ProcessType:        string(model.ProcessManual),
		Driver:             string(model.DriverLines),
		HourlyProductivity: hp,
		DailyDemand:        demand,
		WorkTime:           work,
		BreakTime:          brk,
		ExecutionDate:      date,
	})
	std.Version = 1
	f.standards.stds = append(f.standards.stds, std)
}

func page[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		return items
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
