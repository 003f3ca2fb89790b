package service

import (
	"context"
	"errors"
	"testing"

	"laborsync/backend/internal/dto"
	"laborsync/backend/internal/model"
)

func setupOperationService() (OperationService, *testFixture) {
	f := newTestFixture()
	ctx := context.Background()
	f.users.Create(ctx, &model.User{UserID: "u-admin", Username: "admin", Role: model.RoleAdmin})
	f.users.Create(ctx, &model.User{UserID: "u-mgr", Username: "gabi", Role: model.RoleManager})
	f.users.Create(ctx, &model.User{
		UserID: "u-view", Username: "vini", Role: model.RoleViewer,
		AccessibleOperationIDs: model.StringArray{"op-2"},
	})

	mgr := "u-mgr"
	f.addOperation("op-1", "Cajamar", &mgr)
	f.addOperation("op-2", "Extrema", nil)
	return NewOperationService(f.repo, f.logger), f
}

func TestListAccessible_ByRole(t *testing.T) {
	svc, _ := setupOperationService()
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		role   string
		want   []string
	}{
		{"管理员可见全部", "u-admin", model.RoleAdmin, []string{"Cajamar", "Extrema"}},
		{"经理仅见负责的运营点", "u-mgr", model.RoleManager, []string{"Cajamar"}},
		{"访客仅见授权的运营点", "u-view", model.RoleViewer, []string{"Extrema"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.ListAccessible(ctx, tt.userID, tt.role)
			if err != nil {
				t.Fatalf("查询失败: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("期望 %d 个运营点，实际 %d", len(tt.want), len(items))
			}
			for i, name := range tt.want {
				if items[i].Name != name {
					t.Errorf("期望第 %d 个为 %s，实际 %s", i, name, items[i].Name)
				}
			}
		})
	}
}

func TestCheckAccess(t *testing.T) {
	svc, _ := setupOperationService()
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		role   string
		opID   string
		want   error
	}{
		{"管理员", "u-admin", model.RoleAdmin, "op-2", nil},
		{"经理访问自己的运营点", "u-mgr", model.RoleManager, "op-1", nil},
		{"经理访问他人的运营点", "u-mgr", model.RoleManager, "op-2", ErrOperationAccessDenied},
		{"访客访问授权运营点", "u-view", model.RoleViewer, "op-2", nil},
		{"访客访问未授权运营点", "u-view", model.RoleViewer, "op-1", ErrOperationAccessDenied},
		{"运营点不存在", "u-admin", model.RoleAdmin, "op-x", ErrOperationNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckAccess(ctx, tt.userID, tt.role, tt.opID)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, err)
			}
		})
	}
}

func TestOperationCreate_Validation(t *testing.T) {
	svc, _ := setupOperationService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateOperationRequest{Name: "A", TotalHeadcount: 2, EmployeesOnVacation: 3}, "u-admin")
	if !errors.Is(err, ErrVacationExceedsHeadcount) {
		t.Errorf("期望 ErrVacationExceedsHeadcount，实际 %v", err)
	}

	viewer := "u-view"
	_, err = svc.Create(ctx, &dto.CreateOperationRequest{Name: "B", ManagerID: &viewer}, "u-admin")
	if !errors.Is(err, ErrManagerRoleInvalid) {
		t.Errorf("期望 ErrManagerRoleInvalid，实际 %v", err)
	}

	ghost := "u-ghost"
	_, err = svc.Create(ctx, &dto.CreateOperationRequest{Name: "C", ManagerID: &ghost}, "u-admin")
	if !errors.Is(err, ErrManagerNotFound) {
		t.Errorf("期望 ErrManagerNotFound，实际 %v", err)
	}
}

func TestOperationCreate_Success(t *testing.T) {
	svc, _ := setupOperationService()

	mgr := "u-mgr"
	resp, err := svc.Create(context.Background(), &dto.CreateOperationRequest{
		Name: "Louveira", Location: "SP", ManagerID: &mgr, TotalHeadcount: 20, EmployeesOnVacation: 2,
	}, "u-admin")
	if err != nil {
		t.Fatalf("创建运营点失败: %v", err)
	}
	if resp.ManagerName != "gabi" {
		t.Errorf("期望负责人 gabi，实际 %s", resp.ManagerName)
	}
}

func TestOperationUpdate_VacationAgainstStoredHeadcount(t *testing.T) {
	svc, _ := setupOperationService()

	vac := 11
	_, err := svc.Update(context.Background(), "op-1", &dto.UpdateOperationRequest{EmployeesOnVacation: &vac}, "u-admin")
	if !errors.Is(err, ErrVacationExceedsHeadcount) {
		t.Errorf("期望 ErrVacationExceedsHeadcount，实际 %v", err)
	}

	name := "Cajamar II"
	resp, err := svc.Update(context.Background(), "op-1", &dto.UpdateOperationRequest{Name: &name}, "u-admin")
	if err != nil {
		t.Fatalf("更新运营点失败: %v", err)
	}
	if resp.Name != name {
		t.Errorf("期望名称 %s，实际 %s", name, resp.Name)
	}
}

func TestOperationDelete_NotFound(t *testing.T) {
	svc, _ := setupOperationService()

	if err := svc.Delete(context.Background(), "op-x", "u-admin"); !errors.Is(err, ErrOperationNotFound) {
		t.Errorf("期望 ErrOperationNotFound，实际 %v", err)
	}
}
