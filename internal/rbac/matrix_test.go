package rbac

import (
	"testing"

	"github.com/pulseboard/pulseboard/model"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		role     model.UserRole
		resource string
		action   string
		want     bool
	}{
		{"admin manages users", model.RoleAdmin, ResourceUsers, ActionView, true},
		{"viewer cannot view users", model.RoleViewer, ResourceUsers, ActionView, false},
		{"viewer sees dashboard", model.RoleViewer, ResourceDashboard, ActionView, true},
		{"analyst exports reports", model.RoleAnalyst, ResourceReports, ActionExport, true},
		{"viewer cannot export reports", model.RoleViewer, ResourceReports, ActionExport, false},
		{"analyst cannot delete reports", model.RoleAnalyst, ResourceReports, ActionDelete, false},
		{"owner applies schedules", model.RoleOwner, ResourceSchedules, ActionApply, true},
		{"only admin deletes data sources", model.RoleOwner, ResourceDataSources, ActionDelete, false},
		{"unknown action is denied", model.RoleAdmin, ResourceReports, "publish", false},
		{"unknown resource is denied", model.RoleAdmin, "Billing", ActionView, false},
		{"unknown role is denied", model.UserRole("superuser"), ResourceDashboard, ActionView, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := HasPermission(test.role, test.resource, test.action); got != test.want {
				t.Errorf("HasPermission(%q, %q, %q) = %v, want %v", test.role, test.resource, test.action, got, test.want)
			}
		})
	}
}

// Any pair absent from the permission list is denied for every role, never
// silently allowed.
func TestDefaultDeny(t *testing.T) {
	roles := []model.UserRole{model.RoleAdmin, model.RoleOwner, model.RoleAnalyst, model.RoleViewer}
	for _, role := range roles {
		if HasPermission(role, ResourceAuditLogs, ActionDelete) {
			t.Errorf("HasPermission(%q, AuditLogs, delete) = true, want false", role)
		}
		if HasPermission(role, "Exports", "run") {
			t.Errorf("HasPermission(%q, Exports, run) = true, want false", role)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	granted := RolePermissions(model.RoleViewer)
	if len(granted) == 0 {
		t.Fatal("RolePermissions(viewer) is empty")
	}
	for _, perm := range granted {
		found := false
		for _, role := range perm.Roles {
			if role == model.RoleViewer {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("RolePermissions(viewer) includes %s/%s which does not list viewer", perm.Resource, perm.Action)
		}
	}

	adminGranted := RolePermissions(model.RoleAdmin)
	if len(adminGranted) <= len(granted) {
		t.Errorf("admin has %d permissions, viewer has %d; admin should have strictly more", len(adminGranted), len(granted))
	}
}

func TestCanAccessResource(t *testing.T) {
	tests := []struct {
		role     model.UserRole
		resource string
		want     bool
	}{
		{model.RoleViewer, ResourceDashboard, true},
		{model.RoleViewer, ResourceUsers, false},
		{model.RoleViewer, ResourceDataSources, false},
		{model.RoleAnalyst, ResourceDataSources, true},
		{model.RoleAdmin, ResourceUsers, true},
		{model.RoleAdmin, "Billing", false},
	}
	for _, test := range tests {
		if got := CanAccessResource(test.role, test.resource); got != test.want {
			t.Errorf("CanAccessResource(%q, %q) = %v, want %v", test.role, test.resource, got, test.want)
		}
	}
}
