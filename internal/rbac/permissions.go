package rbac

import "github.com/pulseboard/pulseboard/model"

const (
	ResourceDashboard   = "Dashboard"
	ResourceReports     = "Reports"
	ResourceCharts      = "Charts"
	ResourceDataSources = "DataSources"
	ResourceSchedules   = "Schedules"
	ResourceUsers       = "Users"
	ResourceSettings    = "Settings"
	ResourceAuditLogs   = "AuditLogs"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionExport = "export"
	ActionApply  = "apply"
)

var (
	allRoles     = []model.UserRole{model.RoleAdmin, model.RoleOwner, model.RoleAnalyst, model.RoleViewer}
	analystRoles = []model.UserRole{model.RoleAdmin, model.RoleOwner, model.RoleAnalyst}
	ownerRoles   = []model.UserRole{model.RoleAdmin, model.RoleOwner}
	adminOnly    = []model.UserRole{model.RoleAdmin}
)

// permissions is the full, build-time permission set of the application.
var permissions = []Permission{
	{ResourceDashboard, ActionView, allRoles},
	{ResourceDashboard, ActionEdit, analystRoles},

	{ResourceReports, ActionView, allRoles},
	{ResourceReports, ActionCreate, analystRoles},
	{ResourceReports, ActionEdit, analystRoles},
	{ResourceReports, ActionDelete, ownerRoles},
	{ResourceReports, ActionExport, analystRoles},

	{ResourceCharts, ActionView, allRoles},
	{ResourceCharts, ActionCreate, analystRoles},
	{ResourceCharts, ActionEdit, analystRoles},
	{ResourceCharts, ActionDelete, ownerRoles},

	{ResourceDataSources, ActionView, analystRoles},
	{ResourceDataSources, ActionCreate, ownerRoles},
	{ResourceDataSources, ActionEdit, ownerRoles},
	{ResourceDataSources, ActionDelete, adminOnly},

	{ResourceSchedules, ActionView, analystRoles},
	{ResourceSchedules, ActionCreate, ownerRoles},
	{ResourceSchedules, ActionEdit, ownerRoles},
	{ResourceSchedules, ActionDelete, ownerRoles},
	{ResourceSchedules, ActionApply, ownerRoles},

	{ResourceUsers, ActionView, adminOnly},
	{ResourceUsers, ActionCreate, adminOnly},
	{ResourceUsers, ActionEdit, adminOnly},
	{ResourceUsers, ActionDelete, adminOnly},

	{ResourceSettings, ActionView, allRoles},
	{ResourceSettings, ActionEdit, allRoles},

	{ResourceAuditLogs, ActionView, adminOnly},
}
