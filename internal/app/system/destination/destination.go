// Package destination maps a user's effective role to the named route they
// land on after authenticating. It is the only copy of that table: the login
// handler, the guest-only redirect middleware and the /dashboard default
// redirect all call into it.
package destination

import (
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/domain/models"
)

// Name is a named route a user can be sent to.
type Name string

// Destinations.
const (
	Home                 Name = "home"
	AdminDashboard       Name = "admin.dashboard"
	VPDashboard          Name = "vp.dashboard"
	DirectorDashboard    Name = "director.dashboard"
	CoordinatorDashboard Name = "coordinator.dashboard"
	WorkerDashboard      Name = "worker.dashboard"
)

// byRole is fixed at compile time. Roles without a dashboard of their own
// (cleaning_coordinator, general_coordinator) are absent on purpose and fall
// through to Home.
var byRole = map[string]Name{
	models.RoleAdmin:       AdminDashboard,
	models.RoleVP:          VPDashboard,
	models.RoleDirector:    DirectorDashboard,
	models.RoleCoordinator: CoordinatorDashboard,
	models.RoleWorker:      WorkerDashboard,
}

// ForRole returns the destination for role. Empty or unmapped roles get Home.
func ForRole(role string) Name {
	if d, ok := byRole[role]; ok {
		return d
	}
	return Home
}

// ForUser returns the destination for u's effective role. A nil user or a
// user without a role gets Home.
func ForUser(u *auth.SessionUser) Name {
	if !u.HasRole() {
		return Home
	}
	return ForRole(u.Role)
}

// Dashboards lists every role dashboard with the role that owns it, in a
// stable order. Route registration uses it so the table above and the
// registered routes cannot drift apart.
func Dashboards() []RoleDashboard {
	return []RoleDashboard{
		{Role: models.RoleAdmin, Name: AdminDashboard},
		{Role: models.RoleVP, Name: VPDashboard},
		{Role: models.RoleDirector, Name: DirectorDashboard},
		{Role: models.RoleCoordinator, Name: CoordinatorDashboard},
		{Role: models.RoleWorker, Name: WorkerDashboard},
	}
}

// RoleDashboard pairs a role with its dashboard route.
type RoleDashboard struct {
	Role string
	Name Name
}
