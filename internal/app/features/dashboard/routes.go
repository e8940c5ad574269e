// internal/app/features/dashboard/routes.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/app/system/routing"
	"github.com/dalemusser/campusdesk/internal/domain/models"
)

// Routes registers /dashboard and one page per role dashboard. Each page is
// mounted at /<role> under the destination name the resolver hands out and
// is gated by role:<role> alone, so the access guard sees anonymous visitors.
func Routes(h *Handler) []routing.Route {
	pages := map[string]http.HandlerFunc{
		models.RoleAdmin:       h.ServeAdmin,
		models.RoleVP:          h.ServeVP,
		models.RoleDirector:    h.ServeDirector,
		models.RoleCoordinator: h.ServeCoordinator,
		models.RoleWorker:      h.ServeWorker,
	}

	routes := []routing.Route{
		routing.Get("/dashboard", "dashboard", h.ServeDefault, "auth"),
	}
	for _, d := range destination.Dashboards() {
		routes = append(routes, routing.Get("/"+d.Role, string(d.Name), pages[d.Role], "role:"+d.Role))
	}
	return routes
}
