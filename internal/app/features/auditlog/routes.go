// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/campusdesk/internal/app/system/routing"
	"github.com/dalemusser/campusdesk/internal/domain/models"
)

// Routes registers the audit log viewer. Only admins may read it.
func Routes(h *Handler) []routing.Route {
	return []routing.Route{
		routing.Get("/admin/audit", "admin.audit", h.ServeList, "role:"+models.RoleAdmin),
	}
}
