// internal/app/features/health/routes.go
package health

import "github.com/dalemusser/campusdesk/internal/app/system/routing"

func Routes(h *Handler) []routing.Route {
	return []routing.Route{
		routing.Get("/health", "health", h.Serve),
	}
}
