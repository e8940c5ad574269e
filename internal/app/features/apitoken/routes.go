// internal/app/features/apitoken/routes.go
package apitoken

import "github.com/dalemusser/campusdesk/internal/app/system/routing"

// Routes registers token issue (session only) and the bearer identity endpoint.
func Routes(h *Handler) []routing.Route {
	return []routing.Route{
		routing.Post("/api/token", "api.token", h.HandleIssue, "auth"),
		routing.Get("/api/me", "api.me", h.ServeMe, "auth:api"),
	}
}
