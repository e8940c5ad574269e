// internal/app/features/logout/routes.go
package logout

import "github.com/dalemusser/campusdesk/internal/app/system/routing"

// Routes registers logout for both verbs; links use GET and forms use POST.
func Routes(h *Handler) []routing.Route {
	return []routing.Route{
		routing.Get("/logout", "logout", h.ServeLogout, "auth"),
		routing.Post("/logout", "logout.submit", h.ServeLogout, "auth"),
	}
}
