// internal/app/features/login/routes.go
package login

import (
	"strconv"

	"github.com/dalemusser/campusdesk/internal/app/system/routing"
)

// Routes registers the login form. Signed-in users (session or bearer) are
// sent to their dashboard instead. perMinute throttles form posts per IP.
func Routes(h *Handler, perMinute int) []routing.Route {
	post := []string{"guest"}
	if perMinute > 0 {
		post = append(post, "throttle:"+strconv.Itoa(perMinute))
	}
	return []routing.Route{
		routing.Get("/login", RouteName, h.ServeLogin, "guest:web,api"),
		routing.Post("/login", "login.submit", h.HandleLoginPost, post...),
	}
}
