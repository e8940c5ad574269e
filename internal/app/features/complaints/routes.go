// internal/app/features/complaints/routes.go
package complaints

import "github.com/dalemusser/campusdesk/internal/app/system/routing"

// Routes registers the public complaint pages and the signed-in status update.
func Routes(h *Handler) []routing.Route {
	return []routing.Route{
		routing.Get("/complaints/new", "complaints.new", h.ServeNew),
		routing.Post("/complaints", "complaints.create", h.HandleCreate),
		routing.Get("/complaints/{complaintID}", "complaints.show", h.ServeShow),
		routing.Post("/complaints/{complaintID}/status", "complaints.status", h.HandleStatus, "auth"),
		routing.Get("/track", "track", h.ServeTrack),
	}
}
