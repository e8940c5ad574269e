package home

import (
	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/app/system/routing"
)

// Routes registers the landing page under the home destination name.
func Routes(h *Handler) []routing.Route {
	return []routing.Route{
		routing.Get("/", string(destination.Home), h.ServeRoot),
	}
}
