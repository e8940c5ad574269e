package home

import (
	"net/http"

	_ "github.com/dalemusser/campusdesk/internal/app/features/home/views"
	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the public landing page.
type Handler struct {
	Nav *navigation.Redirector
	Log *zap.Logger
}

func NewHandler(nav *navigation.Redirector, logger *zap.Logger) *Handler {
	return &Handler{Nav: nav, Log: logger}
}

type landingData struct {
	viewdata.BaseVM
	ReportURL    string
	TrackURL     string
	DashboardURL string // empty unless the user has a role dashboard
}

func (h *Handler) landing(r *http.Request) landingData {
	d := landingData{
		BaseVM:    viewdata.NewBaseVM(r, "Welcome", "/"),
		ReportURL: h.Nav.URL("complaints.new"),
		TrackURL:  h.Nav.URL("track"),
	}
	if d.IsLoggedIn && d.Dashboard != destination.Home {
		d.DashboardURL = h.Nav.URL(string(d.Dashboard))
	}
	return d
}

// ServeRoot renders GET /.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "home", h.landing(r))
}
