// internal/app/features/dashboard/overview.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/authz"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// securityWindow bounds the access-denial and failed-login panels.
const securityWindow = 24 * time.Hour

type statusCount struct {
	Status string
	Count  int64
}

type overviewData struct {
	viewdata.BaseVM
	Scoped   bool // counts limited to the user's campus
	Counts   []statusCount
	Total    int64
	Recent   []models.Complaint
	Security *securityPanel // admin only
}

type securityPanel struct {
	AccessDenials []audit.Event
	FailedLogins  []audit.Event
	RecentLogins  []models.LoginRecord
}

func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	h.serveOverview(w, r, "Admin Dashboard")
}

func (h *Handler) ServeVP(w http.ResponseWriter, r *http.Request) {
	h.serveOverview(w, r, "VP Dashboard")
}

func (h *Handler) ServeDirector(w http.ResponseWriter, r *http.Request) {
	h.serveOverview(w, r, "Director Dashboard")
}

// serveOverview renders the shared counts page; only admins get the
// security panel.
func (h *Handler) serveOverview(w http.ResponseWriter, r *http.Request, title string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, _ := auth.CurrentUser(r)
	data, err := h.overview(ctx, u, authz.HasRole(r, models.RoleAdmin))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard counts", err, "Could not load the dashboard.", "/")
		return
	}
	data.BaseVM = viewdata.NewBaseVM(r, title, "/")

	templates.Render(w, r, "overview_dashboard", data)
}

// overview gathers status counts and recent complaints, scoped to the user's
// campus when their role assignment carries one.
func (h *Handler) overview(ctx context.Context, u *auth.SessionUser, withSecurity bool) (overviewData, error) {
	var data overviewData

	campus := campusScope(u)
	data.Scoped = campus != nil

	byStatus, err := h.Complaints.CountByStatus(ctx, campus)
	if err != nil {
		return data, err
	}
	for _, st := range models.ComplaintStatuses {
		data.Counts = append(data.Counts, statusCount{Status: st, Count: byStatus[st]})
		data.Total += byStatus[st]
	}

	data.Recent, err = h.Complaints.ListRecent(ctx, campus, recentLimit)
	if err != nil {
		return data, err
	}

	if withSecurity {
		data.Security = h.security(ctx)
	}
	return data, nil
}

// security loads the admin panels. Failures degrade to empty panels.
func (h *Handler) security(ctx context.Context) *securityPanel {
	since := time.Now().Add(-securityWindow)
	p := &securityPanel{}

	var err error
	if p.AccessDenials, err = h.Audit.GetAccessDenials(ctx, since, recentLimit); err != nil {
		h.Log.Warn("dashboard: access denials", zap.Error(err))
	}
	if p.FailedLogins, err = h.Audit.GetFailedLogins(ctx, since, recentLimit); err != nil {
		h.Log.Warn("dashboard: failed logins", zap.Error(err))
	}
	if p.RecentLogins, err = h.Logins.ListRecent(ctx, recentLimit); err != nil {
		h.Log.Warn("dashboard: recent logins", zap.Error(err))
	}
	return p
}

func campusScope(u *auth.SessionUser) *primitive.ObjectID {
	if u == nil || u.CampusID == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(u.CampusID)
	if err != nil {
		return nil
	}
	return &oid
}
