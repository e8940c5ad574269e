// internal/app/features/dashboard/assigned.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignedData struct {
	viewdata.BaseVM
	Heading    string
	Complaints []models.Complaint
	Statuses   []string
}

type listFunc func(context.Context, primitive.ObjectID, int64) ([]models.Complaint, error)

func (h *Handler) ServeCoordinator(w http.ResponseWriter, r *http.Request) {
	h.serveAssigned(w, r, "Coordinator Dashboard", "Complaints you coordinate", h.Complaints.ListAssignedToCoordinator)
}

func (h *Handler) ServeWorker(w http.ResponseWriter, r *http.Request) {
	h.serveAssigned(w, r, "Worker Dashboard", "Your work orders", h.Complaints.ListAssignedToWorker)
}

func (h *Handler) serveAssigned(w http.ResponseWriter, r *http.Request, title, heading string, list listFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, _ := auth.CurrentUser(r)
	items, err := assignedTo(ctx, u, list)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard assigned complaints", err, "Could not load your complaints.", "/")
		return
	}

	templates.Render(w, r, "assigned_dashboard", assignedData{
		BaseVM:     viewdata.NewBaseVM(r, title, "/"),
		Heading:    heading,
		Complaints: items,
		Statuses:   models.ComplaintStatuses,
	})
}

// assignedTo lists u's open complaints. A user whose ID does not parse has
// nothing assigned.
func assignedTo(ctx context.Context, u *auth.SessionUser, list listFunc) ([]models.Complaint, error) {
	if u == nil {
		return nil, nil
	}
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, nil
	}
	return list(ctx, uid, assignedLimit)
}
