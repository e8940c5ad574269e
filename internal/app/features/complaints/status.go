// internal/app/features/complaints/status.go
package complaints

import (
	"context"
	"errors"
	"net/http"

	complaintstore "github.com/dalemusser/campusdesk/internal/app/store/complaints"
	"github.com/dalemusser/campusdesk/internal/app/system/authz"
	"github.com/dalemusser/campusdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /complaints/{complaintID}/status                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleStatus records a new status. Any signed-in user whose role is not
// scoped to another campus may post; which transitions make sense is left to
// the staff doing the work.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	complaintID := normalize.ComplaintID(chi.URLParam(r, "complaintID"))
	back := complaintPath(complaintID)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", back)
		return
	}

	status := normalize.Status(r.FormValue("status"))
	if !models.IsValidComplaintStatus(status) {
		h.ErrLog.LogBadRequest(w, r, "invalid complaint status", complaintstore.ErrBadStatus, "Unknown status.", back)
		return
	}
	notes := htmlsanitize.Text(r.FormValue("resolution_notes"))
	if len(notes) > maxNotesLen {
		h.ErrLog.LogBadRequest(w, r, "resolution notes too long", nil, "Resolution notes are too long.", back)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Complaints.GetByComplaintID(ctx, complaintID)
	switch {
	case errors.Is(err, complaintstore.ErrNotFound):
		h.ErrLog.NotFound(w, r, "No complaint with that reference.", "/")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "load complaint", err, "Could not update the complaint.", back)
		return
	}
	if !authz.ScopedTo(r, c.CampusID) {
		h.ErrLog.Forbidden(w, r, "status update outside campus scope", "That complaint belongs to another campus.", back)
		return
	}

	prev, err := h.Complaints.UpdateStatus(ctx, complaintID, complaintstore.StatusUpdate{
		Status:          status,
		ResolutionNotes: notes,
	})
	switch {
	case errors.Is(err, complaintstore.ErrNotFound):
		h.ErrLog.NotFound(w, r, "No complaint with that reference.", "/")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update complaint status", err, "Could not update the complaint.", back)
		return
	}

	actor := ""
	if _, _, id, ok := authz.UserCtx(r); ok {
		actor = id.Hex()
	}
	h.AuditLog.ComplaintStatusChanged(ctx, r, actor, complaintID, prev, status)
	h.Log.Info("complaint status changed",
		zap.String("complaint_id", complaintID),
		zap.String("from", prev),
		zap.String("to", status),
		zap.String("actor_id", actor))

	if ret := navigation.SafeBackURL(r, navigation.BackURLOptions{}); ret != "" {
		back = ret
	}
	navigation.To(w, r, back)
}
