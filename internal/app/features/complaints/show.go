// internal/app/features/complaints/show.go
package complaints

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	complaintstore "github.com/dalemusser/campusdesk/internal/app/store/complaints"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/authz"
	"github.com/dalemusser/campusdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type showData struct {
	viewdata.BaseVM
	Complaint       models.Complaint
	CampusName      string
	ComplaintType   string
	DescriptionHTML template.HTML
	NotesHTML       template.HTML
	JustCreated     bool
	CanUpdate       bool
	Statuses        []string
}

type trackData struct {
	viewdata.BaseVM
	ComplaintID string
	Errors      []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /complaints/{complaintID}                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeShow renders one complaint. The reference is the only secret a
// submitter holds, so the page is public.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Complaints.GetByComplaintID(ctx, chi.URLParam(r, "complaintID"))
	if errors.Is(err, complaintstore.ErrNotFound) {
		h.ErrLog.NotFound(w, r, "No complaint with that reference.", "/track")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get complaint", err, "Could not load the complaint.", "/")
		return
	}

	data := showData{
		BaseVM:          viewdata.NewBaseVM(r, c.ComplaintID, "/track"),
		Complaint:       c,
		CampusName:      "Unknown campus",
		ComplaintType:   "Unknown type",
		DescriptionHTML: htmlsanitize.PrepareForDisplay(c.Description),
		JustCreated:     query.Get(r, "created") == "1",
		Statuses:        models.ComplaintStatuses,
	}
	if c.ResolutionNotes != nil {
		data.NotesHTML = htmlsanitize.PrepareForDisplay(*c.ResolutionNotes)
	}
	if campus, err := h.Campuses.GetByID(ctx, c.CampusID); err == nil {
		data.CampusName = campus.Name
	}
	if ct, err := h.Types.GetByID(ctx, c.ComplaintTypeID); err == nil {
		data.ComplaintType = ct.Name
	}
	if u, ok := auth.CurrentUser(r); ok {
		data.CanUpdate = u.HasRole() && authz.ScopedTo(r, c.CampusID)
	}

	templates.Render(w, r, "complaint_show", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /track?complaint_id=                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeTrack shows the lookup form, or sends the visitor straight to the
// complaint when the reference exists.
func (h *Handler) ServeTrack(w http.ResponseWriter, r *http.Request) {
	raw := query.Get(r, "complaint_id")
	data := trackData{BaseVM: viewdata.NewBaseVM(r, "Track a complaint", "/")}

	if raw == "" {
		templates.Render(w, r, "complaint_track", data)
		return
	}

	id := normalize.ComplaintID(raw)
	data.ComplaintID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Complaints.GetByComplaintID(ctx, id)
	switch {
	case err == nil:
		navigation.To(w, r, complaintPath(id))
	case errors.Is(err, complaintstore.ErrNotFound):
		data.Errors = []string{"No complaint found with reference " + id + "."}
		w.WriteHeader(http.StatusNotFound)
		templates.Render(w, r, "complaint_track", data)
	default:
		h.ErrLog.LogServerError(w, r, "track complaint", err, "Could not look that complaint up.", "/track")
	}
}
