// internal/app/features/complaints/submit.go
package complaints

import (
	"context"
	"errors"
	"net/http"

	campusstore "github.com/dalemusser/campusdesk/internal/app/store/campuses"
	complainttypestore "github.com/dalemusser/campusdesk/internal/app/store/complainttypes"
	"github.com/dalemusser/campusdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campusdesk/internal/app/system/inputval"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// complaintInput is the submit form after sanitizing.
type complaintInput struct {
	CampusID        string `validate:"required,objectid" label:"Campus"`
	ComplaintTypeID string `validate:"required,objectid" label:"Complaint type"`
	Location        string `validate:"required,max=200" label:"Location"`
	Description     string `validate:"required,max=2000" label:"Description"`
}

type newFormData struct {
	viewdata.BaseVM
	Errors         []string
	Input          complaintInput
	Campuses       []models.Campus
	ComplaintTypes []models.ComplaintType
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /complaints/new                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, complaintInput{}, nil)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, in complaintInput, errs []string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	campuses, err := h.Campuses.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list campuses", err, "Could not load the complaint form.", "/")
		return
	}
	types, err := h.Types.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list complaint types", err, "Could not load the complaint form.", "/")
		return
	}

	templates.Render(w, r, "complaint_new", newFormData{
		BaseVM:         viewdata.NewBaseVM(r, "Report a problem", "/"),
		Errors:         errs,
		Input:          in,
		Campuses:       campuses,
		ComplaintTypes: types,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /complaints                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreate files a complaint and sends the submitter to its page, which
// shows the reference they track it by.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/complaints/new")
		return
	}

	in := complaintInput{
		CampusID:        r.FormValue("campus_id"),
		ComplaintTypeID: r.FormValue("complaint_type_id"),
		Location:        htmlsanitize.Text(r.FormValue("location")),
		Description:     htmlsanitize.Text(r.FormValue("description")),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, in, res.Messages())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	campusID, _ := primitive.ObjectIDFromHex(in.CampusID)
	typeID, _ := primitive.ObjectIDFromHex(in.ComplaintTypeID)

	if msg, err := h.checkRefs(ctx, campusID, typeID); err != nil {
		h.ErrLog.LogServerError(w, r, "check complaint refs", err, "Could not file your complaint.", "/complaints/new")
		return
	} else if msg != "" {
		h.renderForm(w, r, in, []string{msg})
		return
	}

	c, err := h.Complaints.Create(ctx, models.Complaint{
		CampusID:        campusID,
		ComplaintTypeID: typeID,
		Location:        in.Location,
		Description:     in.Description,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create complaint", err, "Could not file your complaint.", "/complaints/new")
		return
	}

	h.Log.Info("complaint filed",
		zap.String("complaint_id", c.ComplaintID),
		zap.String("campus_id", c.CampusID.Hex()))

	navigation.To(w, r, complaintPath(c.ComplaintID)+"?created=1")
}

// checkRefs returns a user-facing message when the campus or type no longer
// exists, and an error only for lookup failures.
func (h *Handler) checkRefs(ctx context.Context, campusID, typeID primitive.ObjectID) (string, error) {
	if _, err := h.Campuses.GetByID(ctx, campusID); err != nil {
		if errors.Is(err, campusstore.ErrNotFound) {
			return "Please choose a campus from the list.", nil
		}
		return "", err
	}
	if _, err := h.Types.GetByID(ctx, typeID); err != nil {
		if errors.Is(err, complainttypestore.ErrNotFound) {
			return "Please choose a complaint type from the list.", nil
		}
		return "", err
	}
	return "", nil
}
