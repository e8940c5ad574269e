// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/dalemusser/campusdesk/internal/app/features/errors"
	_ "github.com/dalemusser/campusdesk/internal/app/features/dashboard/views"
	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	complaintstore "github.com/dalemusser/campusdesk/internal/app/store/complaints"
	loginstore "github.com/dalemusser/campusdesk/internal/app/store/logins"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Limits for the lists shown on dashboards.
const (
	assignedLimit = 25
	recentLimit   = 10
)

type Handler struct {
	Complaints *complaintstore.Store
	Logins     *loginstore.Store
	Audit      *audit.Store
	Redirect   *navigation.Redirector
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, rd *navigation.Redirector, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Complaints: complaintstore.New(db),
		Logins:     loginstore.New(db),
		Audit:      audit.New(db),
		Redirect:   rd,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// ServeDefault handles GET /dashboard by sending the user on to the page
// for their effective role. The role is resolved per request, so a role
// change takes effect on the next click.
func (h *Handler) ServeDefault(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	dest := destination.ForUser(u)

	h.Log.Debug("dashboard default redirect",
		zap.String("destination", string(dest)),
		zap.Bool("has_role", u.HasRole()))

	h.Redirect.ToRoute(w, r, string(dest))
}
