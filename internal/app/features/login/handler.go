// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The email address users type to sign in

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/campusdesk/internal/app/features/errors"
	_ "github.com/dalemusser/campusdesk/internal/app/features/login/views"
	loginstore "github.com/dalemusser/campusdesk/internal/app/store/logins"
	userstore "github.com/dalemusser/campusdesk/internal/app/store/users"
	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RouteName is the name the login form is registered under.
const RouteName = "login"

// User-facing failure messages. Unknown login IDs and wrong passwords
// share one message so the form does not reveal which accounts exist.
const (
	msgMissingFields = "Please enter your email and password."
	msgBadCredential = "Invalid email or password."
	msgDisabled      = "Your account is disabled. Please contact an administrator."
)

type Handler struct {
	Users      *userstore.Store
	Logins     *loginstore.Store
	Fetcher    auth.UserFetcher
	SessionMgr *auth.SessionManager
	Redirect   *navigation.Redirector
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	rd *navigation.Redirector,
	audit *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:      userstore.New(db, logger),
		Logins:     loginstore.New(db),
		Fetcher:    userstore.NewFetcher(db, logger),
		SessionMgr: sessionMgr,
		Redirect:   rd,
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Errors    []string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin renders the form with any errors flashed by a failed attempt
// or by the access guard.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	errs := h.SessionMgr.Errors(w, r)

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Errors:    errs,
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	loginID := normalize.Email(r.FormValue("login_id"))
	password := r.FormValue("password")
	if loginID == "" || password == "" {
		h.fail(w, r, msgMissingFields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, loginID)
		h.fail(w, r, msgBadCredential)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	/*── disabled accounts cannot sign in ──────────────────────────────────*/

	if normalize.Status(u.Status) == models.UserDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, loginID)
		h.fail(w, r, msgDisabled)
		return
	}

	if !userstore.CheckPassword(u, password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, loginID)
		h.fail(w, r, msgBadCredential)
		return
	}

	/*── create session ─────────────────────────────────────────────────────*/

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Could not sign you in. Please try again.", "/login")
		return
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, loginID)
	if err := h.Logins.CreateFrom(ctx, r, u.ID, models.LoginMethodPassword); err != nil {
		h.Log.Warn("login record insert failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	dest := navigation.SafeBackURL(r, navigation.LoginReturn)
	if dest == "" {
		dest = h.Redirect.URL(string(destination.ForUser(h.Fetcher.FetchUser(ctx, u.ID.Hex()))))
	}
	navigation.To(w, r, dest)
}

// fail flashes msg and sends the browser back to the form, keeping a safe
// return URL so the retry still lands where the user was headed.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string) {
	if err := h.SessionMgr.AddError(w, r, msg); err != nil {
		h.Log.Warn("could not flash login error", zap.Error(err))
	}
	target := h.Redirect.URL(RouteName)
	if ret := navigation.SafeBackURL(r, navigation.LoginReturn); ret != "" {
		target += "?return=" + url.QueryEscape(ret)
	}
	navigation.To(w, r, target)
}
