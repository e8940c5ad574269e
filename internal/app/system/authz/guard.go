package authz

import (
	"net/http"

	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"go.uber.org/zap"
)

// LoginRoute is the named route guards send refused requests to.
const LoginRoute = "login"

// AccessGuard gates role-protected routes.
type AccessGuard struct {
	guards   *auth.Guards
	redirect *navigation.Redirector
	audit    *auditlog.Logger
	metrics  *Metrics
	log      *zap.Logger
}

// NewAccessGuard builds the guard. audit and metrics may be nil.
func NewAccessGuard(guards *auth.Guards, rd *navigation.Redirector, audit *auditlog.Logger, metrics *Metrics, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{
		guards:   guards,
		redirect: rd,
		audit:    audit,
		metrics:  metrics,
		log:      logger,
	}
}

// RequireRole returns middleware that forwards only users whose effective
// role equals required. Every request through it is audited.
func (g *AccessGuard) RequireRole(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := auth.CurrentUser(r)
			d := Decide(user, required)
			g.metrics.observe(required, d.Reason)
			ctx := r.Context()

			switch d.Reason {
			case ReasonUnauthenticated:
				g.audit.AccessUnauthenticated(ctx, r, required)
				g.redirect.ToRoute(w, r, LoginRoute)

			case ReasonNoRole:
				if d.TerminateSession {
					g.TerminateSession(w, r, user)
				}
				g.audit.AccessMisconfigured(ctx, r, user.ID, required)
				g.redirect.ToRouteWithError(w, r, LoginRoute, d.Message)

			case ReasonInsufficientRole:
				g.audit.AccessInsufficientRole(ctx, r, user.ID, user.Role, required)
				g.redirect.ToRouteWithError(w, r, LoginRoute, d.Message)

			default:
				g.audit.AccessGranted(ctx, r, user.ID, user.Role)
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireSignedIn returns middleware for routes open to any signed-in user
// of the primary guard. Anonymous requests take the same path as on a
// role-protected route: an access warning, then a redirect to login.
func (g *AccessGuard) RequireSignedIn() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := g.guards.Primary().User(r); ok {
				next.ServeHTTP(w, r)
				return
			}
			g.metrics.observe("", ReasonUnauthenticated)
			g.audit.AccessUnauthenticated(r.Context(), r, "")
			g.redirect.ToRoute(w, r, LoginRoute)
		})
	}
}

// TerminateSession logs u out of the guard that authenticated them, falling
// back to the primary guard. Failures are logged; the caller still redirects.
func (g *AccessGuard) TerminateSession(w http.ResponseWriter, r *http.Request, u *auth.SessionUser) {
	guard := g.guards.Primary()
	if u != nil && u.Guard != "" {
		if named, ok := g.guards.Get(u.Guard); ok {
			guard = named
		}
	}
	if err := guard.Logout(w, r); err != nil {
		fields := []zap.Field{zap.String("guard", guard.Name()), zap.Error(err)}
		if u != nil {
			fields = append(fields, zap.String("user_id", u.ID))
		}
		g.log.Error("terminate session failed", fields...)
	}
}
