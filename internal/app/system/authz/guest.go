package authz

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"go.uber.org/zap"
)

// RedirectIfAuthenticated returns middleware for guest-only pages such as the
// login form. Guards are checked in order; the first one the request is
// authenticated under decides the redirect, using that guard's user.
// Requests authenticated under none of them reach next.
//
// Unlike the access guard this writes no audit events, only a debug line.
func RedirectIfAuthenticated(rd *navigation.Redirector, logger *zap.Logger, guards ...auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, g := range guards {
				u, ok := g.User(r)
				if !ok {
					continue
				}
				dest := destination.ForUser(u)
				logger.Debug("guest-only route visited while signed in",
					zap.String("guard", g.Name()),
					zap.String("user_id", u.ID),
					zap.String("destination", string(dest)))
				rd.ToRoute(w, r, string(dest))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GuestOnly resolves a comma-separated guard list ("web,api") against gs and
// builds RedirectIfAuthenticated. An empty list means the primary guard.
// Known guards that are not configured (api without a token secret) are
// skipped; a name that is no guard at all is an error.
func GuestOnly(gs *auth.Guards, rd *navigation.Redirector, logger *zap.Logger, names string) (func(http.Handler) http.Handler, error) {
	var guards []auth.Guard
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		g, ok := gs.Get(name)
		switch {
		case ok:
			guards = append(guards, g)
		case auth.IsKnownGuard(name):
			logger.Debug("guest-only guard not configured; skipping", zap.String("guard", name))
		default:
			return nil, fmt.Errorf("unknown guard %q", name)
		}
	}
	if len(guards) == 0 {
		guards = []auth.Guard{gs.Primary()}
	}
	return RedirectIfAuthenticated(rd, logger, guards...), nil
}
