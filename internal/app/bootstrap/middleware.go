// internal/app/bootstrap/middleware.go
package bootstrap

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/authz"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/app/system/reqctx"
	"github.com/dalemusser/campusdesk/internal/app/system/routing"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// middlewareDeps is what the named middleware kinds are built from.
type middlewareDeps struct {
	Guards   *auth.Guards
	Access   *authz.AccessGuard
	Redirect *navigation.Redirector
	Log      *zap.Logger
}

// newRegistry installs the middleware kinds routes may name:
//
//	auth          signed in under the primary (session) guard; anonymous
//	              requests are audited and sent to login like role:<role>
//	auth:<guard>  signed in under the named guard
//	role:<role>   effective role must equal <role>
//	guest[:a,b]   signed-in visitors are sent to their dashboard
//	throttle:<n>  at most n requests per minute per client IP, keyed on
//	              reqctx.ClientIP so the bucket matches the audited IP
func newRegistry(d middlewareDeps) *routing.Registry {
	reg := routing.NewRegistry()

	reg.Register("auth", func(arg string) (func(http.Handler) http.Handler, error) {
		if arg == "" || arg == auth.GuardWeb {
			return d.Access.RequireSignedIn(), nil
		}
		g, ok := d.Guards.Get(arg)
		if !ok {
			return nil, fmt.Errorf("unknown guard %q", arg)
		}
		return auth.Authenticated(g), nil
	})

	reg.Register("role", func(arg string) (func(http.Handler) http.Handler, error) {
		if !models.IsValidRole(arg) {
			return nil, fmt.Errorf("unknown role %q", arg)
		}
		return d.Access.RequireRole(arg), nil
	})

	reg.Register("guest", func(arg string) (func(http.Handler) http.Handler, error) {
		return authz.GuestOnly(d.Guards, d.Redirect, d.Log, arg)
	})

	reg.Register("throttle", func(arg string) (func(http.Handler) http.Handler, error) {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("throttle needs a positive request count, got %q", arg)
		}
		return httprate.Limit(n, time.Minute, httprate.WithKeyFuncs(clientIPKey)), nil
	})

	return reg
}

func clientIPKey(r *http.Request) (string, error) {
	return reqctx.ClientIP(r), nil
}
