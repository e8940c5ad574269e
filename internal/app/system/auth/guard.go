package auth

import "net/http"

// Guard names.
const (
	GuardWeb = "web" // cookie session, the primary guard
	GuardAPI = "api" // bearer token
)

// IsKnownGuard reports whether name is one of the guards the app defines,
// whether or not it is configured.
func IsKnownGuard(name string) bool {
	return name == GuardWeb || name == GuardAPI
}

// Guard is one named authentication mechanism a request may be authenticated under.
type Guard interface {
	Name() string
	// User returns the user authenticated under this guard, if any.
	User(r *http.Request) (*SessionUser, bool)
	// Logout ends the authenticated state under this guard.
	Logout(w http.ResponseWriter, r *http.Request) error
}

// Guards is a name-indexed set of guards. The first guard added is primary.
type Guards struct {
	order  []Guard
	byName map[string]Guard
}

// NewGuards builds a guard set; primary must not be nil.
func NewGuards(primary Guard, others ...Guard) *Guards {
	gs := &Guards{byName: make(map[string]Guard)}
	gs.add(primary)
	for _, g := range others {
		if g != nil {
			gs.add(g)
		}
	}
	return gs
}

func (gs *Guards) add(g Guard) {
	if _, dup := gs.byName[g.Name()]; dup {
		return
	}
	gs.order = append(gs.order, g)
	gs.byName[g.Name()] = g
}

// Primary returns the default guard.
func (gs *Guards) Primary() Guard {
	return gs.order[0]
}

// Get looks a guard up by name.
func (gs *Guards) Get(name string) (Guard, bool) {
	g, ok := gs.byName[name]
	return g, ok
}

// Authenticated returns middleware that lets a request through only when it is
// authenticated under g. Browser routes on the primary session guard use the
// access guard's RequireSignedIn instead, which audits and redirects.
func Authenticated(g Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := g.User(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="campusdesk"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			// Handlers read the user through CurrentUser regardless of guard.
			next.ServeHTTP(w, withUser(r, u))
		})
	}
}
