package navigation

import (
	"net/http"

	"go.uber.org/zap"
)

// Paths resolves a route name to its URL path.
type Paths interface {
	Path(name string) (string, bool)
}

// ErrorBag carries user-facing error messages across a redirect.
type ErrorBag interface {
	AddError(w http.ResponseWriter, r *http.Request, msg string) error
}

// Redirector sends responses that redirect to a named route.
type Redirector struct {
	paths Paths
	bag   ErrorBag
	log   *zap.Logger
}

// NewRedirector builds a Redirector. bag may be nil when no handler using it
// ever attaches an error.
func NewRedirector(paths Paths, bag ErrorBag, logger *zap.Logger) *Redirector {
	return &Redirector{paths: paths, bag: bag, log: logger}
}

// URL returns the path of the named route, or "/" if the name is unknown.
func (rd *Redirector) URL(name string) string {
	if p, ok := rd.paths.Path(name); ok {
		return p
	}
	rd.log.Error("redirect to unknown route; using /", zap.String("route", name))
	return "/"
}

// ToRoute redirects to the named route.
func (rd *Redirector) ToRoute(w http.ResponseWriter, r *http.Request, name string) {
	To(w, r, rd.URL(name))
}

// ToRouteWithError flashes msg into the error bag, then redirects to the named
// route. A failure to store the message is logged; the redirect still happens.
func (rd *Redirector) ToRouteWithError(w http.ResponseWriter, r *http.Request, name, msg string) {
	if rd.bag != nil {
		if err := rd.bag.AddError(w, r, msg); err != nil {
			rd.log.Warn("could not store error message for redirect",
				zap.String("route", name), zap.Error(err))
		}
	}
	rd.ToRoute(w, r, name)
}

// To redirects to url. HTMX requests get an HX-Redirect header so the browser
// does a full navigation instead of swapping the target.
func To(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
