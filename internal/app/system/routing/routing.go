// Package routing is the declarative route registry. Features describe their
// routes as data (method, pattern, name, handler, middleware names) and the
// table mounts them onto a chi router, resolving each middleware name through
// a Registry.
package routing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/campusdesk/internal/app/system/reqctx"
	"github.com/go-chi/chi/v5"
)

// Route is one method+pattern binding.
type Route struct {
	Method  string
	Pattern string
	// Name is optional; named routes can be redirect targets.
	Name    string
	Handler http.Handler
	// Middleware names, applied in order, e.g. "auth", "role:admin", "guest:web,api".
	Middleware []string
}

// Get builds a GET route.
func Get(pattern, name string, h http.HandlerFunc, middleware ...string) Route {
	return Route{Method: http.MethodGet, Pattern: pattern, Name: name, Handler: h, Middleware: middleware}
}

// Post builds a POST route.
func Post(pattern, name string, h http.HandlerFunc, middleware ...string) Route {
	return Route{Method: http.MethodPost, Pattern: pattern, Name: name, Handler: h, Middleware: middleware}
}

// Table holds routes in registration order.
type Table struct {
	routes []Route
	paths  map[string]string
	seen   map[string]bool
	errs   []error
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		paths: make(map[string]string),
		seen:  make(map[string]bool),
	}
}

// Add registers routes. Registration problems (duplicates, missing handler)
// are collected and reported by Err and Mount.
func (t *Table) Add(routes ...Route) {
	for _, rt := range routes {
		t.add(rt)
	}
}

// Group registers routes under a shared path prefix. The group's middleware
// runs before each route's own middleware.
func (t *Table) Group(prefix string, middleware []string, routes ...Route) {
	prefix = strings.TrimRight(prefix, "/")
	for _, rt := range routes {
		if rt.Pattern == "/" || rt.Pattern == "" {
			rt.Pattern = prefix
		} else {
			rt.Pattern = prefix + rt.Pattern
		}
		if rt.Pattern == "" {
			rt.Pattern = "/"
		}
		mw := make([]string, 0, len(middleware)+len(rt.Middleware))
		mw = append(mw, middleware...)
		rt.Middleware = append(mw, rt.Middleware...)
		t.add(rt)
	}
}

func (t *Table) add(rt Route) {
	rt.Method = strings.ToUpper(rt.Method)
	key := rt.Method + " " + rt.Pattern

	switch {
	case rt.Handler == nil:
		t.errs = append(t.errs, fmt.Errorf("route %s has no handler", key))
		return
	case !strings.HasPrefix(rt.Pattern, "/"):
		t.errs = append(t.errs, fmt.Errorf("route %s: pattern must start with /", key))
		return
	case t.seen[key]:
		t.errs = append(t.errs, fmt.Errorf("route %s registered twice", key))
		return
	}
	if rt.Name != "" {
		if _, dup := t.paths[rt.Name]; dup {
			t.errs = append(t.errs, fmt.Errorf("route name %q registered twice (%s)", rt.Name, key))
			return
		}
		t.paths[rt.Name] = rt.Pattern
	}
	t.seen[key] = true
	t.routes = append(t.routes, rt)
}

// Err reports every registration problem seen so far.
func (t *Table) Err() error {
	return errors.Join(t.errs...)
}

// Routes returns a copy of the registered routes in order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Path returns the pattern registered under name.
func (t *Table) Path(name string) (string, bool) {
	p, ok := t.paths[name]
	return p, ok
}

// Mount attaches every route to r. Each route's chain is: route-name
// injection, then its middleware in order, then the handler. Unknown
// middleware names fail the whole mount.
func (t *Table) Mount(r chi.Router, reg *Registry) error {
	if err := t.Err(); err != nil {
		return err
	}

	var errs []error
	for _, rt := range t.routes {
		chain := []func(http.Handler) http.Handler{nameRoute(rt.Name)}
		for _, entry := range rt.Middleware {
			mw, err := reg.Resolve(entry)
			if err != nil {
				errs = append(errs, fmt.Errorf("route %s %s: %w", rt.Method, rt.Pattern, err))
				continue
			}
			chain = append(chain, mw)
		}
		if len(errs) > 0 {
			continue
		}
		r.With(chain...).Method(rt.Method, rt.Pattern, rt.Handler)
	}
	return errors.Join(errs...)
}

func nameRoute(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, reqctx.WithRouteName(r, name))
		})
	}
}
