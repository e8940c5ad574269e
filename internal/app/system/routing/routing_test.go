package routing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/campusdesk/internal/app/system/reqctx"
	"github.com/go-chi/chi/v5"
)

// traceRegistry records the order middleware runs in via the X-Trace header.
func traceRegistry() *Registry {
	reg := NewRegistry()
	tracer := func(kind string) Factory {
		return func(arg string) (func(http.Handler) http.Handler, error) {
			label := kind
			if arg != "" {
				label += ":" + arg
			}
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Add("X-Trace", label)
					next.ServeHTTP(w, r)
				})
			}, nil
		}
	}
	reg.Register("auth", tracer("auth"))
	reg.Register("role", tracer("role"))
	reg.Register("deny", func(string) (func(http.Handler) http.Handler, error) {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			})
		}, nil
	})
	reg.Register("bad", func(string) (func(http.Handler) http.Handler, error) {
		return nil, errors.New("bad argument")
	})
	return reg
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body + "|" + reqctx.RouteName(r)))
	}
}

func serve(t *testing.T, tbl *Table, reg *Registry, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	if err := tbl.Mount(r, reg); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestMount_MiddlewareOrderAndRouteName(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Get("/admin", "admin.dashboard", okHandler("admin"), "auth", "role:admin"))

	rec := serve(t, tbl, traceRegistry(), "GET", "/admin")

	if got := rec.Body.String(); got != "admin|admin.dashboard" {
		t.Errorf("body: got %q", got)
	}
	trace := rec.Header().Values("X-Trace")
	if strings.Join(trace, ",") != "auth,role:admin" {
		t.Errorf("middleware order: got %v", trace)
	}
}

func TestMount_ShortCircuitSkipsHandler(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Get("/secret", "secret", okHandler("secret"), "deny"))

	rec := serve(t, tbl, traceRegistry(), "GET", "/secret")

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Error("handler should not have run")
	}
}

func TestGroup_PrefixAndMiddlewareFirst(t *testing.T) {
	tbl := NewTable()
	tbl.Group("/api", []string{"auth:api"},
		Get("/me", "api.me", okHandler("me"), "role:admin"),
		Get("/", "api.index", okHandler("index")),
	)

	if p, ok := tbl.Path("api.me"); !ok || p != "/api/me" {
		t.Errorf("Path(api.me) = %q, %v", p, ok)
	}
	if p, _ := tbl.Path("api.index"); p != "/api" {
		t.Errorf("Path(api.index) = %q", p)
	}

	rec := serve(t, tbl, traceRegistry(), "GET", "/api/me")
	if trace := strings.Join(rec.Header().Values("X-Trace"), ","); trace != "auth:api,role:admin" {
		t.Errorf("trace: got %q", trace)
	}
}

func TestMount_MethodMismatch(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Post("/login", "", okHandler("post")))

	rec := serve(t, tbl, traceRegistry(), "GET", "/login")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name   string
		routes []Route
		want   string
	}{
		{"duplicate method+pattern", []Route{
			Get("/a", "a1", okHandler("a")),
			Get("/a", "a2", okHandler("a")),
		}, "registered twice"},
		{"duplicate name", []Route{
			Get("/a", "same", okHandler("a")),
			Get("/b", "same", okHandler("b")),
		}, `route name "same"`},
		{"no handler", []Route{{Method: "GET", Pattern: "/x"}}, "no handler"},
		{"relative pattern", []Route{Get("x", "", okHandler("x"))}, "must start with /"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tbl := NewTable()
			tbl.Add(tc.routes...)
			err := tbl.Err()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Err() = %v, want containing %q", err, tc.want)
			}
			if err := tbl.Mount(chi.NewRouter(), traceRegistry()); err == nil {
				t.Error("Mount should refuse a table with registration errors")
			}
		})
	}
}

func TestAdd_SamePatternDifferentMethodsIsFine(t *testing.T) {
	tbl := NewTable()
	tbl.Add(
		Get("/logout", "logout", okHandler("get")),
		Post("/logout", "", okHandler("post")),
	)
	if err := tbl.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Routes()) != 2 {
		t.Errorf("routes: got %d", len(tbl.Routes()))
	}
}

func TestMount_UnknownOrBrokenMiddleware(t *testing.T) {
	for _, mw := range []string{"nope", "bad:1"} {
		t.Run(mw, func(t *testing.T) {
			tbl := NewTable()
			tbl.Add(Get("/x", "x", okHandler("x"), mw))
			if err := tbl.Mount(chi.NewRouter(), traceRegistry()); err == nil {
				t.Errorf("expected error for middleware %q", mw)
			}
		})
	}
}

func TestPath_Unknown(t *testing.T) {
	if _, ok := NewTable().Path("missing"); ok {
		t.Error("expected unknown name to report ok=false")
	}
}
