package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/campusdesk/internal/app/features/errors"
	"github.com/dalemusser/campusdesk/internal/app/features/login"
	"github.com/dalemusser/campusdesk/internal/app/system/auditlog"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/navigation"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/campusdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const password = "correct horse battery staple"

type pathMap map[string]string

func (p pathMap) Path(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

var paths = pathMap{
	"home":             "/",
	"login":            "/login",
	"worker.dashboard": "/worker",
	"admin.dashboard":  "/admin",
}

type harness struct {
	h    *login.Handler
	sm   *auth.SessionManager
	db   *mongo.Database
	fx   *testutil.Fixtures
	logs *observer.ObservedLogs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.SetupTestDB(t)
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-0123456789", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	rd := navigation.NewRedirector(paths, sm, logger)
	audit := auditlog.New(nil, logger, auditlog.Config{Auth: auditlog.ModeLog})
	h := login.NewHandler(db, sm, rd, audit, uierrors.NewErrorLogger(logger), logger)
	return &harness{h: h, sm: sm, db: db, fx: testutil.NewFixtures(t, db), logs: logs}
}

func postLogin(h *login.Handler, form url.Values, target string) *httptest.ResponseRecorder {
	if target == "" {
		target = "/login"
	}
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "198.51.100.4:5555"
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)
	return rec
}

// flashed replays the response cookies into a fresh request and drains the error bag.
func (hn *harness) flashed(rec *httptest.ResponseRecorder) []string {
	req := httptest.NewRequest("GET", "/login", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return hn.sm.Errors(httptest.NewRecorder(), req)
}

func (hn *harness) auditEvents(eventType string) []observer.LoggedEntry {
	return hn.logs.Filter(func(e observer.LoggedEntry) bool {
		return e.ContextMap()["event_type"] == eventType
	}).All()
}

func TestHandleLoginPost_SuccessGoesToDashboard(t *testing.T) {
	hn := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := hn.fx.CreateUserWithPassword(ctx, "worker@example.com", models.RoleWorker, password)

	rec := postLogin(hn.h, url.Values{"login_id": {" Worker@Example.com "}, "password": {password}}, "")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/worker" {
		t.Errorf("Location: got %q, want /worker", loc)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}

	if n := len(hn.auditEvents("login_success")); n != 1 {
		t.Errorf("expected 1 login_success audit entry, got %d", n)
	}
	n, err := hn.db.Collection("login_records").CountDocuments(ctx, bson.M{"user_id": u.ID, "method": models.LoginMethodPassword})
	if err != nil || n != 1 {
		t.Errorf("expected 1 login record, got %d (%v)", n, err)
	}
}

func TestHandleLoginPost_NoRoleGoesHome(t *testing.T) {
	hn := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hn.fx.CreateUserWithPassword(ctx, "norole@example.com", "", password)

	rec := postLogin(hn.h, url.Values{"login_id": {"norole@example.com"}, "password": {password}}, "")
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want /", loc)
	}
}

func TestHandleLoginPost_ReturnURL(t *testing.T) {
	hn := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hn.fx.CreateUserWithPassword(ctx, "admin@example.com", models.RoleAdmin, password)

	tests := []struct {
		name   string
		ret    string
		wantTo string
	}{
		{"local path kept", "/complaints/CMP-0000000001", "/complaints/CMP-0000000001"},
		{"login page excluded", "/login?return=/admin", "/admin"},
		{"external rejected", "https://evil.example.com/", "/admin"},
		{"protocol-relative rejected", "//evil.example.com/", "/admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLogin(hn.h, url.Values{
				"login_id": {"admin@example.com"},
				"password": {password},
				"return":   {tt.ret},
			}, "")
			if loc := rec.Header().Get("Location"); loc != tt.wantTo {
				t.Errorf("Location: got %q, want %q", loc, tt.wantTo)
			}
		})
	}
}

func TestHandleLoginPost_Failures(t *testing.T) {
	hn := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hn.fx.CreateUserWithPassword(ctx, "worker@example.com", models.RoleWorker, password)
	dis := hn.fx.CreateUserWithPassword(ctx, "gone@example.com", models.RoleWorker, password)
	if _, err := hn.db.Collection("users").UpdateByID(ctx, dis.ID, bson.M{"$set": bson.M{"status": models.UserDisabled}}); err != nil {
		t.Fatalf("disable user: %v", err)
	}

	tests := []struct {
		name      string
		form      url.Values
		wantMsg   string
		wantAudit string
	}{
		{"missing password", url.Values{"login_id": {"worker@example.com"}}, "Please enter your email and password.", ""},
		{"unknown user", url.Values{"login_id": {"nobody@example.com"}, "password": {password}}, "Invalid email or password.", "login_failed_user_not_found"},
		{"wrong password", url.Values{"login_id": {"worker@example.com"}, "password": {"nope"}}, "Invalid email or password.", "login_failed_wrong_password"},
		{"disabled", url.Values{"login_id": {"gone@example.com"}, "password": {password}}, "Your account is disabled. Please contact an administrator.", "login_failed_user_disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLogin(hn.h, tt.form, "")
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/login" {
				t.Errorf("Location: got %q, want /login", loc)
			}
			msgs := hn.flashed(rec)
			if len(msgs) != 1 || msgs[0] != tt.wantMsg {
				t.Errorf("flash: got %v, want [%q]", msgs, tt.wantMsg)
			}
			if tt.wantAudit != "" {
				entries := hn.auditEvents(tt.wantAudit)
				if len(entries) == 0 {
					t.Fatalf("expected %s audit entry", tt.wantAudit)
				}
				if entries[len(entries)-1].Level != zapcore.WarnLevel {
					t.Errorf("failed login should log at warn, got %v", entries[len(entries)-1].Level)
				}
			}
		})
	}

	if n, _ := hn.db.Collection("login_records").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("failed logins must not write login records, got %d", n)
	}
}

func TestHandleLoginPost_FailureKeepsReturn(t *testing.T) {
	hn := newHarness(t)

	rec := postLogin(hn.h, url.Values{"login_id": {"x@example.com"}}, "/login?return=%2Fcomplaints%2Fnew")
	want := "/login?return=" + url.QueryEscape("/complaints/new")
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("Location: got %q, want %q", loc, want)
	}
}

func TestHandleLoginPost_HTMX(t *testing.T) {
	hn := newHarness(t)

	req := httptest.NewRequest("POST", "/login", strings.NewReader(url.Values{"login_id": {"x@example.com"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	hn.h.HandleLoginPost(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect: got %q, want /login", got)
	}
}

func TestRoutes(t *testing.T) {
	hn := newHarness(t)

	routes := login.Routes(hn.h, 10)
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	get, post := routes[0], routes[1]
	if get.Name != login.RouteName || strings.Join(get.Middleware, "|") != "guest:web,api" {
		t.Errorf("GET route: %+v", get)
	}
	if strings.Join(post.Middleware, "|") != "guest|throttle:10" {
		t.Errorf("POST middleware: got %v", post.Middleware)
	}
	if routes := login.Routes(hn.h, 0); strings.Join(routes[1].Middleware, "|") != "guest" {
		t.Errorf("throttle should be omitted when disabled, got %v", routes[1].Middleware)
	}
}
