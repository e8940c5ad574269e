package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID       string
	Name     string
	Email    string
	Role     string
	CampusID string
}

func userWithRole(role string) TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test " + role,
		Email: role + "@test.com",
		Role:  role,
	}
}

// AdminUser returns a TestUser with the admin role.
func AdminUser() TestUser { return userWithRole(models.RoleAdmin) }

// VPUser returns a TestUser with the vp role.
func VPUser() TestUser { return userWithRole(models.RoleVP) }

// DirectorUser returns a TestUser with the director role.
func DirectorUser() TestUser { return userWithRole(models.RoleDirector) }

// CoordinatorUser returns a TestUser with the coordinator role scoped to campusID.
func CoordinatorUser(campusID primitive.ObjectID) TestUser {
	u := userWithRole(models.RoleCoordinator)
	u.CampusID = campusID.Hex()
	return u
}

// WorkerUser returns a TestUser with the worker role.
func WorkerUser() TestUser { return userWithRole(models.RoleWorker) }

// NoRoleUser returns an authenticated TestUser without any role.
func NoRoleUser() TestUser { return userWithRole("") }

// WithUser adds a web-session user to the request context.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:       user.ID,
		Name:     user.Name,
		LoginID:  user.Email,
		Role:     user.Role,
		CampusID: user.CampusID,
		Guard:    auth.GuardWeb,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if loc := r.Header().Get("Location"); loc != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", loc, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
