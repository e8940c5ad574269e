package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx(t *testing.T) {
	if _, _, _, ok := authz.UserCtx(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected ok=false without a user")
	}

	bad := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "not-hex", Role: "admin"})
	if _, _, _, ok := authz.UserCtx(bad); ok {
		t.Error("expected ok=false for malformed user ID")
	}

	id := primitive.NewObjectID()
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id.Hex(), Name: "Vi", Role: "vp"})
	role, name, uid, ok := authz.UserCtx(r)
	if !ok || role != "vp" || name != "Vi" || uid != id {
		t.Errorf("got role=%q name=%q id=%v ok=%v", role, name, uid, ok)
	}
}

func TestHasRole_ExactMatchOnly(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "admin"})
	none := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id})

	if !authz.HasRole(admin, "admin") {
		t.Error("admin should have admin")
	}
	if authz.HasRole(admin, "coordinator") {
		t.Error("admin must not satisfy coordinator")
	}
	if authz.HasRole(none, "") {
		t.Error("user without role must not match the empty role")
	}
}

func TestScopedTo(t *testing.T) {
	campus := primitive.NewObjectID()
	other := primitive.NewObjectID()
	id := primitive.NewObjectID().Hex()

	unscoped := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "director"})
	scoped := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "coordinator", CampusID: campus.Hex()})

	if !authz.ScopedTo(unscoped, other) {
		t.Error("unscoped assignment should see every campus")
	}
	if !authz.ScopedTo(scoped, campus) || authz.ScopedTo(scoped, other) {
		t.Error("scoped assignment should see only its campus")
	}
	if authz.ScopedTo(httptest.NewRequest("GET", "/", nil), campus) {
		t.Error("anonymous request should not be in scope")
	}
}
