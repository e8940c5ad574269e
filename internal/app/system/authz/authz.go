// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's effective role, name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "", "", NilObjectID, false. This ensures callers can trust that ok=true
// means a valid, authenticated user with a valid ObjectID. An authenticated
// user with no role assignment returns role "" and ok=true.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return user.Role, user.Name, userID, true
}

// HasRole reports whether the current request's user has exactly role.
// There is no hierarchy: admin does not satisfy a coordinator check.
func HasRole(r *http.Request, role string) bool {
	cur, _, _, ok := UserCtx(r)
	return ok && cur != "" && cur == role
}

// ScopedTo reports whether the current user's role assignment is unscoped or
// scoped to campusID. Complaint views use it to keep campus staff inside
// their own campus.
func ScopedTo(r *http.Request, campusID primitive.ObjectID) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	if user.CampusID == "" {
		return true
	}
	return user.CampusID == campusID.Hex()
}
