package auth

import (
	"context"
	"net/http"
)

// SessionUser is the authenticated user as seen by handlers and middleware.
// It is rebuilt from the database on every request (see UserFetcher), so
// role changes and disabled accounts take effect immediately.
type SessionUser struct {
	ID      string
	Name    string
	LoginID string

	// Role is the user's effective role, resolved at load time from their
	// role assignments. Empty means the user has no role assignment.
	Role            string
	CampusID        string // scope of the effective assignment, if any
	ComplaintTypeID string // scope of the effective assignment, if any

	// Guard names the guard that authenticated this user ("web" or "api").
	Guard string
}

// HasRole reports whether the user has an effective role.
func (u *SessionUser) HasRole() bool {
	return u != nil && u.Role != ""
}

// UserFetcher loads fresh user data for an authenticated user ID.
// It returns nil when the user does not exist, is disabled, or cannot be loaded.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user loaded by LoadSessionUser & a "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context the same way LoadSessionUser
// does. Tests use it to bypass the cookie round-trip.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
