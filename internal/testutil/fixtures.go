package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active user. A non-empty role is assigned
// globally (no campus scope) at the current time.
func (f *Fixtures) CreateUser(ctx context.Context, loginID, role string) models.User {
	f.t.Helper()
	return f.CreateUserWithPassword(ctx, loginID, role, "")
}

// CreateUserWithPassword is CreateUser with a bcrypt-hashed password so
// the user can sign in through the login form.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, loginID, role, password string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	name := "Test " + loginID
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		LoginID:    loginID,
		LoginIDCI:  text.Fold(normalize.Email(loginID)),
		Status:     models.UserActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("failed to hash test password: %v", err)
		}
		user.PasswordHash = string(hash)
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	if role != "" {
		f.AssignRoleAt(ctx, user.ID, role, nil, now)
	}
	return user
}

// AssignRoleAt records a role assignment with an explicit creation time,
// which decides the effective role when a user holds several.
func (f *Fixtures) AssignRoleAt(ctx context.Context, userID primitive.ObjectID, role string, campusID *primitive.ObjectID, at time.Time) models.RoleAssignment {
	f.t.Helper()

	a := models.RoleAssignment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Role:      role,
		CampusID:  campusID,
		CreatedAt: at.UTC(),
	}
	if _, err := f.db.Collection("user_roles").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test role assignment: %v", err)
	}
	return a
}

// CreateCampus creates a test campus with the given name.
func (f *Fixtures) CreateCampus(ctx context.Context, name string) models.Campus {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Campus{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("campuses").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test campus: %v", err)
	}
	return c
}

// CreateComplaintType creates a test complaint type with the given name.
func (f *Fixtures) CreateComplaintType(ctx context.Context, name string) models.ComplaintType {
	f.t.Helper()

	now := time.Now().UTC()
	ct := models.ComplaintType{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("complaint_types").InsertOne(ctx, ct); err != nil {
		f.t.Fatalf("failed to create test complaint type: %v", err)
	}
	return ct
}

// CreateComplaint inserts a pending complaint on a fresh campus and
// complaint type. mutate, if non-nil, may adjust it before insert.
func (f *Fixtures) CreateComplaint(ctx context.Context, mutate func(*models.Complaint)) models.Complaint {
	f.t.Helper()

	now := time.Now().UTC()
	id := primitive.NewObjectID()
	c := models.Complaint{
		ID:              id,
		ComplaintID:     "CMP-" + strings.ToUpper(id.Hex()[14:]),
		CampusID:        f.CreateCampus(ctx, "Campus "+id.Hex()).ID,
		ComplaintTypeID: f.CreateComplaintType(ctx, "Type "+id.Hex()).ID,
		Location:        "Block A, Room 101",
		Description:     "Leaking tap",
		Status:          models.ComplaintPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if mutate != nil {
		mutate(&c)
	}
	if _, err := f.db.Collection("complaints").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test complaint: %v", err)
	}
	return c
}
