// internal/app/store/userroles/userrolestore.go
package userrolestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBadRole is returned when assigning a role outside the seven known roles.
var ErrBadRole = errors.New(`role must be one of admin|vp|director|cleaning_coordinator|general_coordinator|coordinator|worker`)

// Store manages the user_roles collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_roles")}
}

// Assign records a new role assignment for a user. Earlier assignments are
// kept; the newest one becomes the user's effective role.
func (s *Store) Assign(ctx context.Context, a models.RoleAssignment) (models.RoleAssignment, error) {
	a.Role = normalize.Role(a.Role)
	if !models.IsValidRole(a.Role) {
		return models.RoleAssignment{}, ErrBadRole
	}
	if a.UserID.IsZero() {
		return models.RoleAssignment{}, errors.New("role assignment needs a user_id")
	}

	a.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.RoleAssignment{}, err
	}
	return a, nil
}

// ListByUser returns every assignment held by userID, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.RoleAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RoleAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Effective returns the assignment that decides userID's role, if any.
func (s *Store) Effective(ctx context.Context, userID primitive.ObjectID) (models.RoleAssignment, bool, error) {
	all, err := s.ListByUser(ctx, userID)
	if err != nil {
		return models.RoleAssignment{}, false, err
	}
	a, ok := models.EffectiveAssignment(all)
	return a, ok, nil
}

// UserIDsWithRole returns the users holding role in any assignment.
func (s *Store) UserIDsWithRole(ctx context.Context, role string) ([]primitive.ObjectID, error) {
	vals, err := s.c.Distinct(ctx, "user_id", bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	out := make([]primitive.ObjectID, 0, len(vals))
	for _, v := range vals {
		if oid, ok := v.(primitive.ObjectID); ok {
			out = append(out, oid)
		}
	}
	return out, nil
}

// DeleteByUser removes every assignment of userID.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.deleteMany(ctx, bson.M{"user_id": userID})
}

// DeleteByCampus removes assignments scoped to campusID.
func (s *Store) DeleteByCampus(ctx context.Context, campusID primitive.ObjectID) (int64, error) {
	return s.deleteMany(ctx, bson.M{"campus_id": campusID})
}

// DeleteByComplaintType removes assignments scoped to typeID.
func (s *Store) DeleteByComplaintType(ctx context.Context, typeID primitive.ObjectID) (int64, error) {
	return s.deleteMany(ctx, bson.M{"complaint_type_id": typeID})
}

func (s *Store) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := s.c.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
