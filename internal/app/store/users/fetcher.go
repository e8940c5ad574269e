package userstore

import (
	"context"

	userrolestore "github.com/dalemusser/campusdesk/internal/app/store/userroles"
	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
// It reads the user and asks the role store for their effective assignment.
type Fetcher struct {
	users *mongo.Collection
	roles *userrolestore.Store
	log   *zap.Logger
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		users: db.Collection("users"),
		roles: userrolestore.New(db),
		log:   logger,
	}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found,
// disabled, or if any error occurs. This implements auth.UserFetcher.
//
// A failed role lookup also yields nil: the request continues as anonymous
// and is never served as a user without a role.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"full_name": 1,
		"login_id":  1,
		"status":    1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}
	if normalize.Status(u.Status) == models.UserDisabled {
		return nil
	}

	a, ok, err := f.roles.Effective(ctx, oid)
	if err != nil {
		if f.log != nil {
			f.log.Error("role lookup failed; treating request as anonymous",
				zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}

	su := &auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.LoginID,
	}
	if ok {
		su.Role = a.Role
		if a.CampusID != nil {
			su.CampusID = a.CampusID.Hex()
		}
		if a.ComplaintTypeID != nil {
			su.ComplaintTypeID = a.ComplaintTypeID.Hex()
		}
	}
	return su
}
