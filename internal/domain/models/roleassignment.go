// internal/domain/models/roleassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Staff roles. A user holds zero or more of these through RoleAssignment records.
const (
	RoleAdmin               = "admin"
	RoleVP                  = "vp"
	RoleDirector            = "director"
	RoleCleaningCoordinator = "cleaning_coordinator"
	RoleGeneralCoordinator  = "general_coordinator"
	RoleCoordinator         = "coordinator"
	RoleWorker              = "worker"
)

// Roles lists every assignable role in declaration order.
var Roles = []string{
	RoleAdmin,
	RoleVP,
	RoleDirector,
	RoleCleaningCoordinator,
	RoleGeneralCoordinator,
	RoleCoordinator,
	RoleWorker,
}

// IsValidRole reports whether role is one of the seven assignable roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleAssignment links a user to one role, optionally scoped to a campus
// and/or a complaint type.
type RoleAssignment struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Role            string              `bson:"role" json:"role"`
	CampusID        *primitive.ObjectID `bson:"campus_id,omitempty" json:"campus_id,omitempty"`
	ComplaintTypeID *primitive.ObjectID `bson:"complaint_type_id,omitempty" json:"complaint_type_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EffectiveAssignment picks the assignment that decides a user's role for
// authorization: the most recently assigned one. Equal CreatedAt values fall
// back to the greater ObjectID, which is itself creation-ordered. The input
// order never matters. ok is false when there are no assignments.
func EffectiveAssignment(assignments []RoleAssignment) (RoleAssignment, bool) {
	if len(assignments) == 0 {
		return RoleAssignment{}, false
	}
	best := assignments[0]
	for _, a := range assignments[1:] {
		switch {
		case a.CreatedAt.After(best.CreatedAt):
			best = a
		case a.CreatedAt.Equal(best.CreatedAt) && a.ID.Hex() > best.ID.Hex():
			best = a
		}
	}
	return best, true
}
