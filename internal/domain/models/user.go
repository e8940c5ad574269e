// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is anyone who can sign in: admins, vps, directors, coordinators and workers.
//
// NOTE:
//   - Roles are not embedded on User. They live in the user_roles collection
//     (see RoleAssignment) and are reduced to one effective role at load time.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	LoginID      string             `bson:"login_id" json:"login_id"`         // email address users type to sign in
	LoginIDCI    string             `bson:"login_id_ci" json:"-"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Status       string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User statuses.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)
