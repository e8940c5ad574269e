// internal/domain/models/complaint.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint statuses, in lifecycle order.
const (
	ComplaintPending    = "pending"
	ComplaintAssigned   = "assigned"
	ComplaintInProgress = "in_progress"
	ComplaintCompleted  = "completed"
	ComplaintVerified   = "verified"
)

// ComplaintStatuses lists the statuses in lifecycle order.
var ComplaintStatuses = []string{
	ComplaintPending,
	ComplaintAssigned,
	ComplaintInProgress,
	ComplaintCompleted,
	ComplaintVerified,
}

// IsValidComplaintStatus reports whether s is a known complaint status.
func IsValidComplaintStatus(s string) bool {
	for _, v := range ComplaintStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Complaint is a facility complaint submitted against a campus.
//
// ComplaintID is the public tracking code handed to the submitter; ID is internal.
// The assignee fields are cleared (not the complaint deleted) when the
// referenced user is removed.
type Complaint struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ComplaintID     string             `bson:"complaint_id" json:"complaint_id"`
	CampusID        primitive.ObjectID `bson:"campus_id" json:"campus_id"`
	ComplaintTypeID primitive.ObjectID `bson:"complaint_type_id" json:"complaint_type_id"`
	Location        string             `bson:"location" json:"location"`
	Description     string             `bson:"description" json:"description"`
	ImagePath       *string            `bson:"image_path,omitempty" json:"image_path,omitempty"`
	Status          string             `bson:"status" json:"status"`

	AssignedCoordinatorID *primitive.ObjectID `bson:"assigned_coordinator_id" json:"assigned_coordinator_id,omitempty"`
	AssignedWorkerID      *primitive.ObjectID `bson:"assigned_worker_id" json:"assigned_worker_id,omitempty"`

	ResolutionNotes *string    `bson:"resolution_notes,omitempty" json:"resolution_notes,omitempty"`
	ResolutionImage *string    `bson:"resolution_image,omitempty" json:"resolution_image,omitempty"`
	ResolvedAt      *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	VerifiedAt      *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
