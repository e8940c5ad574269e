// internal/app/store/complaints/complaintstore.go
package complaintstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ComplaintIDPrefix starts every public complaint reference.
const ComplaintIDPrefix = "CMP-"

var (
	ErrNotFound  = errors.New("complaint not found")
	ErrBadStatus = errors.New("unknown complaint status")

	errMissingRefs = errors.New("complaint needs a campus and a complaint type")
	errMissingText = errors.New("complaint needs a location and a description")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("complaints")}
}

// NewComplaintID returns a fresh public reference such as CMP-3F2A9C01BE.
func NewComplaintID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ComplaintIDPrefix + strings.ToUpper(hex[:10])
}

// Create inserts a pending complaint with a new public complaint ID.
// Collisions on the public ID are retried a few times.
func (s *Store) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	if c.CampusID.IsZero() || c.ComplaintTypeID.IsZero() {
		return models.Complaint{}, errMissingRefs
	}
	c.Location = strings.TrimSpace(c.Location)
	c.Description = strings.TrimSpace(c.Description)
	if c.Location == "" || c.Description == "" {
		return models.Complaint{}, errMissingText
	}

	now := time.Now().UTC()
	c.Status = models.ComplaintPending
	c.CreatedAt = now
	c.UpdatedAt = now

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		c.ID = primitive.NewObjectID()
		c.ComplaintID = NewComplaintID()
		if _, err = s.c.InsertOne(ctx, c); err == nil {
			return c, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Complaint{}, err
		}
	}
	return models.Complaint{}, err
}

// GetByComplaintID looks a complaint up by its public reference.
func (s *Store) GetByComplaintID(ctx context.Context, complaintID string) (models.Complaint, error) {
	var c models.Complaint
	err := s.c.FindOne(ctx, bson.M{"complaint_id": normalize.ComplaintID(complaintID)}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Complaint{}, ErrNotFound
		}
		return models.Complaint{}, err
	}
	return c, nil
}

// StatusUpdate is a status change with optional resolution notes.
type StatusUpdate struct {
	Status          string
	ResolutionNotes string
}

// UpdateStatus sets a complaint's status and returns the previous one.
// Moving to completed stamps resolved_at; moving to verified stamps
// verified_at. Which transitions are allowed is not decided here.
func (s *Store) UpdateStatus(ctx context.Context, complaintID string, upd StatusUpdate) (string, error) {
	status := normalize.Status(upd.Status)
	if !models.IsValidComplaintStatus(status) {
		return "", ErrBadStatus
	}

	now := time.Now().UTC()
	set := bson.M{"status": status, "updated_at": now}
	switch status {
	case models.ComplaintCompleted:
		set["resolved_at"] = now
	case models.ComplaintVerified:
		set["verified_at"] = now
	}
	if notes := strings.TrimSpace(upd.ResolutionNotes); notes != "" {
		set["resolution_notes"] = notes
	}

	var before models.Complaint
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"complaint_id": normalize.ComplaintID(complaintID)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.Before).
			SetProjection(bson.M{"status": 1}),
	).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	return before.Status, nil
}

// Assign sets (or clears, with nil) the coordinator and worker on a complaint.
func (s *Store) Assign(ctx context.Context, complaintID string, coordinatorID, workerID *primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"complaint_id": normalize.ComplaintID(complaintID)},
		bson.M{"$set": bson.M{
			"assigned_coordinator_id": coordinatorID,
			"assigned_worker_id":      workerID,
			"updated_at":              time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns complaint counts keyed by status. A nil campusID
// counts across every campus. Statuses with no complaints are present as 0.
func (s *Store) CountByStatus(ctx context.Context, campusID *primitive.ObjectID) (map[string]int64, error) {
	match := bson.M{}
	if campusID != nil {
		match["campus_id"] = *campusID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int64, len(models.ComplaintStatuses))
	for _, st := range models.ComplaintStatuses {
		out[st] = 0
	}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.N
	}
	return out, cur.Err()
}

// ListAssignedToCoordinator returns open complaints assigned to userID as coordinator.
func (s *Store) ListAssignedToCoordinator(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Complaint, error) {
	return s.listOpen(ctx, bson.M{"assigned_coordinator_id": userID}, limit)
}

// ListAssignedToWorker returns open complaints assigned to userID as worker.
func (s *Store) ListAssignedToWorker(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Complaint, error) {
	return s.listOpen(ctx, bson.M{"assigned_worker_id": userID}, limit)
}

// ListRecent returns the newest complaints, optionally for one campus.
func (s *Store) ListRecent(ctx context.Context, campusID *primitive.ObjectID, limit int64) ([]models.Complaint, error) {
	filter := bson.M{}
	if campusID != nil {
		filter["campus_id"] = *campusID
	}
	return s.find(ctx, filter, limit)
}

func (s *Store) listOpen(ctx context.Context, filter bson.M, limit int64) ([]models.Complaint, error) {
	filter["status"] = bson.M{"$nin": []string{models.ComplaintCompleted, models.ComplaintVerified}}
	return s.find(ctx, filter, limit)
}

func (s *Store) find(ctx context.Context, filter bson.M, limit int64) ([]models.Complaint, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Complaint
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
