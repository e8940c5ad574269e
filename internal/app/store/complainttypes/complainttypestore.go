package complainttypestore

import (
	"context"
	"errors"
	"time"

	userrolestore "github.com/dalemusser/campusdesk/internal/app/store/userroles"
	"github.com/dalemusser/campusdesk/internal/app/system/normalize"
	"github.com/dalemusser/campusdesk/internal/app/system/txn"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrDuplicateName = errors.New("a complaint type with this name already exists")
	ErrNotFound      = errors.New("complaint type not found")
)

type Store struct {
	db    *mongo.Database
	c     *mongo.Collection
	roles *userrolestore.Store
	log   *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{db: db, c: db.Collection("complaint_types"), roles: userrolestore.New(db), log: logger}
}

// Create inserts a complaint type. Names are unique case-insensitively.
func (s *Store) Create(ctx context.Context, name string) (models.ComplaintType, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.ComplaintType{}, errors.New("complaint type name is required")
	}
	now := time.Now().UTC()
	c := models.ComplaintType{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ComplaintType{}, ErrDuplicateName
		}
		return models.ComplaintType{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ComplaintType, error) {
	var c models.ComplaintType
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ComplaintType{}, ErrNotFound
		}
		return models.ComplaintType{}, err
	}
	return c, nil
}

// List returns every complaint type sorted by name.
func (s *Store) List(ctx context.Context) ([]models.ComplaintType, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ComplaintType
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a complaint type, its complaints and every role assignment scoped to it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.db.Collection("complaints").DeleteMany(ctx, bson.M{"complaint_type_id": id}); err != nil {
			return err
		}
		if _, err := s.roles.DeleteByComplaintType(ctx, id); err != nil {
			return err
		}
		res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}
