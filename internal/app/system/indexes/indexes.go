// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionSet pairs a collection with the function that reconciles its indexes.
type collectionSet struct {
	name   string
	ensure func(context.Context, *mongo.Database, *zap.Logger) error
}

var sets = []collectionSet{
	{"users", ensureUsers},
	{"user_roles", ensureUserRoles},
	{"campuses", ensureCampuses},
	{"complaint_types", ensureComplaintTypes},
	{"complaints", ensureComplaints},
	// dashboards read recent activity from login_records and audit_events
	{"login_records", ensureLoginRecords},
	{"audit_events", ensureAuditEvents},
}

// EnsureAll is called at startup. Every collection set is reconciled even
// when an earlier one fails; all problems are reported together so startup
// can fail fast with the full picture.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, s := range sets {
		if err := s.ensure(ctx, db, logger); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconciling desired indexes against what a collection already has          */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

// step is what reconciliation does for one desired index.
type step int

const (
	stepCreate   step = iota // no index with these keys
	stepReuse                // same keys, options and name
	stepRename               // same keys and options, different name
	stepRecreate             // same keys, different uniqueness
)

func (s step) String() string {
	return [...]string{"create", "reuse", "rename", "recreate"}[s]
}

type desiredIndex struct {
	model  mongo.IndexModel
	name   string
	unique bool
	sig    string
}

func describe(m mongo.IndexModel) desiredIndex {
	d := desiredIndex{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = m.Options.Unique != nil && *m.Options.Unique
	}
	return d
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// plan picks the step for d given the collection's indexes keyed by signature.
// An unnamed desired index never forces a rename.
func plan(d desiredIndex, existing map[string]existingIndex) (step, existingIndex) {
	ex, ok := existing[d.sig]
	if !ok {
		return stepCreate, existingIndex{}
	}
	exUnique := ex.Unique != nil && *ex.Unique
	switch {
	case exUnique != d.unique:
		return stepRecreate, ex
	case d.name != "" && ex.Name != d.name:
		return stepRename, ex
	default:
		return stepReuse, ex
	}
}

func listIndexes(ctx context.Context, coll *mongo.Collection, logger *zap.Logger) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]existingIndex)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			logger.Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB return IndexOptionsConflict when an index with the same keys
// already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// dupHint points an operator at the aggregation that finds the duplicates
// blocking a unique index.
func dupHint(coll, sig string) string {
	field := strings.SplitN(sig, ":", 2)[0]
	if field == "" || strings.Contains(sig, ",") {
		return ""
	}
	return fmt.Sprintf(". Duplicates exist on %s.%s. Example finder:\n"+
		`db.%s.aggregate([{ $group: { _id: "$%s", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
		coll, field, coll, field)
}

// ensureIndexSet reconciles one collection. Each desired index is handled
// independently; failures are collected and returned together.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, logger *zap.Logger, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll, logger)
	if err != nil {
		// A missing collection lists no indexes; creation will make it.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		d := describe(m)
		if err := applyIndex(ctx, coll, logger, d, existing, true); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// applyIndex carries out the planned step for d. On an options conflict the
// collection is re-listed and the step re-planned once.
func applyIndex(ctx context.Context, coll *mongo.Collection, logger *zap.Logger, d desiredIndex, existing map[string]existingIndex, retry bool) error {
	start := time.Now()
	act, ex := plan(d, existing)
	fields := []zap.Field{
		zap.String("collection", coll.Name()),
		zap.String("name", d.name),
		zap.String("keys", d.sig),
		zap.Bool("unique", d.unique),
		zap.Stringer("step", act),
	}

	if act == stepReuse {
		logger.Debug("index up to date", fields...)
		return nil
	}
	if act == stepRename || act == stepRecreate {
		if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
			logger.Warn("drop existing index failed", append(fields, zap.String("existing", ex.Name), zap.Error(err))...)
			return fmt.Errorf("%s(%s): %s drop failed: %w", coll.Name(), d.name, act, err)
		}
	}

	if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
		if retry && act == stepCreate && isOptionsConflictErr(err) {
			if fresh, lerr := listIndexes(ctx, coll, logger); lerr == nil {
				return applyIndex(ctx, coll, logger, d, fresh, false)
			}
		}
		logger.Warn("index ensure failed", append(fields, zap.Error(err))...)
		if d.unique && isDuplicateKeyErr(err) {
			return fmt.Errorf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), d.name, dupHint(coll.Name(), d.sig))
		}
		return fmt.Errorf("%s(%s): %w", coll.Name(), d.name, err)
	}

	logger.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		// Login IDs are unique after case/diacritic folding.
		{
			Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_loginidci"),
		},
		// Staff lists sorted by name within a status.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_status_fullnameci_id"),
		},
	})
}

// The session fetcher reads every assignment for a user and picks the newest,
// so {user_id, created_at} serves it directly.
func ensureUserRoles(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("user_roles")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_userroles_user_created"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_userroles_role_user"),
		},
		{
			Keys:    bson.D{{Key: "campus_id", Value: 1}},
			Options: options.Index().SetName("idx_userroles_campus"),
		},
		{
			Keys:    bson.D{{Key: "complaint_type_id", Value: 1}},
			Options: options.Index().SetName("idx_userroles_complainttype"),
		},
	})
}

func ensureCampuses(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("campuses")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_campuses_nameci"),
		},
	})
}

func ensureComplaintTypes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("complaint_types")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_complainttypes_nameci"),
		},
	})
}

func ensureComplaints(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("complaints")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		// Public tracking code.
		{
			Keys:    bson.D{{Key: "complaint_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_complaints_complaintid"),
		},
		// Per-campus status counts and recent lists.
		{
			Keys:    bson.D{{Key: "campus_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_complaints_campus_status_created"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_complaints_status_created"),
		},
		// Coordinator and worker queues.
		{
			Keys:    bson.D{{Key: "assigned_coordinator_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_complaints_coordinator_created"),
		},
		{
			Keys:    bson.D{{Key: "assigned_worker_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_complaints_worker_created"),
		},
		{
			Keys:    bson.D{{Key: "complaint_type_id", Value: 1}},
			Options: options.Index().SetName("idx_complaints_complainttype"),
		},
	})
}

// Helpful for dashboards that show recent activity / login lists.
func ensureLoginRecords(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("login_records")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		// Per-user recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_user_created"),
		},
		// Site-wide recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_created"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		// Access-denial and failed-login panels filter on category + event type.
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_event_timestamp"),
		},
	})
}
