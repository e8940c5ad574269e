package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/campusdesk/internal/app/system/indexes"
	"github.com/dalemusser/campusdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	// SetupTestDB already ran EnsureAll once.
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("third EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := map[string][]string{
		"users":           {"uniq_users_loginidci", "idx_users_status_fullnameci_id"},
		"user_roles":      {"idx_userroles_user_created", "idx_userroles_role_user", "idx_userroles_campus", "idx_userroles_complainttype"},
		"campuses":        {"uniq_campuses_nameci"},
		"complaint_types": {"uniq_complainttypes_nameci"},
		"complaints": {
			"uniq_complaints_complaintid",
			"idx_complaints_campus_status_created",
			"idx_complaints_status_created",
			"idx_complaints_coordinator_created",
			"idx_complaints_worker_created",
			"idx_complaints_complainttype",
		},
		"login_records": {"idx_logins_user_created", "idx_logins_created"},
		"audit_events":  {"idx_audit_timestamp", "idx_audit_user_timestamp", "idx_audit_category_event_timestamp"},
	}

	for coll, names := range want {
		got := indexNames(t, ctx, db, coll)
		for _, name := range names {
			if !got[name] {
				t.Errorf("expected index %q on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesIndexWithSameKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("login_records")
	if _, err := coll.Indexes().DropOne(ctx, "idx_logins_created"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	got := indexNames(t, ctx, db, "login_records")
	if !got["idx_logins_created"] {
		t.Error("expected legacy index to be renamed to idx_logins_created")
	}
	if got["created_at_-1"] {
		t.Error("legacy index name should be gone")
	}
}

func TestEnsureAll_UniqueIndexEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []struct {
		coll string
		doc  bson.M
	}{
		{"users", bson.M{"login_id_ci": "dup@example.com"}},
		{"campuses", bson.M{"name_ci": "north"}},
		{"complaint_types", bson.M{"name_ci": "plumbing"}},
		{"complaints", bson.M{"complaint_id": "CMP-0000000001"}},
	}
	for _, tc := range cases {
		if _, err := db.Collection(tc.coll).InsertOne(ctx, tc.doc); err != nil {
			t.Fatalf("%s: first insert failed: %v", tc.coll, err)
		}
		if _, err := db.Collection(tc.coll).InsertOne(ctx, tc.doc); err == nil {
			t.Errorf("%s: expected duplicate key error", tc.coll)
		}
	}
}
