package userrolestore_test

import (
	"errors"
	"testing"
	"time"

	userrolestore "github.com/dalemusser/campusdesk/internal/app/store/userroles"
	"github.com/dalemusser/campusdesk/internal/domain/models"
	"github.com/dalemusser/campusdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Assign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userrolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	a, err := store.Assign(ctx, models.RoleAssignment{UserID: userID, Role: " Coordinator "})
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if a.ID.IsZero() || a.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}
	if a.Role != models.RoleCoordinator {
		t.Errorf("role: got %q", a.Role)
	}
}

func TestStore_Assign_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userrolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Assign(ctx, models.RoleAssignment{UserID: primitive.NewObjectID(), Role: "superadmin"})
	if !errors.Is(err, userrolestore.ErrBadRole) {
		t.Errorf("expected ErrBadRole, got %v", err)
	}
	if _, err := store.Assign(ctx, models.RoleAssignment{Role: models.RoleAdmin}); err == nil {
		t.Error("expected error for missing user_id")
	}
}

func TestStore_EffectiveAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userrolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if _, ok, err := store.Effective(ctx, userID); err != nil || ok {
		t.Fatalf("no assignments: ok=%v err=%v", ok, err)
	}

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	// inserted newest first so insertion order cannot decide
	if _, err := store.Assign(ctx, models.RoleAssignment{UserID: userID, Role: models.RoleDirector, CreatedAt: base.Add(time.Minute)}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := store.Assign(ctx, models.RoleAssignment{UserID: userID, Role: models.RoleWorker, CreatedAt: base}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	all, err := store.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 2 || all[0].Role != models.RoleWorker {
		t.Errorf("list order: %+v", all)
	}

	eff, ok, err := store.Effective(ctx, userID)
	if err != nil || !ok {
		t.Fatalf("Effective: ok=%v err=%v", ok, err)
	}
	if eff.Role != models.RoleDirector {
		t.Errorf("effective role: got %q, want director", eff.Role)
	}
}

func TestStore_UserIDsWithRoleAndDeletes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userrolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	campus := primitive.NewObjectID()
	ctype := primitive.NewObjectID()
	u1, u2, u3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	for _, a := range []models.RoleAssignment{
		{UserID: u1, Role: models.RoleWorker, CampusID: &campus},
		{UserID: u2, Role: models.RoleWorker, ComplaintTypeID: &ctype},
		{UserID: u3, Role: models.RoleAdmin},
	} {
		if _, err := store.Assign(ctx, a); err != nil {
			t.Fatalf("Assign: %v", err)
		}
	}

	workers, err := store.UserIDsWithRole(ctx, models.RoleWorker)
	if err != nil || len(workers) != 2 {
		t.Errorf("workers: %v (%v)", workers, err)
	}

	if n, err := store.DeleteByCampus(ctx, campus); err != nil || n != 1 {
		t.Errorf("DeleteByCampus: n=%d err=%v", n, err)
	}
	if n, err := store.DeleteByComplaintType(ctx, ctype); err != nil || n != 1 {
		t.Errorf("DeleteByComplaintType: n=%d err=%v", n, err)
	}
	if n, err := store.DeleteByUser(ctx, u3); err != nil || n != 1 {
		t.Errorf("DeleteByUser: n=%d err=%v", n, err)
	}
}
