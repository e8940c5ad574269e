package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/store/audit"
	"github.com/dalemusser/campusdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	event := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	}
	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestStore_Log_AccessEventKeepsRouteAndDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:      audit.CategoryAccess,
		EventType:     audit.EventAccessInsufficientRole,
		UserID:        &userID,
		Route:         "admin.dashboard",
		IP:            "10.0.0.1",
		Success:       false,
		FailureReason: "insufficient role",
		Details: map[string]string{
			"user_role":     "worker",
			"required_role": "admin",
		},
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 1)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Route != "admin.dashboard" {
		t.Errorf("route: got %q", got.Route)
	}
	if got.Details["user_role"] != "worker" || got.Details["required_role"] != "admin" {
		t.Errorf("details: got %v", got.Details)
	}
}

func TestStore_Query_ByCategoryAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, e := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLogout, Success: true},
		{Category: audit.CategoryAccess, EventType: audit.EventAccessGranted, Success: true},
		{Category: audit.CategoryAccess, EventType: audit.EventAccessUnauthenticated},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	auth, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(auth) != 2 {
		t.Errorf("auth events: got %d, want 2", len(auth))
	}

	granted, err := store.Query(ctx, audit.QueryFilter{EventTypes: []string{audit.EventAccessGranted}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(granted) != 1 {
		t.Errorf("granted events: got %d, want 1", len(granted))
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAccess, FailuresOnly: true})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("access failures: got %d, want 1", n)
	}
}

func TestStore_Query_TimeRangeAndOffset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		err := store.Log(ctx, audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			Success:   true,
		})
		if err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	start := base.Add(2 * time.Minute)
	events, err := store.Query(ctx, audit.QueryFilter{StartTime: &start})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("since start: got %d, want 3", len(events))
	}

	page, err := store.Query(ctx, audit.QueryFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page: got %d, want 2", len(page))
	}
	if !page[0].Timestamp.After(page[1].Timestamp) {
		t.Error("expected newest first")
	}
}

func TestStore_GetFailedLoginsAndAccessDenials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, e := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedUserNotFound},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedUserDisabled},
		{Category: audit.CategoryAccess, EventType: audit.EventAccessGranted, Success: true},
		{Category: audit.CategoryAccess, EventType: audit.EventAccessMisconfigured},
		{Category: audit.CategoryAccess, EventType: audit.EventAccessInsufficientRole},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	since := time.Now().Add(-time.Minute)
	failed, err := store.GetFailedLogins(ctx, since, 10)
	if err != nil {
		t.Fatalf("GetFailedLogins failed: %v", err)
	}
	if len(failed) != 3 {
		t.Errorf("failed logins: got %d, want 3", len(failed))
	}

	denials, err := store.GetAccessDenials(ctx, since, 10)
	if err != nil {
		t.Fatalf("GetAccessDenials failed: %v", err)
	}
	if len(denials) != 2 {
		t.Errorf("access denials: got %d, want 2", len(denials))
	}
}

func TestStore_GetRecent_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

func TestStore_DeleteBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	for _, ts := range []time.Time{now.Add(-48 * time.Hour), now.Add(-25 * time.Hour), now.Add(-time.Hour)} {
		if err := store.Log(ctx, audit.Event{Timestamp: ts, Category: audit.CategoryAuth, EventType: audit.EventLogout}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	n, err := store.DeleteBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	left, err := store.CountByFilter(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if left != 1 {
		t.Errorf("remaining %d, want 1", left)
	}
}
