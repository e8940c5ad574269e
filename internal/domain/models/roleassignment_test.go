package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEffectiveAssignment_Empty(t *testing.T) {
	if _, ok := EffectiveAssignment(nil); ok {
		t.Fatal("expected ok=false for no assignments")
	}
}

func TestEffectiveAssignment_MostRecentWins(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := RoleAssignment{ID: primitive.NewObjectID(), Role: RoleWorker, CreatedAt: base}
	newer := RoleAssignment{ID: primitive.NewObjectID(), Role: RoleCoordinator, CreatedAt: base.Add(time.Hour)}

	for _, in := range [][]RoleAssignment{{older, newer}, {newer, older}} {
		got, ok := EffectiveAssignment(in)
		if !ok {
			t.Fatal("expected ok=true")
		}
		if got.Role != RoleCoordinator {
			t.Errorf("role: got %q, want %q", got.Role, RoleCoordinator)
		}
	}
}

func TestEffectiveAssignment_TieBrokenByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lo, _ := primitive.ObjectIDFromHex("000000000000000000000001")
	hi, _ := primitive.ObjectIDFromHex("000000000000000000000002")
	a := RoleAssignment{ID: lo, Role: RoleVP, CreatedAt: at}
	b := RoleAssignment{ID: hi, Role: RoleDirector, CreatedAt: at}

	for _, in := range [][]RoleAssignment{{a, b}, {b, a}} {
		got, _ := EffectiveAssignment(in)
		if got.Role != RoleDirector {
			t.Errorf("role: got %q, want %q", got.Role, RoleDirector)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range Roles {
		if !IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = false", r)
		}
	}
	for _, r := range []string{"", "Admin", "superadmin", "member"} {
		if IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = true", r)
		}
	}
}
