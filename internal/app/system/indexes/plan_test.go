package indexes

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func boolPtr(b bool) *bool { return &b }

func TestPlan(t *testing.T) {
	keys := bson.D{{Key: "login_id_ci", Value: 1}}
	sig := keySig(keys)

	uniqueNamed := describe(mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName("uniq_users_loginidci")})
	unnamed := describe(mongo.IndexModel{Keys: keys})

	tests := []struct {
		name     string
		desired  desiredIndex
		existing map[string]existingIndex
		want     step
	}{
		{"missing", uniqueNamed, map[string]existingIndex{}, stepCreate},
		{"identical", uniqueNamed, map[string]existingIndex{sig: {Name: "uniq_users_loginidci", Key: keys, Unique: boolPtr(true)}}, stepReuse},
		{"other name", uniqueNamed, map[string]existingIndex{sig: {Name: "login_id_ci_1", Key: keys, Unique: boolPtr(true)}}, stepRename},
		{"not unique yet", uniqueNamed, map[string]existingIndex{sig: {Name: "uniq_users_loginidci", Key: keys}}, stepRecreate},
		{"unnamed keeps existing name", unnamed, map[string]existingIndex{sig: {Name: "login_id_ci_1", Key: keys, Unique: boolPtr(false)}}, stepReuse},
		{"different keys", uniqueNamed, map[string]existingIndex{"status:1": {Name: "status_1"}}, stepCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := plan(tt.desired, tt.existing)
			if got != tt.want {
				t.Errorf("plan() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKeySigKeepsOrder(t *testing.T) {
	got := keySig(bson.D{{Key: "campus_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}})
	if want := "campus_id:1, status:1, created_at:-1"; got != want {
		t.Errorf("keySig = %q, want %q", got, want)
	}
}

func TestDupHint(t *testing.T) {
	if got := dupHint("users", "login_id_ci:1"); got == "" {
		t.Error("single-field signature should produce a hint")
	}
	if got := dupHint("complaints", "campus_id:1, status:1"); got != "" {
		t.Errorf("compound signature should produce no hint, got %q", got)
	}
}
