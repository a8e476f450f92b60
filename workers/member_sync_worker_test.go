package workers

import (
	"testing"
	"time"
)

func TestProfileToMemberMirrorsIdentityOnly(t *testing.T) {
	avatar := "https://cdn.example.com/a.png"
	updated := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)

	member := profileToMember(ProfileFromProvider{
		ExternalID:  "ext-42",
		DisplayName: "Jordan",
		AvatarURL:   &avatar,
		UpdatedAt:   updated,
	})

	if member.ExternalUserID != "ext-42" || member.DisplayName != "Jordan" {
		t.Fatalf("identity columns not mirrored: %+v", member)
	}
	if member.AvatarURL == nil || *member.AvatarURL != avatar {
		t.Fatal("avatar URL not mirrored")
	}
	if member.ProfileSyncedAt == nil || !member.ProfileSyncedAt.Equal(updated) {
		t.Fatalf("watermark must carry the provider's timestamp, got %v", member.ProfileSyncedAt)
	}
	if member.Level != 1 || member.TotalPoints != 0 || member.CurrentPoints != 0 || member.TeamPoints != 0 {
		t.Fatalf("progression columns must start at defaults: %+v", member)
	}
}

func TestProfileUpsertNeverTouchesEngineColumns(t *testing.T) {
	// A re-sync may only overwrite identity columns plus its own watermark.
	// updated_at stays out: the engine advances it on every point award.
	allowed := map[string]bool{}
	for _, col := range profileUpsertColumns {
		allowed[col] = true
	}

	if !allowed["profile_synced_at"] {
		t.Fatal("upsert must advance the profile_synced_at watermark")
	}

	for _, forbidden := range []string{
		"total_points", "current_points", "team_points", "level",
		"last_level_up_at", "updated_at",
	} {
		if allowed[forbidden] {
			t.Fatalf("upsert must not overwrite %s", forbidden)
		}
	}
}
