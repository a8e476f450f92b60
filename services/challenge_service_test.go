package services

import (
	"testing"
	"time"

	"fit-competition-system/models"
)

func TestWindowContainsHalfOpenBounds(t *testing.T) {
	startsAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	endsAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "before window", now: startsAt.Add(-time.Second), want: false},
		{name: "active at exactly startsAt", now: startsAt, want: true},
		{name: "inside window", now: startsAt.Add(24 * time.Hour), want: true},
		{name: "last instant before endsAt", now: endsAt.Add(-time.Nanosecond), want: true},
		{name: "inactive at exactly endsAt", now: endsAt, want: false},
		{name: "after window", now: endsAt.Add(time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowContains(startsAt, endsAt, tt.now); got != tt.want {
				t.Fatalf("WindowContains(%v) = %t, want %t", tt.now, got, tt.want)
			}
		})
	}
}

func TestChallengeActiveAt(t *testing.T) {
	season := &models.Season{
		IsActive: true,
		StartsAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
	}
	challenge := &models.Challenge{
		StartsAt: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}

	inside := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	if !ChallengeActiveAt(challenge, season, inside) {
		t.Fatal("expected challenge active inside both windows")
	}

	if ChallengeActiveAt(challenge, season, challenge.EndsAt) {
		t.Fatal("expected challenge inactive at its endsAt")
	}

	deactivated := *season
	deactivated.IsActive = false
	if ChallengeActiveAt(challenge, &deactivated, inside) {
		t.Fatal("expected challenge inactive when season is deactivated")
	}

	// Challenge window open but season already over
	pastSeason := &models.Season{
		IsActive: true,
		StartsAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if ChallengeActiveAt(challenge, pastSeason, inside) {
		t.Fatal("expected challenge inactive outside its season window")
	}

	if ChallengeActiveAt(challenge, nil, inside) {
		t.Fatal("expected challenge inactive without a season")
	}
}
