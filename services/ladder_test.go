package services

import (
	"errors"
	"testing"

	"fit-competition-system/models"
)

func testLadder() []models.LevelLadderEntry {
	return []models.LevelLadderEntry{
		{Level: 1, PointsRequired: 0},
		{Level: 2, PointsRequired: 100},
		{Level: 3, PointsRequired: 250},
		{Level: 4, PointsRequired: 500},
	}
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  int
	}{
		{name: "zero points", total: 0, want: 1},
		{name: "just below level 2", total: 99, want: 1},
		{name: "exactly level 2", total: 100, want: 2},
		{name: "between levels", total: 249, want: 2},
		{name: "top of ladder", total: 500, want: 4},
		{name: "beyond top", total: 99999, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelForPoints(testLadder(), tt.total); got != tt.want {
				t.Fatalf("LevelForPoints(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestNextLevelRequirement(t *testing.T) {
	req, ok := NextLevelRequirement(testLadder(), 1)
	if !ok || req != 100 {
		t.Fatalf("expected (100, true) for level 1, got (%d, %t)", req, ok)
	}

	if _, ok := NextLevelRequirement(testLadder(), 4); ok {
		t.Fatal("expected no requirement past the top of the ladder")
	}
}

func TestAdvanceLevelSingleStep(t *testing.T) {
	level, leveledUp := AdvanceLevel(testLadder(), 1, 110)
	if !leveledUp || level != 2 {
		t.Fatalf("expected level 2 with level-up, got level %d (leveledUp=%t)", level, leveledUp)
	}
}

func TestAdvanceLevelCascadesThroughMultipleLevels(t *testing.T) {
	// One large award pays for levels 2, 3 and 4 at once
	level, leveledUp := AdvanceLevel(testLadder(), 1, 600)
	if !leveledUp || level != 4 {
		t.Fatalf("expected cascade to level 4, got level %d (leveledUp=%t)", level, leveledUp)
	}
}

func TestAdvanceLevelNoQualifyingEntry(t *testing.T) {
	level, leveledUp := AdvanceLevel(testLadder(), 2, 150)
	if leveledUp || level != 2 {
		t.Fatalf("expected no transition at 150 points, got level %d (leveledUp=%t)", level, leveledUp)
	}
}

func TestAdvanceLevelLadderExhausted(t *testing.T) {
	// Staying at the maximum level indefinitely is not an error
	level, leveledUp := AdvanceLevel(testLadder(), 4, 1_000_000)
	if leveledUp || level != 4 {
		t.Fatalf("expected to stay at max level 4, got level %d (leveledUp=%t)", level, leveledUp)
	}
}

func TestAdvanceLevelAgreesWithLevelForPoints(t *testing.T) {
	// On a contiguous ladder the incremental walk and the direct lookup must
	// always land on the same level
	for _, total := range []int64{0, 99, 100, 250, 499, 500, 1_000} {
		walked, _ := AdvanceLevel(testLadder(), 1, total)
		if want := LevelForPoints(testLadder(), total); walked != want {
			t.Fatalf("walk stopped at level %d for %d points, ladder says %d", walked, total, want)
		}
	}
}

func TestValidateEntryPlacement(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.LevelLadderEntry
		entry   models.LevelLadderEntry
		wantErr bool
	}{
		{
			name:    "append next level",
			entries: testLadder(),
			entry:   models.LevelLadderEntry{Level: 5, PointsRequired: 800},
			wantErr: false,
		},
		{
			name:    "edit existing level",
			entries: testLadder(),
			entry:   models.LevelLadderEntry{Level: 3, PointsRequired: 300},
			wantErr: false,
		},
		{
			name:    "first level of an empty ladder",
			entries: nil,
			entry:   models.LevelLadderEntry{Level: 1, PointsRequired: 0},
			wantErr: false,
		},
		{
			// A missing level 5 would stop the walk at 4 even for totals
			// that cover level 6
			name:    "gap above the top",
			entries: testLadder(),
			entry:   models.LevelLadderEntry{Level: 6, PointsRequired: 900},
			wantErr: true,
		},
		{
			name:    "gap on an empty ladder",
			entries: nil,
			entry:   models.LevelLadderEntry{Level: 2, PointsRequired: 100},
			wantErr: true,
		},
		{
			name:    "level below 1",
			entries: testLadder(),
			entry:   models.LevelLadderEntry{Level: 0, PointsRequired: 0},
			wantErr: true,
		},
		{
			name:    "requirement not above the previous level",
			entries: testLadder(),
			entry:   models.LevelLadderEntry{Level: 5, PointsRequired: 500},
			wantErr: true,
		},
		{
			name:    "edit breaks ordering with the next level",
			entries: testLadder(),
			entry:   models.LevelLadderEntry{Level: 2, PointsRequired: 260},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEntryPlacement(tt.entries, &tt.entry)
			if tt.wantErr && !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateEntryRemoval(t *testing.T) {
	if err := validateEntryRemoval(testLadder(), 4); err != nil {
		t.Fatalf("removing the top level must be allowed: %v", err)
	}
	if err := validateEntryRemoval(testLadder(), 3); !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("removing an interior level must be blocked, got %v", err)
	}
	if err := validateEntryRemoval(testLadder(), 1); !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("removing the ladder floor must be blocked, got %v", err)
	}
	if err := validateEntryRemoval(testLadder(), 9); !errors.Is(err, ErrLevelNotFound) {
		t.Fatalf("expected ErrLevelNotFound for a missing level, got %v", err)
	}
}
