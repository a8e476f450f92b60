package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	original := cursor{
		Points:    420,
		FirstAt:   time.Date(2026, 8, 1, 9, 30, 0, 123456789, time.UTC),
		SubjectID: "ext-user-7",
		Rank:      25,
	}

	decoded, err := decodeCursor(encodeCursor(original))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Points != original.Points || decoded.SubjectID != original.SubjectID || decoded.Rank != original.Rank {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
	if !decoded.FirstAt.Equal(original.FirstAt) {
		t.Fatalf("timestamp round trip mismatch: got %v, want %v", decoded.FirstAt, original.FirstAt)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		enc  string
	}{
		{name: "not base64", enc: "!!!not-base64!!!"},
		{name: "too few fields", enc: encodeOpaque("100|12345")},
		{name: "non-numeric points", enc: encodeOpaque("abc|12345|id|1")},
		{name: "non-numeric rank", enc: encodeOpaque("100|12345|id|x")},
		{name: "negative rank", enc: encodeOpaque("100|12345|id|-3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeCursor(tt.enc); err == nil {
				t.Fatalf("expected decode error for %q", tt.enc)
			}
		})
	}
}

func encodeOpaque(raw string) string {
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func sampleRows(n int) []leaderboardRow {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]leaderboardRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, leaderboardRow{
			SubjectID: fmt.Sprintf("subject-%02d", i),
			Name:      fmt.Sprintf("Athlete %d", i),
			Points:    int64(1000 - i*10),
			FirstAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	return rows
}

func TestPageFromRowsFirstPage(t *testing.T) {
	page := pageFromRows(sampleRows(11), 10, 0)

	if len(page.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(page.Items))
	}
	for i, item := range page.Items {
		if item.Rank != i+1 {
			t.Fatalf("item %d rank = %d, want %d", i, item.Rank, i+1)
		}
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor when an eleventh row exists")
	}

	c, err := decodeCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("decode next cursor: %v", err)
	}
	if c.Rank != 10 || c.SubjectID != "subject-09" {
		t.Fatalf("cursor = %+v, want rank 10 at subject-09", c)
	}
}

func TestPageFromRowsRanksContinueAcrossPages(t *testing.T) {
	page := pageFromRows(sampleRows(5), 10, 10)

	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(page.Items))
	}
	if page.Items[0].Rank != 11 || page.Items[4].Rank != 15 {
		t.Fatalf("ranks = %d..%d, want 11..15", page.Items[0].Rank, page.Items[4].Rank)
	}
	if page.NextCursor != "" {
		t.Fatal("no next cursor expected on a short final page")
	}
}

func TestPageFromRowsExactLimitIsLastPage(t *testing.T) {
	// Exactly limit rows means the query found no limit+1'th row
	page := pageFromRows(sampleRows(10), 10, 0)
	if len(page.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(page.Items))
	}
	if page.NextCursor != "" {
		t.Fatal("no next cursor expected when no overflow row exists")
	}
}

func TestPageFromRowsEmpty(t *testing.T) {
	page := pageFromRows(nil, 10, 0)
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", page.Items)
	}
	if page.NextCursor != "" {
		t.Fatal("no cursor expected for an empty page")
	}
}

func TestGetLeaderboardMalformedCursorMapsToInvalidRange(t *testing.T) {
	svc := &LeaderboardService{}
	_, err := svc.GetLeaderboard(LeaderboardScope{SeasonID: "s-1"}, 10, "%%%")
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
