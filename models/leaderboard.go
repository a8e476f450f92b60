package models

import "time"

// LeaderboardSnapshot is a derived, disposable ranked row for one subject in
// one scope — rebuilt by the snapshot scheduler, never a system of record.
type LeaderboardSnapshot struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	ScopeType string `json:"scope_type" gorm:"not null;index:idx_snapshot_scope,unique"` // "season" | "challenge"
	ScopeID   string `json:"scope_id" gorm:"not null;index:idx_snapshot_scope,unique"`

	SubjectType string `json:"subject_type" gorm:"not null;index:idx_snapshot_scope,unique"` // "member" | "team"
	SubjectID   string `json:"subject_id" gorm:"not null;index:idx_snapshot_scope,unique"`
	SubjectName string `json:"subject_name"`

	Points          int64     `json:"points"`
	Rank            int       `json:"rank"`
	FirstActivityAt time.Time `json:"first_activity_at"` // tie-break key

	ComputedAt time.Time `json:"computed_at" gorm:"index"`
}
