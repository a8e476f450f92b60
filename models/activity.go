package models

import "time"

// ActivityLog is the append-only record of one logged activity and the sole
// source of point deltas. Rows are never updated or deleted by the engine;
// multipliers are snapshotted at log time so later catalog or challenge edits
// cannot change history.
type ActivityLog struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	MemberID    string  `json:"member_id" gorm:"not null;index"`
	ExerciseID  string  `json:"exercise_id" gorm:"not null;index"`
	ChallengeID *string `json:"challenge_id,omitempty" gorm:"index"`
	SeasonID    *string `json:"season_id,omitempty" gorm:"index"` // denormalized scope for season leaderboards
	TeamID      *string `json:"team_id,omitempty" gorm:"index"`   // team credited at log time, if any

	// Raw measurements — exercise-type dependent, stored for display and
	// analytics only, never part of the scoring formula
	Quantity     *int     `json:"quantity,omitempty"`
	Sets         *int     `json:"sets,omitempty"`
	WeightKg     *float64 `json:"weight_kg,omitempty"`
	DurationSecs *int     `json:"duration_secs,omitempty"`
	Calories     *int     `json:"calories,omitempty"`

	// Snapshotted scoring inputs + result
	DifficultyMultiplier int   `json:"difficulty_multiplier" gorm:"not null"`
	ChallengeMultiplier  int64 `json:"challenge_multiplier" gorm:"not null;default:1"`
	Points               int64 `json:"points" gorm:"not null"`

	// Optional client-supplied idempotency key; duplicate retries fail the
	// insert instead of double-awarding points
	SubmissionKey *string `json:"submission_key,omitempty" gorm:"uniqueIndex"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	// Relationships
	Exercise Exercise `json:"exercise,omitempty" gorm:"foreignKey:ExerciseID"`
}
