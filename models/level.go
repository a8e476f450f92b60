package models

import "time"

// LevelLadderEntry maps a level to the cumulative points required to reach it.
// Edited only through the admin surface; the engine treats the ladder as
// read-only and a level referenced by any member or team cannot be deleted.
type LevelLadderEntry struct {
	Level          int   `gorm:"primaryKey" json:"level"`
	PointsRequired int64 `json:"points_required" gorm:"not null"`

	// Optional reward payload shown on level-up
	RewardTitle       string `json:"reward_title,omitempty"`
	RewardDescription string `json:"reward_description,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
