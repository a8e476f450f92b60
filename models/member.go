package models

import (
	"time"

	"gorm.io/gorm"
)

// Member mirrors a profile from the identity provider plus the denormalized
// progression totals the engine maintains (denormalized for performance)
type Member struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to identity provider
	DisplayName    string `json:"display_name"`
	AvatarURL      *string `json:"avatar_url,omitempty"` // denormalized from profile service

	// Core progression
	TotalPoints   int64 `json:"total_points" gorm:"default:0"`   // lifetime, never decreases
	CurrentPoints int64 `json:"current_points" gorm:"default:0"` // accrued since profile creation, engine never resets
	TeamPoints    int64 `json:"team_points" gorm:"default:0"`    // contribution to the member's current team
	Level         int   `json:"level" gorm:"default:1"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	// ProfileSyncedAt is the identity provider's timestamp of the last
	// mirrored profile change. Written only by the sync worker — updated_at
	// moves on every point award, so it cannot serve as the sync watermark.
	ProfileSyncedAt *time.Time `json:"-" gorm:"index"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
