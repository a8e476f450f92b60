package models

import "time"

// Team holds a denormalized running point total; level semantics match Member
type Team struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`

	TotalTeamPoints int64 `json:"total_team_points" gorm:"default:0"`
	TeamLevel       int   `json:"team_level" gorm:"default:1"`

	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps

	// Relationships
	Memberships []TeamMembership `json:"memberships,omitempty" gorm:"foreignKey:TeamID"`

	// Calculated fields (not stored in DB)
	MemberCount int64 `json:"member_count,omitempty" gorm:"-"`
}

// TeamMembership is the join relation between members and teams.
// An open membership has LeftAt = NULL; the partial unique index guarantees
// a member belongs to at most one team at a time.
type TeamMembership struct {
	ID       string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TeamID   string     `json:"team_id" gorm:"not null;index"`
	MemberID string     `json:"member_id" gorm:"not null;index;index:idx_open_membership,unique,where:left_at IS NULL"`
	JoinedAt time.Time  `json:"joined_at" gorm:"autoCreateTime"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}
