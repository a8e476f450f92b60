package models

import "time"

// Season is a top-level, time-boxed competition period
type Season struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	StartsAt    time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt      time.Time `json:"ends_at" gorm:"not null;index"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	BannerURL   string    `json:"banner_url,omitempty"`

	Timestamps

	// Relationships
	Challenges []Challenge `json:"challenges,omitempty" gorm:"foreignKey:SeasonID"`
}

// Challenge is a scoped competition inside a Season with its own window and
// points multiplier. Active iff now falls within [StartsAt, EndsAt) and the
// owning season's window.
type Challenge struct {
	ID               string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SeasonID         string    `json:"season_id" gorm:"not null;index"`
	Name             string    `json:"name" gorm:"not null"`
	Slug             string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description      string    `json:"description" gorm:"type:text"`
	StartsAt         time.Time `json:"starts_at" gorm:"not null"`
	EndsAt           time.Time `json:"ends_at" gorm:"not null"`
	IsTeamBased      bool      `json:"is_team_based" gorm:"default:false"`
	PointsMultiplier int64     `json:"points_multiplier" gorm:"default:1"` // >= 1, validated at creation
	ImageURL         string    `json:"image_url,omitempty"`

	Timestamps

	// Relationships
	Season Season `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
}
