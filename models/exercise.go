package models

// Exercise is a catalog entry. DifficultyRank doubles as the difficulty
// multiplier used by the points calculator.
type Exercise struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"index"` // e.g., "strength", "cardio", "mobility"

	DifficultyRank int `json:"difficulty_rank" gorm:"default:1"` // >= 1

	ImageURL string `json:"image_url,omitempty"`

	Timestamps
}
