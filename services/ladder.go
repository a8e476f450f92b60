package services

import (
	"fmt"
	"math"

	"fit-competition-system/models"

	"gorm.io/gorm"
)

// Seed curve for an empty ladder: points to *reach* level n.
// L_1 = 0, L_n = floor(100 * (n-1)^1.2) cumulative steps.
const seedBasePointsPerLevel = 100
const seedLadderDepth = 20

type LadderService struct {
	DB *gorm.DB
}

func NewLadderService(db *gorm.DB) *LadderService {
	return &LadderService{DB: db}
}

// Entries returns the full ladder ordered by level ascending.
func (s *LadderService) Entries() ([]models.LevelLadderEntry, error) {
	var entries []models.LevelLadderEntry
	if err := s.DB.Order("level ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SeedDefaults inserts the default ladder if no entries exist (idempotent).
func (s *LadderService) SeedDefaults() error {
	var count int64
	if err := s.DB.Model(&models.LevelLadderEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	entries := make([]models.LevelLadderEntry, 0, seedLadderDepth)
	var cumulative int64
	for level := 1; level <= seedLadderDepth; level++ {
		if level > 1 {
			cumulative += int64(float64(seedBasePointsPerLevel) * math.Pow(float64(level-1), 1.2))
		}
		entries = append(entries, models.LevelLadderEntry{
			Level:          level,
			PointsRequired: cumulative,
		})
	}
	return s.DB.Create(&entries).Error
}

// CreateEntry appends the next level or edits an existing one. Levels stay
// contiguous and PointsRequired strictly increasing — the level walk reads a
// missing level+1 as the top of the ladder, so a gap would strand members
// below levels their totals cover.
func (s *LadderService) CreateEntry(entry *models.LevelLadderEntry) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	if err := validateEntryPlacement(entries, entry); err != nil {
		return err
	}
	return s.DB.Save(entry).Error
}

func validateEntryPlacement(entries []models.LevelLadderEntry, entry *models.LevelLadderEntry) error {
	if entry.Level < 1 {
		return fmt.Errorf("level must be >= 1: %w", ErrInvalidRange)
	}

	top := 0
	exists := false
	for _, e := range entries {
		if e.Level > top {
			top = e.Level
		}
		if e.Level == entry.Level {
			exists = true
		}
	}
	if !exists && entry.Level != top+1 {
		return fmt.Errorf("level %d would gap the ladder (top is %d): %w",
			entry.Level, top, ErrInvalidRange)
	}

	for _, e := range entries {
		if e.Level < entry.Level && e.PointsRequired >= entry.PointsRequired {
			return fmt.Errorf("level %d requires %d points, below level %d: %w",
				entry.Level, entry.PointsRequired, e.Level, ErrInvalidRange)
		}
		if e.Level > entry.Level && e.PointsRequired <= entry.PointsRequired {
			return fmt.Errorf("level %d requires %d points, above level %d: %w",
				entry.Level, entry.PointsRequired, e.Level, ErrInvalidRange)
		}
	}
	return nil
}

// DeleteEntry removes the top ladder level. Interior levels cannot go — the
// ladder must stay contiguous for the level walk — and a level any member or
// team currently holds stays.
func (s *LadderService) DeleteEntry(level int) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	if err := validateEntryRemoval(entries, level); err != nil {
		return err
	}

	var members int64
	if err := s.DB.Model(&models.Member{}).Where("level >= ?", level).Count(&members).Error; err != nil {
		return err
	}
	var teams int64
	if err := s.DB.Model(&models.Team{}).Where("team_level >= ?", level).Count(&teams).Error; err != nil {
		return err
	}
	if members > 0 || teams > 0 {
		return fmt.Errorf("level %d is held by %d members and %d teams: %w",
			level, members, teams, ErrConstraintViolation)
	}

	return s.DB.Delete(&models.LevelLadderEntry{}, "level = ?", level).Error
}

func validateEntryRemoval(entries []models.LevelLadderEntry, level int) error {
	if level == 1 {
		return fmt.Errorf("level 1 is the ladder floor: %w", ErrConstraintViolation)
	}

	top := 0
	exists := false
	for _, e := range entries {
		if e.Level > top {
			top = e.Level
		}
		if e.Level == level {
			exists = true
		}
	}
	if !exists {
		return ErrLevelNotFound
	}
	if level != top {
		return fmt.Errorf("level %d is not the top of the ladder (top is %d): %w",
			level, top, ErrConstraintViolation)
	}
	return nil
}

// LevelForPoints returns the highest ladder level whose requirement is
// covered by total. Entries must be sorted by level ascending.
func LevelForPoints(entries []models.LevelLadderEntry, total int64) int {
	level := 1
	for _, e := range entries {
		if e.PointsRequired <= total {
			level = e.Level
		} else {
			break
		}
	}
	return level
}

// NextLevelRequirement returns the cumulative points needed for level+1,
// or false when the ladder is exhausted.
func NextLevelRequirement(entries []models.LevelLadderEntry, level int) (int64, bool) {
	for _, e := range entries {
		if e.Level == level+1 {
			return e.PointsRequired, true
		}
	}
	return 0, false
}

// AdvanceLevel walks the ladder from the current level until no further entry
// qualifies, so one large award cascades through every level it pays for.
// At the top of the ladder the subject stays put; that is not an error.
func AdvanceLevel(entries []models.LevelLadderEntry, level int, total int64) (int, bool) {
	leveledUp := false
	for {
		required, ok := NextLevelRequirement(entries, level)
		if !ok || total < required {
			return level, leveledUp
		}
		level++
		leveledUp = true
	}
}
