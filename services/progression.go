package services

import (
	"fmt"
	"log"
	"time"

	"fit-competition-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Narrow read-side dependencies, kept as interfaces so the submission
// pipeline is testable without a database.
type contextResolver interface {
	Resolve(challengeID string, now time.Time) (*ResolvedContext, error)
}

type exerciseSource interface {
	ExerciseByID(id string) (*models.Exercise, error)
}

type ladderSource interface {
	Entries() ([]models.LevelLadderEntry, error)
}

type ProgressionService struct {
	DB *gorm.DB

	store     ProgressionStore
	resolver  contextResolver
	exercises exerciseSource
	ladder    ladderSource
	now       func() time.Time
}

func NewProgressionService(db *gorm.DB, store ProgressionStore, resolver *ChallengeService, catalog *CatalogService, ladder *LadderService) *ProgressionService {
	return &ProgressionService{
		DB:        db,
		store:     store,
		resolver:  resolver,
		exercises: catalog,
		ladder:    ladder,
		now:       time.Now,
	}
}

// LogActivityInput carries one activity submission.
type LogActivityInput struct {
	ExternalUserID string
	ExerciseID     string
	ChallengeID    string // optional
	SubmissionKey  string // optional idempotency key

	// Raw measurements — stored, never scored
	Quantity     *int
	Sets         *int
	WeightKg     *float64
	DurationSecs *int
	Calories     *int
}

// ActivityResult is what the caller gets back from a successful submission.
type ActivityResult struct {
	ActivityID     string `json:"activity_id"`
	PointsAwarded  int64  `json:"points_awarded"`
	LeveledUp      bool   `json:"leveled_up"`
	NewLevel       int    `json:"new_level"`
	NewTotalPoints int64  `json:"new_total_points"`
}

// LogActivity runs the full submission pipeline: resolve the challenge
// window, compute the award, then apply member totals, level transitions,
// team aggregation and the activity log insert as one atomic unit. Partial
// application is never possible — any error rolls everything back.
func (s *ProgressionService) LogActivity(in LogActivityInput) (*ActivityResult, error) {
	exercise, err := s.exercises.ExerciseByID(in.ExerciseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ctx, err := s.resolver.Resolve(in.ChallengeID, now)
	if err != nil {
		return nil, err
	}

	entries, err := s.ladder.Entries()
	if err != nil {
		return nil, err
	}

	points := CalculatePoints(exercise.DifficultyRank, ctx.Multiplier)

	var result *ActivityResult
	err = s.store.InTransaction(func(tx ProgressionTx) error {
		member, err := tx.MemberForUpdate(in.ExternalUserID)
		if err != nil {
			return err
		}

		member.TotalPoints += points
		member.CurrentPoints += points

		newLevel, leveledUp := AdvanceLevel(entries, member.Level, member.TotalPoints)
		if leveledUp {
			member.Level = newLevel
			member.LastLevelUpAt = &now
		}

		// Team aggregation rides the same transaction as the member update
		var teamID *string
		membership, err := tx.OpenMembership(member.ID)
		if err != nil {
			return err
		}
		if membership != nil {
			team, err := tx.TeamForUpdate(membership.TeamID)
			if err != nil {
				return err
			}
			team.TotalTeamPoints += points
			if lvl, up := AdvanceLevel(entries, team.TeamLevel, team.TotalTeamPoints); up {
				team.TeamLevel = lvl
				team.LastLevelUpAt = &now
			}
			if err := tx.SaveTeam(team); err != nil {
				return err
			}
			member.TeamPoints += points
			teamID = &membership.TeamID
		}

		if err := tx.SaveMember(member); err != nil {
			return err
		}

		activity := &models.ActivityLog{
			ID:                   uuid.NewString(),
			MemberID:             member.ID,
			ExerciseID:           exercise.ID,
			SeasonID:             ctx.SeasonID,
			TeamID:               teamID,
			Quantity:             in.Quantity,
			Sets:                 in.Sets,
			WeightKg:             in.WeightKg,
			DurationSecs:         in.DurationSecs,
			Calories:             in.Calories,
			DifficultyMultiplier: exercise.DifficultyRank,
			ChallengeMultiplier:  ctx.Multiplier,
			Points:               points,
		}
		if ctx.Challenge != nil {
			activity.ChallengeID = &ctx.Challenge.ID
		}
		if in.SubmissionKey != "" {
			activity.SubmissionKey = &in.SubmissionKey
		}
		if err := tx.InsertActivity(activity); err != nil {
			return err
		}

		result = &ActivityResult{
			ActivityID:     activity.ID,
			PointsAwarded:  points,
			LeveledUp:      leveledUp,
			NewLevel:       member.Level,
			NewTotalPoints: member.TotalPoints,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🏋️ Points awarded: %s → +%d (total=%d, lvl=%d, leveled_up=%t)",
		in.ExternalUserID, points, result.NewTotalPoints, result.NewLevel, result.LeveledUp)

	return result, nil
}

// MemberProgress is the read-side progress view. PointsToNextLevel is always
// computed from the ladder and TotalPoints, never from CurrentPoints, and is
// nil at the top of the ladder.
type MemberProgress struct {
	TotalPoints       int64  `json:"total_points"`
	CurrentPoints     int64  `json:"current_points"`
	TeamPoints        int64  `json:"team_points"`
	Level             int    `json:"level"`
	PointsToNextLevel *int64 `json:"points_to_next_level"`
}

func (s *ProgressionService) GetMemberProgress(externalUserID string) (*MemberProgress, error) {
	var member models.Member
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	entries, err := s.ladder.Entries()
	if err != nil {
		return nil, err
	}

	progress := &MemberProgress{
		TotalPoints:   member.TotalPoints,
		CurrentPoints: member.CurrentPoints,
		TeamPoints:    member.TeamPoints,
		Level:         member.Level,
	}
	if required, ok := NextLevelRequirement(entries, member.Level); ok {
		remaining := required - member.TotalPoints
		if remaining < 0 {
			remaining = 0
		}
		progress.PointsToNextLevel = &remaining
	}
	return progress, nil
}

// GetRecentActivities returns the member's paginated activity history,
// newest first.
func (s *ProgressionService) GetRecentActivities(externalUserID string, page, size int) (map[string]interface{}, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var member models.Member
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	var total int64
	if err := s.DB.Model(&models.ActivityLog{}).Where("member_id = ?", member.ID).Count(&total).Error; err != nil {
		return nil, err
	}

	var activities []models.ActivityLog
	if err := s.DB.Where("member_id = ?", member.ID).
		Preload("Exercise").
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&activities).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return map[string]interface{}{
		"activities":  activities,
		"page":        page,
		"size":        size,
		"total_items": total,
		"total_pages": totalPages,
	}, nil
}

// EnsureMemberRecord creates the local mirror row for an external user if it
// does not exist yet (idempotent). The sync worker normally provisions these;
// this is the fallback for first contact.
func (s *ProgressionService) EnsureMemberRecord(externalUserID, displayName string) (*models.Member, error) {
	var member models.Member
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&member).Error
	if err == gorm.ErrRecordNotFound {
		member = models.Member{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			DisplayName:    displayName,
			Level:          1,
		}
		if err := s.DB.Create(&member).Error; err != nil {
			return nil, fmt.Errorf("create member mirror: %w", err)
		}
		return &member, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}
