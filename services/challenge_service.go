package services

import (
	"fmt"
	"time"

	"fit-competition-system/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ChallengeService struct {
	DB *gorm.DB
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{DB: db}
}

// ResolvedContext is the challenge/season context an activity is attributed
// to. A nil Challenge means "no challenge context" and Multiplier 1.
type ResolvedContext struct {
	Challenge  *models.Challenge
	SeasonID   *string
	Multiplier int64
}

// WindowContains reports whether now falls within [startsAt, endsAt).
// Half-open: active at exactly startsAt, inactive at exactly endsAt.
func WindowContains(startsAt, endsAt, now time.Time) bool {
	return !now.Before(startsAt) && now.Before(endsAt)
}

// ChallengeActiveAt reports whether the challenge is currently active —
// inside its own window and its season's.
func ChallengeActiveAt(ch *models.Challenge, season *models.Season, now time.Time) bool {
	if !WindowContains(ch.StartsAt, ch.EndsAt, now) {
		return false
	}
	if season == nil {
		return false
	}
	return season.IsActive && WindowContains(season.StartsAt, season.EndsAt, now)
}

// Resolve validates a challenge reference against the clock before points may
// be attributed to it. With no reference it attributes the activity to the
// currently active season, if any, at multiplier 1.
func (s *ChallengeService) Resolve(challengeID string, now time.Time) (*ResolvedContext, error) {
	if challengeID == "" {
		season, err := s.activeSeason(now)
		if err != nil {
			return nil, err
		}
		ctx := &ResolvedContext{Multiplier: 1}
		if season != nil {
			ctx.SeasonID = &season.ID
		}
		return ctx, nil
	}

	var ch models.Challenge
	if err := s.DB.Preload("Season").First(&ch, "id = ?", challengeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if !ChallengeActiveAt(&ch, &ch.Season, now) {
		return nil, fmt.Errorf("challenge %s: %w", ch.Slug, ErrChallengeInactive)
	}

	return &ResolvedContext{
		Challenge:  &ch,
		SeasonID:   &ch.SeasonID,
		Multiplier: ch.PointsMultiplier,
	}, nil
}

func (s *ChallengeService) activeSeason(now time.Time) (*models.Season, error) {
	var season models.Season
	err := s.DB.Where("is_active = ? AND starts_at <= ? AND ends_at > ?", true, now, now).
		Order("starts_at DESC").
		First(&season).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// --- Season admin CRUD ---

type SeasonInput struct {
	Name        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	BannerURL   string
}

func (s *ChallengeService) CreateSeason(in SeasonInput) (*models.Season, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, fmt.Errorf("season %q: %w", in.Name, ErrInvalidRange)
	}

	season := models.Season{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		IsActive:    true,
		BannerURL:   in.BannerURL,
	}
	if err := s.DB.Create(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

func (s *ChallengeService) GetSeason(id string) (*models.Season, error) {
	var season models.Season
	if err := s.DB.Preload("Challenges").First(&season, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return &season, nil
}

func (s *ChallengeService) ListSeasons() ([]models.Season, error) {
	var seasons []models.Season
	err := s.DB.Order("starts_at DESC").Find(&seasons).Error
	return seasons, err
}

// DeleteSeason is blocked while challenges still belong to the season.
func (s *ChallengeService) DeleteSeason(id string) error {
	season, err := s.GetSeason(id)
	if err != nil {
		return err
	}

	var challenges int64
	if err := s.DB.Model(&models.Challenge{}).Where("season_id = ?", id).Count(&challenges).Error; err != nil {
		return err
	}
	if challenges > 0 {
		return fmt.Errorf("season %s still owns %d challenges: %w", season.Slug, challenges, ErrConstraintViolation)
	}
	return s.DB.Delete(season).Error
}

// --- Challenge admin CRUD ---

type ChallengeInput struct {
	SeasonID         string
	Name             string
	Description      string
	StartsAt         time.Time
	EndsAt           time.Time
	IsTeamBased      bool
	PointsMultiplier int64
	ImageURL         string
}

func (s *ChallengeService) CreateChallenge(in ChallengeInput) (*models.Challenge, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, fmt.Errorf("challenge %q: %w", in.Name, ErrInvalidRange)
	}
	if in.PointsMultiplier < 1 {
		return nil, fmt.Errorf("challenge %q: points multiplier must be >= 1: %w", in.Name, ErrInvalidRange)
	}

	season, err := s.GetSeason(in.SeasonID)
	if err != nil {
		return nil, err
	}
	if in.StartsAt.Before(season.StartsAt) || in.EndsAt.After(season.EndsAt) {
		return nil, fmt.Errorf("challenge %q window escapes season %s: %w", in.Name, season.Slug, ErrInvalidRange)
	}

	ch := models.Challenge{
		SeasonID:         in.SeasonID,
		Name:             in.Name,
		Slug:             slug.Make(in.Name),
		Description:      in.Description,
		StartsAt:         in.StartsAt,
		EndsAt:           in.EndsAt,
		IsTeamBased:      in.IsTeamBased,
		PointsMultiplier: in.PointsMultiplier,
		ImageURL:         in.ImageURL,
	}
	if err := s.DB.Create(&ch).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *ChallengeService) GetChallenge(id string) (*models.Challenge, error) {
	var ch models.Challenge
	if err := s.DB.Preload("Season").First(&ch, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func (s *ChallengeService) ListChallenges(seasonID string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	q := s.DB.Order("starts_at ASC")
	if seasonID != "" {
		q = q.Where("season_id = ?", seasonID)
	}
	err := q.Find(&challenges).Error
	return challenges, err
}

// DeleteChallenge is blocked while activity log entries reference it — the
// log is append-only and its references must stay resolvable.
func (s *ChallengeService) DeleteChallenge(id string) error {
	ch, err := s.GetChallenge(id)
	if err != nil {
		return err
	}

	var activities int64
	if err := s.DB.Model(&models.ActivityLog{}).Where("challenge_id = ?", id).Count(&activities).Error; err != nil {
		return err
	}
	if activities > 0 {
		return fmt.Errorf("challenge %s has %d logged activities: %w", ch.Slug, activities, ErrConstraintViolation)
	}
	return s.DB.Delete(ch).Error
}
