package services

import (
	"fmt"
	"log"
	"time"

	"fit-competition-system/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

const snapshotRebuildInterval = 5 * time.Minute

// StartSnapshotScheduler rebuilds the leaderboard snapshot cache on a fixed
// interval. Snapshots are disposable — live reads never depend on them.
func (s *LeaderboardService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(snapshotRebuildInterval),
		gocron.NewTask(func() {
			if err := s.RebuildSnapshots(time.Now()); err != nil {
				log.Printf("[Snapshot] rebuild failed: %v", err)
			}
		}),
	)
}

// RebuildSnapshots recomputes ranked snapshot rows for every currently active
// season and its challenges, then evicts rows from the previous pass.
func (s *LeaderboardService) RebuildSnapshots(now time.Time) error {
	started := now

	var seasons []models.Season
	if err := s.DB.Where("is_active = ? AND starts_at <= ? AND ends_at > ?", true, now, now).
		Find(&seasons).Error; err != nil {
		return err
	}

	for _, season := range seasons {
		if err := s.rebuildScope(ScopeSeason, season.ID, SubjectMember, now); err != nil {
			return fmt.Errorf("season %s: %w", season.Slug, err)
		}

		var challenges []models.Challenge
		if err := s.DB.Where("season_id = ?", season.ID).Find(&challenges).Error; err != nil {
			return err
		}
		for _, ch := range challenges {
			subject := SubjectMember
			if ch.IsTeamBased {
				subject = SubjectTeam
			}
			if err := s.rebuildScope(ScopeChallenge, ch.ID, subject, now); err != nil {
				return fmt.Errorf("challenge %s: %w", ch.Slug, err)
			}
		}
	}

	// Evict scopes that were not touched this pass (ended seasons etc.)
	if err := s.DB.Where("computed_at < ?", started).
		Delete(&models.LeaderboardSnapshot{}).Error; err != nil {
		return err
	}

	log.Printf("[Snapshot] rebuilt leaderboards for %d active seasons", len(seasons))
	return nil
}

func (s *LeaderboardService) rebuildScope(scopeType, scopeID, subject string, now time.Time) error {
	scopeColumn := "season_id"
	if scopeType == ScopeChallenge {
		scopeColumn = "challenge_id"
	}

	rows, err := s.queryRows(scopeColumn, scopeID, subject, maxLeaderboardLimit, nil)
	if err != nil {
		return err
	}
	if len(rows) > maxLeaderboardLimit {
		rows = rows[:maxLeaderboardLimit]
	}

	snapshots := make([]models.LeaderboardSnapshot, 0, len(rows))
	for i, r := range rows {
		snapshots = append(snapshots, models.LeaderboardSnapshot{
			ID:              uuid.NewString(),
			ScopeType:       scopeType,
			ScopeID:         scopeID,
			SubjectType:     subject,
			SubjectID:       r.SubjectID,
			SubjectName:     r.Name,
			Points:          r.Points,
			Rank:            i + 1,
			FirstActivityAt: r.FirstAt,
			ComputedAt:      now,
		})
	}
	if len(snapshots) == 0 {
		return nil
	}

	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "scope_type"}, {Name: "scope_id"},
			{Name: "subject_type"}, {Name: "subject_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"subject_name", "points", "rank", "first_activity_at", "computed_at",
		}),
	}).Create(&snapshots).Error
}
