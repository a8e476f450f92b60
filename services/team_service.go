package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fit-competition-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamService struct {
	DB *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{DB: db}
}

func (s *TeamService) CreateTeam(name, description string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team name is required: %w", ErrInvalidRange)
	}

	team := models.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		TeamLevel:   1,
	}
	if err := s.DB.Create(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) GetTeam(id string) (*models.Team, error) {
	var team models.Team
	if err := s.DB.First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if err := s.DB.Model(&models.TeamMembership{}).
		Where("team_id = ? AND left_at IS NULL", id).
		Count(&team.MemberCount).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) ListTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.DB.Order("total_team_points DESC").Find(&teams).Error
	return teams, err
}

// Roster returns the members with an open membership in the team.
func (s *TeamService) Roster(teamID string) ([]models.Member, error) {
	if _, err := s.GetTeam(teamID); err != nil {
		return nil, err
	}

	var members []models.Member
	err := s.DB.Raw(`
		SELECT m.* FROM members m
		INNER JOIN team_memberships tm ON tm.member_id = m.id
		WHERE tm.team_id = ? AND tm.left_at IS NULL AND m.deleted_at IS NULL
		ORDER BY m.team_points DESC
	`, teamID).Scan(&members).Error
	return members, err
}

// JoinTeam moves the member onto a team: any open membership elsewhere is
// closed and the member's running team contribution restarts at zero. The
// member row is locked so a join cannot interleave with a point award.
func (s *TeamService) JoinTeam(externalUserID, teamID string) (*models.TeamMembership, error) {
	var membership *models.TeamMembership
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_user_id = ?", externalUserID).
			First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.TeamMembership{}).
			Where("member_id = ? AND left_at IS NULL", member.ID).
			Update("left_at", now).Error; err != nil {
			return err
		}

		member.TeamPoints = 0
		if err := tx.Save(&member).Error; err != nil {
			return err
		}

		membership = &models.TeamMembership{
			ID:       uuid.NewString(),
			TeamID:   team.ID,
			MemberID: member.ID,
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// LeaveTeam closes the member's open membership. Points already contributed
// stay with the team; only the member's running contribution counter clears.
func (s *TeamService) LeaveTeam(externalUserID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_user_id = ?", externalUserID).
			First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.TeamMembership{}).
			Where("member_id = ? AND left_at IS NULL", member.ID).
			Update("left_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("no open membership for %s: %w", externalUserID, ErrTeamNotFound)
		}

		member.TeamPoints = 0
		return tx.Save(&member).Error
	})
}
