package services

import (
	"errors"

	"fit-competition-system/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressionTx is the narrow unit-of-work the engine needs for one activity
// submission. Everything behind it happens inside a single transaction; a
// returned error rolls the whole submission back.
type ProgressionTx interface {
	// MemberForUpdate loads the member row under an exclusive lock, so two
	// submissions for the same member serialize against each other.
	MemberForUpdate(externalUserID string) (*models.Member, error)
	SaveMember(m *models.Member) error

	// OpenMembership returns the member's current membership, or nil.
	OpenMembership(memberID string) (*models.TeamMembership, error)
	TeamForUpdate(teamID string) (*models.Team, error)
	SaveTeam(t *models.Team) error

	InsertActivity(a *models.ActivityLog) error
}

// ProgressionStore runs a unit of work atomically.
type ProgressionStore interface {
	InTransaction(fn func(tx ProgressionTx) error) error
}

type gormProgressionStore struct {
	db *gorm.DB
}

func NewProgressionStore(db *gorm.DB) ProgressionStore {
	return &gormProgressionStore{db: db}
}

func (s *gormProgressionStore) InTransaction(fn func(tx ProgressionTx) error) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormProgressionTx{tx: tx})
	})
	if err != nil && isSerializationFailure(err) {
		return ErrConcurrencyConflict
	}
	return err
}

// isSerializationFailure detects Postgres serialization and deadlock aborts
// (SQLSTATE 40001 / 40P01); the caller retries the whole submission.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

type gormProgressionTx struct {
	tx *gorm.DB
}

func (t *gormProgressionTx) MemberForUpdate(externalUserID string) (*models.Member, error) {
	var m models.Member
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("external_user_id = ?", externalUserID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (t *gormProgressionTx) SaveMember(m *models.Member) error {
	return t.tx.Save(m).Error
}

func (t *gormProgressionTx) OpenMembership(memberID string) (*models.TeamMembership, error) {
	var ms models.TeamMembership
	err := t.tx.Where("member_id = ? AND left_at IS NULL", memberID).First(&ms).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ms, nil
}

func (t *gormProgressionTx) TeamForUpdate(teamID string) (*models.Team, error) {
	var team models.Team
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&team, "id = ?", teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (t *gormProgressionTx) SaveTeam(team *models.Team) error {
	return t.tx.Save(team).Error
}

func (t *gormProgressionTx) InsertActivity(a *models.ActivityLog) error {
	err := t.tx.Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSubmission
	}
	return err
}
