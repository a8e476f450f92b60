package services

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fit-competition-system/models"

	"gorm.io/gorm"
)

const (
	maxLeaderboardLimit     = 100
	defaultLeaderboardLimit = 25

	ScopeSeason    = "season"
	ScopeChallenge = "challenge"

	SubjectMember = "member"
	SubjectTeam   = "team"
)

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// LeaderboardScope selects exactly one of a season or a challenge.
type LeaderboardScope struct {
	SeasonID    string
	ChallengeID string
}

type LeaderboardItem struct {
	SubjectID string `json:"member_id"`
	Name      string `json:"name"`
	Points    int64  `json:"points"`
	Rank      int    `json:"rank"`
}

type LeaderboardPage struct {
	Items      []LeaderboardItem `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// leaderboardRow is one aggregated row from the activity log, pre-pagination.
type leaderboardRow struct {
	SubjectID string    `gorm:"column:subject_id"`
	Name      string    `gorm:"column:name"`
	Points    int64     `gorm:"column:points"`
	FirstAt   time.Time `gorm:"column:first_at"`
}

// cursor is the keyset position after the last row of a page: everything that
// sorts strictly after (points DESC, firstAt ASC, subjectID ASC) plus the rank
// already handed out.
type cursor struct {
	Points    int64
	FirstAt   time.Time
	SubjectID string
	Rank      int
}

func encodeCursor(c cursor) string {
	raw := fmt.Sprintf("%d|%d|%s|%d", c.Points, c.FirstAt.UnixNano(), c.SubjectID, c.Rank)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(enc string) (cursor, error) {
	raw, err := base64.URLEncoding.DecodeString(enc)
	if err != nil {
		return cursor{}, fmt.Errorf("malformed cursor: %w", err)
	}
	parts := strings.Split(string(raw), "|")
	if len(parts) != 4 {
		return cursor{}, fmt.Errorf("malformed cursor: expected 4 fields, got %d", len(parts))
	}
	points, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return cursor{}, fmt.Errorf("malformed cursor points: %w", err)
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return cursor{}, fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	rank, err := strconv.Atoi(parts[3])
	if err != nil || rank < 0 {
		return cursor{}, fmt.Errorf("malformed cursor rank")
	}
	return cursor{
		Points:    points,
		FirstAt:   time.Unix(0, nanos).UTC(),
		SubjectID: parts[2],
		Rank:      rank,
	}, nil
}

// pageFromRows turns up-to-limit+1 ordered rows into a page, assigning ranks
// after the cursor position and emitting a next cursor only when another row
// exists past the page.
func pageFromRows(rows []leaderboardRow, limit, lastRank int) *LeaderboardPage {
	page := &LeaderboardPage{Items: []LeaderboardItem{}}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	for i, r := range rows {
		page.Items = append(page.Items, LeaderboardItem{
			SubjectID: r.SubjectID,
			Name:      r.Name,
			Points:    r.Points,
			Rank:      lastRank + i + 1,
		})
	}

	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = encodeCursor(cursor{
			Points:    last.Points,
			FirstAt:   last.FirstAt,
			SubjectID: last.SubjectID,
			Rank:      lastRank + len(rows),
		})
	}
	return page
}

// GetLeaderboard returns one page of ranked subjects for the scope. Reads are
// a single aggregate statement over the activity log — a consistent snapshot
// with no locks. Higher points rank first; ties break on earliest activity,
// then subject id, so repeated reads with no writes return identical pages.
func (s *LeaderboardService) GetLeaderboard(scope LeaderboardScope, limit int, encodedCursor string) (*LeaderboardPage, error) {
	if limit < 1 || limit > maxLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}

	var after *cursor
	if encodedCursor != "" {
		c, err := decodeCursor(encodedCursor)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrInvalidRange)
		}
		after = &c
	}

	var (
		scopeColumn string
		scopeID     string
		subject     = SubjectMember
	)
	switch {
	case scope.ChallengeID != "":
		ch, err := s.challengeRef(scope.ChallengeID)
		if err != nil {
			return nil, err
		}
		scopeColumn, scopeID = "challenge_id", ch.ID
		if ch.IsTeamBased {
			subject = SubjectTeam
		}
	case scope.SeasonID != "":
		if err := s.seasonExists(scope.SeasonID); err != nil {
			return nil, err
		}
		scopeColumn, scopeID = "season_id", scope.SeasonID
	default:
		return nil, fmt.Errorf("leaderboard scope requires a season or challenge: %w", ErrSeasonNotFound)
	}

	rows, err := s.queryRows(scopeColumn, scopeID, subject, limit, after)
	if err != nil {
		return nil, err
	}

	lastRank := 0
	if after != nil {
		lastRank = after.Rank
	}
	return pageFromRows(rows, limit, lastRank), nil
}

func (s *LeaderboardService) challengeRef(id string) (*models.Challenge, error) {
	var ch models.Challenge
	if err := s.DB.First(&ch, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func (s *LeaderboardService) seasonExists(id string) error {
	var season models.Season
	if err := s.DB.Select("id").First(&season, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrSeasonNotFound
		}
		return err
	}
	return nil
}

// queryRows fetches limit+1 aggregated rows so the caller can tell whether a
// further page exists. Keyset filtering happens in HAVING because the sort
// keys are aggregates.
func (s *LeaderboardService) queryRows(scopeColumn, scopeID, subject string, limit int, after *cursor) ([]leaderboardRow, error) {
	var (
		selectCols string
		joins      string
		groupBy    string
	)
	if subject == SubjectTeam {
		selectCols = "t.id AS subject_id, t.name AS name"
		joins = "INNER JOIN teams t ON t.id = a.team_id"
		groupBy = "t.id, t.name"
	} else {
		selectCols = "m.external_user_id AS subject_id, m.display_name AS name"
		joins = "INNER JOIN members m ON m.id = a.member_id"
		groupBy = "m.external_user_id, m.display_name"
	}

	query := fmt.Sprintf(`
		SELECT %s, SUM(a.points) AS points, MIN(a.created_at) AS first_at
		FROM activity_logs a
		%s
		WHERE a.%s = ?
		GROUP BY %s
	`, selectCols, joins, scopeColumn, groupBy)

	args := []interface{}{scopeID}
	if after != nil {
		query += `
		HAVING SUM(a.points) < ?
		    OR (SUM(a.points) = ? AND MIN(a.created_at) > ?)
		    OR (SUM(a.points) = ? AND MIN(a.created_at) = ? AND ` + strings.Split(groupBy, ",")[0] + ` > ?)
		`
		args = append(args,
			after.Points,
			after.Points, after.FirstAt,
			after.Points, after.FirstAt, after.SubjectID,
		)
	}

	query += `
		ORDER BY points DESC, first_at ASC, subject_id ASC
		LIMIT ?
	`
	args = append(args, limit+1)

	var rows []leaderboardRow
	if err := s.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
