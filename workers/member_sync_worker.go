// workers/member_sync_worker.go
package workers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"fit-competition-system/models"
	"fit-competition-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileFromProvider matches the JSON the identity provider's sync endpoint
// returns per profile.
type ProfileFromProvider struct {
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetProfileChangesResponse is the top-level structure of the sync response.
type GetProfileChangesResponse struct {
	Profiles []ProfileFromProvider `json:"profiles"`
}

// MemberSyncWorker mirrors identity-provider profiles into the members table
// so leaderboards can render names without cross-service calls. It only ever
// touches identity columns — point totals and levels belong to the engine.
type MemberSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

// profileUpsertColumns are the only columns a re-sync may overwrite. The
// progression totals and updated_at belong to the engine and must never
// appear here.
var profileUpsertColumns = []string{"display_name", "avatar_url", "profile_synced_at"}

// profileToMember builds the mirror row for an upserted profile. Progression
// columns start at their zero/default values and are never synced.
func profileToMember(p ProfileFromProvider) models.Member {
	synced := p.UpdatedAt
	return models.Member{
		ID:              uuid.NewString(),
		ExternalUserID:  p.ExternalID,
		DisplayName:     p.DisplayName,
		AvatarURL:       p.AvatarURL,
		Level:           1,
		ProfileSyncedAt: &synced,
	}
}

func NewMemberSyncWorker(db *gorm.DB, identityBaseURL, endpointPath, serviceToken string) *MemberSyncWorker {
	return &MemberSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      identityBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
	}
}

func (w *MemberSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Member Sync Worker (identity provider → members)…")
	go w.run(ctx)
}

func (w *MemberSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial member sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ Member sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Member Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the newest provider timestamp already mirrored. The
// watermark lives in its own column: members.updated_at advances on every
// point award, which would skip past profile changes made earlier.
func (w *MemberSyncWorker) getLastSyncTime() time.Time {
	var last sql.NullTime
	err := w.db.Raw("SELECT MAX(profile_synced_at) FROM members WHERE deleted_at IS NULL").Scan(&last).Error
	if err != nil || !last.Valid {
		return time.Unix(0, 0)
	}
	return last.Time
}

// syncBatch fetches profile changes since the given time and upserts them.
func (w *MemberSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid identity provider URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to identity provider failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("identity provider non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetProfileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode identity provider response: %w", err)
	}

	if len(response.Profiles) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d profile(s) from identity provider…", len(response.Profiles))

	var upsertCount, errorCount int
	for _, profile := range response.Profiles {
		if profile.ExternalID == "" {
			errorCount++
			continue
		}

		member := profileToMember(profile)

		if err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns(profileUpsertColumns),
		}).Create(&member).Error; err != nil {
			log.Printf("[SYNC] ❌ Upsert failed for %s: %v", profile.ExternalID, err)
			errorCount++
			continue
		}
		upsertCount++
	}

	log.Printf("[SYNC] ✅ Member sync done: %d upserted, %d failed", upsertCount, errorCount)
	return nil
}
