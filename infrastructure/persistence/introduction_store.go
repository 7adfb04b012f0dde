package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/internal/database"
)

// IntroductionStore persists introductions. The guard conditions of the
// lifecycle (request already pending, token already consumed, auto-expire)
// are expressed as single conditional UPDATEs so concurrent callers cannot
// race a read-then-write gap.
type IntroductionStore struct {
	database.Repository[introduction.Introduction, IntroductionModel]
}

// NewIntroductionStore creates a new IntroductionStore.
func NewIntroductionStore(db database.Database) IntroductionStore {
	return IntroductionStore{
		Repository: database.NewRepository[introduction.Introduction, IntroductionModel](db, IntroductionMapper{}, "introduction"),
	}
}

// Create inserts a new introduction, ignoring the insert if the
// (employer, candidate) pair already exists. Returns true if a row was
// created.
func (s IntroductionStore) Create(ctx context.Context, intro introduction.Introduction) (bool, error) {
	model := s.Mapper().ToModel(intro)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employer_id"}, {Name: "candidate_id"}},
		DoNothing: true,
	}).Create(&model)
	if result.Error != nil {
		return false, fmt.Errorf("create introduction: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Counter columns accepted by IncrementCounter.
const (
	CounterProfileViews    = "profile_views"
	CounterResumeDownloads = "resume_downloads"
)

// IncrementCounter atomically bumps a view/download counter for the pair.
// Returns false if no row exists yet. Lost increments under concurrency are
// an accepted metric approximation, not a correctness issue, but the bump
// itself is a single SQL expression so it never clobbers other fields.
func (s IntroductionStore) IncrementCounter(ctx context.Context, employerID, candidateID int64, column string, now time.Time) (bool, error) {
	if column != CounterProfileViews && column != CounterResumeDownloads {
		return false, fmt.Errorf("increment counter: unknown column %q", column)
	}
	result := s.DB(ctx).Model(&IntroductionModel{}).
		Where("employer_id = ? AND candidate_id = ?", employerID, candidateID).
		Updates(map[string]any{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("increment %s: %w", column, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// BeginRequest transitions an introduction to INTRO_REQUESTED and installs
// a fresh token, unless a request is already pending or the row is in a
// state that cannot accept one. A pending request whose token has lapsed
// may be superseded, so an undelivered link never wedges the pair.
// Returns false on guard failure.
func (s IntroductionStore) BeginRequest(ctx context.Context, id int64, jobID *int64, token string, tokenExpiry, now time.Time) (bool, error) {
	updates := map[string]any{
		"status":                string(introduction.StatusIntroRequested),
		"candidate_response":    string(introduction.ResponsePending),
		"intro_requested_at":    now,
		"response_token":        token,
		"response_token_expiry": tokenExpiry,
		"updated_at":            now,
	}
	if jobID != nil {
		updates["job_id"] = *jobID
	}

	result := s.DB(ctx).Model(&IntroductionModel{}).
		Where("id = ?", id).
		Where("status = ? OR (status = ? AND (candidate_response <> ? OR response_token_expiry < ?))",
			string(introduction.StatusProfileViewed),
			string(introduction.StatusIntroRequested),
			string(introduction.ResponsePending),
			now).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("begin request: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ClaimToken atomically spends an active response token: the token column
// is cleared and the token moved to consumed_token in one conditional
// UPDATE. Exactly one caller can win. Returns the claimed row's id.
func (s IntroductionStore) ClaimToken(ctx context.Context, tok string, now time.Time) (int64, bool, error) {
	var model IntroductionModel
	if err := s.DB(ctx).Where("response_token = ?", tok).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find token: %w", err)
	}

	result := s.DB(ctx).Model(&IntroductionModel{}).
		Where("id = ? AND response_token = ?", model.ID, tok).
		Updates(map[string]any{
			"response_token":        nil,
			"response_token_expiry": nil,
			"consumed_token":        tok,
			"updated_at":            now,
		})
	if result.Error != nil {
		return 0, false, fmt.Errorf("claim token: %w", result.Error)
	}
	return model.ID, result.RowsAffected > 0, nil
}

// WasConsumed reports whether tok was already spent on some introduction.
func (s IntroductionStore) WasConsumed(ctx context.Context, tok string) (bool, error) {
	var count int64
	if err := s.DB(ctx).Model(&IntroductionModel{}).Where("consumed_token = ?", tok).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check consumed token: %w", err)
	}
	return count > 0, nil
}

// RecordResponse applies the candidate's answer to a row whose token has
// already been claimed.
func (s IntroductionStore) RecordResponse(ctx context.Context, id int64, response introduction.Response, message string, newStatus introduction.Status, now time.Time) error {
	updates := map[string]any{
		"candidate_response":     string(response),
		"candidate_message":      message,
		"candidate_responded_at": now,
		"updated_at":             now,
	}
	if newStatus != "" {
		updates["status"] = string(newStatus)
	}
	if response == introduction.ResponseAccepted {
		updates["introduced_at"] = now
	}

	result := s.DB(ctx).Model(&IntroductionModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("record response: %w", result.Error)
	}
	return nil
}

// ExpireDue bulk-transitions every INTRODUCED row whose protection window
// has lapsed to EXPIRED. Idempotent: expired rows no longer match. Returns
// the number of rows expired.
func (s IntroductionStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := s.DB(ctx).Model(&IntroductionModel{}).
		Where("status = ? AND protection_ends_at < ?", string(introduction.StatusIntroduced), now).
		Updates(map[string]any{
			"status":     string(introduction.StatusExpired),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("expire due introductions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
