package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/internal/database"
)

// CheckInStore persists check-ins. Row creation is idempotent on the
// (introduction_id, check_in_number) unique index, and the send-marking and
// token-spending guards are single conditional UPDATEs.
type CheckInStore struct {
	database.Repository[checkin.CheckIn, CheckInModel]
}

// NewCheckInStore creates a new CheckInStore.
func NewCheckInStore(db database.Database) CheckInStore {
	return CheckInStore{
		Repository: database.NewRepository[checkin.CheckIn, CheckInModel](db, CheckInMapper{}, "check-in"),
	}
}

// CreateIfAbsent inserts the check-in unless its (introduction, number)
// pair already exists. Returns true if a row was created. Safe under
// concurrent or repeated materialization runs.
func (s CheckInStore) CreateIfAbsent(ctx context.Context, c checkin.CheckIn) (bool, error) {
	model := s.Mapper().ToModel(c)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "introduction_id"}, {Name: "check_in_number"}},
		DoNothing: true,
	}).Create(&model)
	if result.Error != nil {
		return false, fmt.Errorf("create check-in: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DueUnsent returns every check-in scheduled at or before the cutoff that
// has not been dispatched yet.
func (s CheckInStore) DueUnsent(ctx context.Context, cutoff time.Time) ([]checkin.CheckIn, error) {
	return s.Find(ctx, checkin.DueBy(cutoff), checkin.Unsent())
}

// MarkSent stamps sent_at and installs the round's token, but only if the
// row is still unsent. Returns false if another pass got there first.
// Callers must invoke this only after a confirmed delivery: a row marked
// sent is never retried.
func (s CheckInStore) MarkSent(ctx context.Context, id int64, token string, tokenExpiry, sentAt time.Time) (bool, error) {
	result := s.DB(ctx).Model(&CheckInModel{}).
		Where("id = ? AND sent_at IS NULL", id).
		Updates(map[string]any{
			"sent_at":               sentAt,
			"response_token":        token,
			"response_token_expiry": tokenExpiry,
			"updated_at":            sentAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("mark check-in sent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ClaimToken atomically spends a check-in's active response token. Returns
// the claimed row's id, or claimed=false when the token is not active.
func (s CheckInStore) ClaimToken(ctx context.Context, tok string, now time.Time) (int64, bool, error) {
	var model CheckInModel
	if err := s.DB(ctx).Where("response_token = ?", tok).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find token: %w", err)
	}

	result := s.DB(ctx).Model(&CheckInModel{}).
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

// WasConsumed reports whether tok was already spent on some check-in.
func (s CheckInStore) WasConsumed(ctx context.Context, tok string) (bool, error) {
	var count int64
	if err := s.DB(ctx).Model(&CheckInModel{}).Where("consumed_token = ?", tok).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check consumed token: %w", err)
	}
	return count > 0, nil
}

// RecordVerdict stores the raw reply and its classified verdict on a row
// whose token has already been claimed.
func (s CheckInStore) RecordVerdict(ctx context.Context, id int64, raw string, verdict checkin.Verdict, flagged bool, now time.Time) error {
	parsed, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}

	result := s.DB(ctx).Model(&CheckInModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"responded_at":       now,
			"response_raw":       raw,
			"response_parsed":    string(parsed),
			"risk_level":         string(verdict.RiskLevel),
			"risk_reason":        verdict.RiskReason,
			"flagged_for_review": flagged,
			"updated_at":         now,
		})
	if result.Error != nil {
		return fmt.Errorf("record verdict: %w", result.Error)
	}
	return nil
}

// RecordReview stores a human review outcome on a check-in.
func (s CheckInStore) RecordReview(ctx context.Context, id int64, reviewer, notes string, now time.Time) error {
	result := s.DB(ctx).Model(&CheckInModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reviewed_at":  now,
			"reviewed_by":  reviewer,
			"review_notes": notes,
			"updated_at":   now,
		})
	if result.Error != nil {
		return fmt.Errorf("record review: %w", result.Error)
	}
	return nil
}
