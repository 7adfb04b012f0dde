package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/scoutline/scoutline/domain/placement"
	"github.com/scoutline/scoutline/internal/database"
)

// PlacementStore persists placements and their two-part invoice state.
type PlacementStore struct {
	database.Repository[placement.Placement, PlacementModel]
}

// NewPlacementStore creates a new PlacementStore.
func NewPlacementStore(db database.Database) PlacementStore {
	return PlacementStore{
		Repository: database.NewRepository[placement.Placement, PlacementModel](db, PlacementMapper{}, "placement"),
	}
}

// Create inserts a new placement and returns it with its assigned id.
func (s PlacementStore) Create(ctx context.Context, p placement.Placement) (placement.Placement, error) {
	model := s.Mapper().ToModel(p)
	if result := s.DB(ctx).Create(&model); result.Error != nil {
		return placement.Placement{}, fmt.Errorf("create placement: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}

// ConfirmUpfront records the upfront payment exactly once and moves the
// aggregate status to PARTIALLY_PAID.
func (s PlacementStore) ConfirmUpfront(ctx context.Context, id int64, now time.Time) (bool, error) {
	result := s.DB(ctx).Model(&PlacementModel{}).
		Where("id = ? AND upfront_paid_at IS NULL", id).
		Updates(map[string]any{
			"upfront_paid_at": now,
			"payment_status":  string(placement.PaymentPartiallyPaid),
			"updated_at":      now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("confirm upfront payment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ConfirmRemaining records the remaining payment exactly once; the
// placement must already have the upfront part paid.
func (s PlacementStore) ConfirmRemaining(ctx context.Context, id int64, now time.Time) (bool, error) {
	result := s.DB(ctx).Model(&PlacementModel{}).
		Where("id = ? AND upfront_paid_at IS NOT NULL AND remaining_paid_at IS NULL", id).
		Updates(map[string]any{
			"remaining_paid_at": now,
			"payment_status":    string(placement.PaymentPaid),
			"updated_at":        now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("confirm remaining payment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// TouchReminder stamps the last-reminder time after a reminder email went
// out, so the cooldown window has an anchor.
func (s PlacementStore) TouchReminder(ctx context.Context, id int64, now time.Time) error {
	result := s.DB(ctx).Model(&PlacementModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_reminder_at": now,
			"updated_at":       now,
		})
	if result.Error != nil {
		return fmt.Errorf("touch reminder: %w", result.Error)
	}
	return nil
}
