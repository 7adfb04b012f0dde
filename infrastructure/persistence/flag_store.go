package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/scoutline/scoutline/domain/circumvention"
	"github.com/scoutline/scoutline/internal/database"
)

// FlagStore persists circumvention flags. Resolution is a one-shot
// conditional transition out of OPEN.
type FlagStore struct {
	database.Repository[circumvention.Flag, CircumventionFlagModel]
}

// NewFlagStore creates a new FlagStore.
func NewFlagStore(db database.Database) FlagStore {
	return FlagStore{
		Repository: database.NewRepository[circumvention.Flag, CircumventionFlagModel](db, FlagMapper{}, "circumvention flag"),
	}
}

// Create inserts a new flag and returns it with its assigned id.
func (s FlagStore) Create(ctx context.Context, flag circumvention.Flag) (circumvention.Flag, error) {
	model := s.Mapper().ToModel(flag)
	if result := s.DB(ctx).Create(&model); result.Error != nil {
		return circumvention.Flag{}, fmt.Errorf("create flag: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}

// Resolve transitions an OPEN flag to RESOLVED exactly once. Returns false
// if the flag was already resolved.
func (s FlagStore) Resolve(ctx context.Context, id int64, resolution circumvention.Resolution, notes string, now time.Time) (bool, error) {
	result := s.DB(ctx).Model(&CircumventionFlagModel{}).
		Where("id = ? AND status = ?", id, string(circumvention.StatusOpen)).
		Updates(map[string]any{
			"status":           string(circumvention.StatusResolved),
			"resolution":       string(resolution),
			"resolution_notes": notes,
			"resolved_at":      now,
			"updated_at":       now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("resolve flag: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateEstimate changes the fee estimate on a flag that is still OPEN.
// The derived fee is recomputed; resolved flags are immutable.
func (s FlagStore) UpdateEstimate(ctx context.Context, id int64, estimatedSalary, feePercentage float64, now time.Time) (bool, error) {
	result := s.DB(ctx).Model(&CircumventionFlagModel{}).
		Where("id = ? AND status = ?", id, string(circumvention.StatusOpen)).
		Updates(map[string]any{
			"estimated_salary":   estimatedSalary,
			"fee_percentage":     feePercentage,
			"estimated_fee_owed": circumvention.EstimateFee(estimatedSalary, feePercentage),
			"updated_at":         now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("update flag estimate: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MarkInvoiceSent records the recovery invoice on a resolved flag.
func (s FlagStore) MarkInvoiceSent(ctx context.Context, id int64, amount float64, now time.Time) (bool, error) {
	result := s.DB(ctx).Model(&CircumventionFlagModel{}).
		Where("id = ? AND status = ?", id, string(circumvention.StatusResolved)).
		Updates(map[string]any{
			"invoice_sent_at": now,
			"invoice_amount":  amount,
			"updated_at":      now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("mark invoice sent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MarkInvoicePaid records payment of the recovery invoice.
func (s FlagStore) MarkInvoicePaid(ctx context.Context, id int64, now time.Time) (bool, error) {
	result := s.DB(ctx).Model(&CircumventionFlagModel{}).
		Where("id = ? AND invoice_sent_at IS NOT NULL", id).
		Updates(map[string]any{
			"invoice_paid_at": now,
			"updated_at":      now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("mark invoice paid: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ReviewNoteStore persists the append-only review trail on flags.
type ReviewNoteStore struct {
	database.Repository[circumvention.ReviewNote, ReviewNoteModel]
}

// NewReviewNoteStore creates a new ReviewNoteStore.
func NewReviewNoteStore(db database.Database) ReviewNoteStore {
	return ReviewNoteStore{
		Repository: database.NewRepository[circumvention.ReviewNote, ReviewNoteModel](db, ReviewNoteMapper{}, "review note"),
	}
}

// Append adds a note to a flag's trail. Notes are never updated or deleted.
func (s ReviewNoteStore) Append(ctx context.Context, note circumvention.ReviewNote) (circumvention.ReviewNote, error) {
	model := s.Mapper().ToModel(note)
	if result := s.DB(ctx).Create(&model); result.Error != nil {
		return circumvention.ReviewNote{}, fmt.Errorf("append review note: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}
