package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scoutline/scoutline/domain/circumvention"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
)

// FlagService manages circumvention flags through review, resolution and
// fee recovery.
type FlagService struct {
	flags persistence.FlagStore
	notes persistence.ReviewNoteStore
	cfg   config.ProtectionConfig
	log   *log.Logger
	now   Clock
}

// NewFlagService creates a FlagService.
func NewFlagService(flags persistence.FlagStore, notes persistence.ReviewNoteStore, cfg config.ProtectionConfig, logger *log.Logger) *FlagService {
	if logger == nil {
		logger = log.Default()
	}
	return &FlagService{flags: flags, notes: notes, cfg: cfg, log: logger, now: time.Now}
}

// WithClock overrides the service clock.
func (s *FlagService) WithClock(clock Clock) *FlagService {
	s.now = clock
	return s
}

// AutoFlag opens a flag from a high-risk check-in verdict. The salary
// estimate starts at zero; a reviewer sets it before resolution. Duplicate
// open flags for the same introduction are collapsed into the existing one.
func (s *FlagService) AutoFlag(ctx context.Context, introductionID, checkInID int64, evidence string) (circumvention.Flag, error) {
	existing, err := s.flags.FindOne(ctx,
		circumvention.WithIntroduction(introductionID),
		circumvention.WithStatus(circumvention.StatusOpen),
	)
	if err == nil {
		s.log.WithContext(ctx).Info("open flag already exists",
			"introduction_id", introductionID, "flag_id", existing.ID())
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return circumvention.Flag{}, err
	}
	flag := circumvention.New(introductionID, &checkInID, circumvention.DetectionCheckIn, evidence, 0, s.cfg.FeePercent(), s.now())
	created, err := s.flags.Create(ctx, flag)
	if err != nil {
		return circumvention.Flag{}, err
	}
	s.log.WithContext(ctx).Warn("circumvention flag opened",
		"introduction_id", introductionID, "check_in_id", checkInID, "flag_id", created.ID())
	return created, nil
}

// ManualFlag opens a flag raised by a reviewer, with an upfront salary
// estimate when one is known.
func (s *FlagService) ManualFlag(ctx context.Context, introductionID int64, evidence string, estimatedSalary float64, actor string) (circumvention.Flag, error) {
	if evidence == "" {
		return circumvention.Flag{}, fmt.Errorf("%w: evidence is required", domain.ErrValidation)
	}
	flag := circumvention.New(introductionID, nil, circumvention.DetectionManual, evidence, estimatedSalary, s.cfg.FeePercent(), s.now())
	created, err := s.flags.Create(ctx, flag)
	if err != nil {
		return circumvention.Flag{}, err
	}
	if actor != "" {
		if _, err := s.notes.Append(ctx, circumvention.NewReviewNote(created.ID(), actor, "flag opened manually", s.now())); err != nil {
			s.log.WithContext(ctx).Error("append review note", "flag_id", created.ID(), "error", err)
		}
	}
	return created, nil
}

// Resolve closes an open flag with one of the allowed resolutions. A flag
// resolves exactly once.
func (s *FlagService) Resolve(ctx context.Context, id int64, resolution circumvention.Resolution, notes, actor string) (circumvention.Flag, error) {
	if !resolution.Valid() {
		return circumvention.Flag{}, fmt.Errorf("%w: unknown resolution %q", domain.ErrValidation, resolution)
	}
	resolved, err := s.flags.Resolve(ctx, id, resolution, notes, s.now())
	if err != nil {
		return circumvention.Flag{}, err
	}
	if !resolved {
		if _, err := s.flags.FindOne(ctx, query.WithID(id)); err != nil {
			return circumvention.Flag{}, err
		}
		return circumvention.Flag{}, fmt.Errorf("%w: flag %d is already resolved", domain.ErrConflict, id)
	}
	if actor != "" {
		text := fmt.Sprintf("resolved as %s", resolution)
		if _, err := s.notes.Append(ctx, circumvention.NewReviewNote(id, actor, text, s.now())); err != nil {
			s.log.WithContext(ctx).Error("append review note", "flag_id", id, "error", err)
		}
	}
	return s.flags.FindOne(ctx, query.WithID(id))
}

// UpdateEstimate sets the salary estimate and fee percentage on an open
// flag, recomputing the estimated fee owed.
func (s *FlagService) UpdateEstimate(ctx context.Context, id int64, estimatedSalary, feePercentage float64) (circumvention.Flag, error) {
	if estimatedSalary < 0 || feePercentage < 0 || feePercentage > 100 {
		return circumvention.Flag{}, fmt.Errorf("%w: estimate out of range", domain.ErrValidation)
	}
	if feePercentage == 0 {
		feePercentage = s.cfg.FeePercent()
	}
	updated, err := s.flags.UpdateEstimate(ctx, id, estimatedSalary, feePercentage, s.now())
	if err != nil {
		return circumvention.Flag{}, err
	}
	if !updated {
		if _, err := s.flags.FindOne(ctx, query.WithID(id)); err != nil {
			return circumvention.Flag{}, err
		}
		return circumvention.Flag{}, fmt.Errorf("%w: flag %d is not open", domain.ErrConflict, id)
	}
	return s.flags.FindOne(ctx, query.WithID(id))
}

// SendInvoice marks the recovery invoice as sent for a confirmed flag.
func (s *FlagService) SendInvoice(ctx context.Context, id int64, amount float64) (circumvention.Flag, error) {
	flag, err := s.flags.FindOne(ctx, query.WithID(id))
	if err != nil {
		return circumvention.Flag{}, err
	}
	if !flag.Resolution().Confirmed() {
		return circumvention.Flag{}, fmt.Errorf("%w: flag %d is not a confirmed circumvention", domain.ErrConflict, id)
	}
	if amount <= 0 {
		amount = flag.EstimatedFeeOwed()
	}
	marked, err := s.flags.MarkInvoiceSent(ctx, id, amount, s.now())
	if err != nil {
		return circumvention.Flag{}, err
	}
	if !marked {
		return circumvention.Flag{}, fmt.Errorf("%w: flag %d cannot receive an invoice", domain.ErrConflict, id)
	}
	return s.flags.FindOne(ctx, query.WithID(id))
}

// ConfirmInvoicePaid records payment of a sent invoice.
func (s *FlagService) ConfirmInvoicePaid(ctx context.Context, id int64) (circumvention.Flag, error) {
	marked, err := s.flags.MarkInvoicePaid(ctx, id, s.now())
	if err != nil {
		return circumvention.Flag{}, err
	}
	if !marked {
		if _, err := s.flags.FindOne(ctx, query.WithID(id)); err != nil {
			return circumvention.Flag{}, err
		}
		return circumvention.Flag{}, fmt.Errorf("%w: no invoice was sent for flag %d", domain.ErrConflict, id)
	}
	return s.flags.FindOne(ctx, query.WithID(id))
}

// AddNote appends a free-form review note to a flag.
func (s *FlagService) AddNote(ctx context.Context, flagID int64, actor, text string) (circumvention.ReviewNote, error) {
	if text == "" {
		return circumvention.ReviewNote{}, fmt.Errorf("%w: note text is required", domain.ErrValidation)
	}
	if _, err := s.flags.FindOne(ctx, query.WithID(flagID)); err != nil {
		return circumvention.ReviewNote{}, err
	}
	return s.notes.Append(ctx, circumvention.NewReviewNote(flagID, actor, text, s.now()))
}

// Notes lists a flag's review notes, oldest first.
func (s *FlagService) Notes(ctx context.Context, flagID int64) ([]circumvention.ReviewNote, error) {
	return s.notes.Find(ctx, circumvention.WithFlag(flagID), query.OrderBy("created_at"))
}

// Get returns one flag by id.
func (s *FlagService) Get(ctx context.Context, id int64) (circumvention.Flag, error) {
	return s.flags.FindOne(ctx, query.WithID(id))
}

// List returns flags filtered by the given options.
func (s *FlagService) List(ctx context.Context, opts ...query.Option) ([]circumvention.Flag, error) {
	return s.flags.Find(ctx, opts...)
}

// Count counts flags matching the given options.
func (s *FlagService) Count(ctx context.Context, opts ...query.Option) (int64, error) {
	return s.flags.Count(ctx, opts...)
}
