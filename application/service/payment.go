package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scoutline/scoutline/domain/placement"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/notify"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
)

// PaymentService tracks placement fees: recording placements, confirming
// the two payment legs and chasing overdue ones.
type PaymentService struct {
	placements persistence.PlacementStore
	notifier   notify.Notifier
	cfg        config.ProtectionConfig
	from       string
	log        *log.Logger
	now        Clock
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(placements persistence.PlacementStore, notifier notify.Notifier, cfg config.ProtectionConfig, from string, logger *log.Logger) *PaymentService {
	if logger == nil {
		logger = log.Default()
	}
	return &PaymentService{
		placements: placements,
		notifier:   notifier,
		cfg:        cfg,
		from:       from,
		log:        logger,
		now:        time.Now,
	}
}

// WithClock overrides the service clock.
func (s *PaymentService) WithClock(clock Clock) *PaymentService {
	s.now = clock
	return s
}

// RecordPlacement opens the payment ledger for a confirmed hire. One
// placement per introduction.
func (s *PaymentService) RecordPlacement(ctx context.Context, introductionID int64, employerEmail, candidateName string, startDate time.Time, salary float64) (placement.Placement, error) {
	if employerEmail == "" || candidateName == "" {
		return placement.Placement{}, fmt.Errorf("%w: employer email and candidate name are required", domain.ErrValidation)
	}
	if salary <= 0 {
		return placement.Placement{}, fmt.Errorf("%w: salary must be positive", domain.ErrValidation)
	}
	if _, err := s.placements.FindOne(ctx, placement.WithIntroduction(introductionID)); err == nil {
		return placement.Placement{}, fmt.Errorf("%w: introduction %d already has a placement", domain.ErrConflict, introductionID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return placement.Placement{}, err
	}

	fee := salary * s.cfg.FeePercent() / 100
	upfront := fee / 2
	return s.placements.Create(ctx, placement.New(
		introductionID, employerEmail, candidateName, startDate, salary, upfront, fee-upfront, s.now(),
	))
}

// ConfirmUpfront records receipt of the upfront half of the fee.
func (s *PaymentService) ConfirmUpfront(ctx context.Context, id int64) (placement.Placement, error) {
	confirmed, err := s.placements.ConfirmUpfront(ctx, id, s.now())
	if err != nil {
		return placement.Placement{}, err
	}
	if !confirmed {
		if _, err := s.placements.FindOne(ctx, query.WithID(id)); err != nil {
			return placement.Placement{}, err
		}
		return placement.Placement{}, fmt.Errorf("%w: upfront payment already confirmed for placement %d", domain.ErrConflict, id)
	}
	return s.placements.FindOne(ctx, query.WithID(id))
}

// ConfirmRemaining records receipt of the remaining fee. The upfront half
// must already be paid.
func (s *PaymentService) ConfirmRemaining(ctx context.Context, id int64) (placement.Placement, error) {
	confirmed, err := s.placements.ConfirmRemaining(ctx, id, s.now())
	if err != nil {
		return placement.Placement{}, err
	}
	if !confirmed {
		p, err := s.placements.FindOne(ctx, query.WithID(id))
		if err != nil {
			return placement.Placement{}, err
		}
		if !p.UpfrontPaid() {
			return placement.Placement{}, fmt.Errorf("%w: upfront payment must be confirmed first for placement %d", domain.ErrConflict, id)
		}
		return placement.Placement{}, fmt.Errorf("%w: placement %d is already fully paid", domain.ErrConflict, id)
	}
	return s.placements.FindOne(ctx, query.WithID(id))
}

// SendReminders emails employers with overdue payments, at most one
// reminder per placement per cooldown period. Returns the number sent.
func (s *PaymentService) SendReminders(ctx context.Context) (int64, error) {
	now := s.now()
	unpaid, err := s.placements.Find(ctx, placement.Unpaid())
	if err != nil {
		return 0, err
	}
	var sent int64
	for _, p := range unpaid {
		part, amount := s.overduePart(p, now)
		if part == "" || !p.ReminderDue(now, s.cfg.ReminderCooldownDays()) {
			continue
		}
		html, err := notify.Render("payment_reminder", notify.PaymentReminderData{
			EmployerName:  p.EmployerEmail(),
			CandidateName: p.CandidateName(),
			Part:          part,
			Amount:        amount,
		})
		if err != nil {
			return sent, err
		}
		err = s.notifier.Send(ctx, notify.Message{
			To:      p.EmployerEmail(),
			From:    s.from,
			Subject: fmt.Sprintf("Overdue placement fee for %s", p.CandidateName()),
			HTML:    html,
		})
		if err != nil {
			s.log.WithContext(ctx).Error("payment reminder failed", "placement_id", p.ID(), "error", err)
			continue
		}
		if err := s.placements.TouchReminder(ctx, p.ID(), now); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// Get returns one placement by id.
func (s *PaymentService) Get(ctx context.Context, id int64) (placement.Placement, error) {
	return s.placements.FindOne(ctx, query.WithID(id))
}

// List returns placements filtered by the given options.
func (s *PaymentService) List(ctx context.Context, opts ...query.Option) ([]placement.Placement, error) {
	return s.placements.Find(ctx, opts...)
}

// Count counts placements matching the given options.
func (s *PaymentService) Count(ctx context.Context, opts ...query.Option) (int64, error) {
	return s.placements.Count(ctx, opts...)
}

// overduePart names the overdue payment leg, or "" when nothing is due.
func (s *PaymentService) overduePart(p placement.Placement, now time.Time) (string, float64) {
	if p.UpfrontOverdue(now) {
		return "upfront", p.UpfrontAmount()
	}
	if p.RemainingOverdue(now, s.cfg.RemainingDueDays()) {
		return "remaining", p.RemainingAmount()
	}
	return "", 0
}
