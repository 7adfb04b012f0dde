package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/directory"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/notify"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
)

// ProtectionReport summarizes one protection pass.
type ProtectionReport struct {
	Warned  int64 `json:"warned"`
	Expired int64 `json:"expired"`
}

// ProtectionService watches protection windows: it warns the admin ahead
// of expiry, expires lapsed introductions and triggers the final check-in.
type ProtectionService struct {
	intros    persistence.IntroductionStore
	checkins  CheckInStore
	notifier  notify.Notifier
	directory directory.Directory
	dispatch  *CheckInService
	cfg       config.ProtectionConfig
	from      string
	log       *log.Logger
	now       Clock
}

// NewProtectionService creates a ProtectionService. The dispatch service
// delivers the final check-in email at trigger time; without one the row is
// left for the next timed pass.
func NewProtectionService(
	intros persistence.IntroductionStore,
	checkins CheckInStore,
	notifier notify.Notifier,
	directory directory.Directory,
	dispatch *CheckInService,
	cfg config.ProtectionConfig,
	from string,
	logger *log.Logger,
) *ProtectionService {
	if logger == nil {
		logger = log.Default()
	}
	return &ProtectionService{
		intros:    intros,
		checkins:  checkins,
		notifier:  notifier,
		directory: directory,
		dispatch:  dispatch,
		cfg:       cfg,
		from:      from,
		log:       logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock.
func (s *ProtectionService) WithClock(clock Clock) *ProtectionService {
	s.now = clock
	return s
}

// Run executes one protection pass: warn, then expire.
func (s *ProtectionService) Run(ctx context.Context) (ProtectionReport, error) {
	warned, err := s.SendExpiryWarnings(ctx)
	if err != nil {
		return ProtectionReport{}, err
	}
	expired, err := s.ExpireLapsed(ctx)
	if err != nil {
		return ProtectionReport{Warned: warned}, err
	}
	return ProtectionReport{Warned: warned, Expired: expired}, nil
}

// SendExpiryWarnings emails the admin one digest of every INTRODUCED
// introduction whose protection window ends six to seven days out. The
// one-day slice keeps a daily pass from warning about the same row twice.
func (s *ProtectionService) SendExpiryWarnings(ctx context.Context) (int64, error) {
	if s.cfg.AdminEmail() == "" {
		return 0, nil
	}
	now := s.now()
	ending, err := s.intros.Find(ctx,
		introduction.WithStatus(introduction.StatusIntroduced),
		introduction.WithProtectionEndingBetween(now.AddDate(0, 0, 6), now.AddDate(0, 0, 7)),
	)
	if err != nil {
		return 0, err
	}
	if len(ending) == 0 {
		return 0, nil
	}

	entries := make([]notify.ExpiryWarningEntry, 0, len(ending))
	for _, intro := range ending {
		entry := notify.ExpiryWarningEntry{
			CandidateName: fmt.Sprintf("candidate %d", intro.CandidateID()),
			EmployerName:  fmt.Sprintf("employer %d", intro.EmployerID()),
			EndsAt:        intro.ProtectionEndsAt(),
			LastCheckIn:   s.lastCheckInSummary(ctx, intro.ID()),
		}
		if c, err := s.directory.Candidate(ctx, intro.CandidateID()); err == nil {
			entry.CandidateName = c.Name
		}
		if e, err := s.directory.Employer(ctx, intro.EmployerID()); err == nil {
			entry.EmployerName = e.Company
		}
		entries = append(entries, entry)
	}

	html, err := notify.Render("expiry_digest", notify.ExpiryDigestData{Entries: entries})
	if err != nil {
		return 0, err
	}
	err = s.notifier.Send(ctx, notify.Message{
		To:      s.cfg.AdminEmail(),
		From:    s.from,
		Subject: fmt.Sprintf("%d introductions leave protection within a week", len(entries)),
		HTML:    html,
	})
	if err != nil {
		return 0, fmt.Errorf("send expiry digest: %w", err)
	}
	return int64(len(entries)), nil
}

// ExpireLapsed moves every INTRODUCED introduction past its protection
// window to EXPIRED. Rerunning is a no-op.
func (s *ProtectionService) ExpireLapsed(ctx context.Context) (int64, error) {
	expired, err := s.intros.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.log.WithContext(ctx).Info("expired lapsed protection windows", "count", expired)
	}
	return expired, nil
}

// TriggerFinalCheckIn issues the end-of-protection yes/no check-in for one
// introduction: the row is created, a fresh token issued and the email sent
// right away rather than waiting for the timed pass. It may be triggered
// once per introduction.
func (s *ProtectionService) TriggerFinalCheckIn(ctx context.Context, introductionID int64) (checkin.CheckIn, error) {
	intro, err := s.intros.FindOne(ctx, query.WithID(introductionID))
	if err != nil {
		return checkin.CheckIn{}, err
	}
	if intro.Status() != introduction.StatusIntroduced && intro.Status() != introduction.StatusExpired {
		return checkin.CheckIn{}, fmt.Errorf("%w: introduction %d was never completed", domain.ErrConflict, introductionID)
	}

	now := s.now()
	created, err := s.checkins.CreateIfAbsent(ctx, checkin.New(introductionID, checkin.FinalNumber, startOfDay(now), now))
	if err != nil {
		return checkin.CheckIn{}, err
	}
	if !created {
		return checkin.CheckIn{}, fmt.Errorf("%w: final check-in already exists for introduction %d", domain.ErrConflict, introductionID)
	}

	c, err := s.checkins.FindOne(ctx,
		checkin.WithIntroduction(introductionID),
		checkin.WithNumber(checkin.FinalNumber),
	)
	if err != nil {
		return checkin.CheckIn{}, err
	}
	if s.dispatch != nil {
		if err := s.dispatch.dispatchOne(ctx, c, now); err != nil && !errors.Is(err, errSkipDispatch) {
			// Row stays unsent; the timed pass retries delivery.
			s.log.WithContext(ctx).Error("final check-in dispatch failed",
				"check_in_id", c.ID(), "introduction_id", introductionID, "error", err)
			return c, nil
		}
		return s.checkins.FindOne(ctx, query.WithID(c.ID()))
	}
	return c, nil
}

// lastCheckInSummary returns the newest responded check-in summary for the
// digest, or "" when the candidate never replied.
func (s *ProtectionService) lastCheckInSummary(ctx context.Context, introductionID int64) string {
	rows, err := s.checkins.Find(ctx,
		checkin.WithIntroduction(introductionID),
		query.OrderByDesc("responded_at"),
		query.WithLimit(1),
	)
	if err != nil || len(rows) == 0 || !rows[0].Responded() {
		return ""
	}
	if v := rows[0].Verdict(); v != nil && v.Summary != "" {
		return v.Summary
	}
	return string(rows[0].RiskLevel())
}
