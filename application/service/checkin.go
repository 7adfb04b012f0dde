package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/directory"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/classifier"
	"github.com/scoutline/scoutline/infrastructure/notify"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
	"github.com/scoutline/scoutline/internal/token"
)

// RunReport summarizes one scheduler pass.
type RunReport struct {
	Materialized int64 `json:"materialized"`
	Sent         int64 `json:"sent"`
	Skipped      int64 `json:"skipped"`
	Failed       int64 `json:"failed"`
}

// CheckInStore is the persistence surface the scheduler and the responder
// need. persistence.CheckInStore implements it.
type CheckInStore interface {
	CreateIfAbsent(ctx context.Context, c checkin.CheckIn) (bool, error)
	DueUnsent(ctx context.Context, cutoff time.Time) ([]checkin.CheckIn, error)
	MarkSent(ctx context.Context, id int64, token string, tokenExpiry, sentAt time.Time) (bool, error)
	ClaimToken(ctx context.Context, tok string, now time.Time) (int64, bool, error)
	WasConsumed(ctx context.Context, tok string) (bool, error)
	RecordVerdict(ctx context.Context, id int64, raw string, verdict checkin.Verdict, flagged bool, now time.Time) error
	RecordReview(ctx context.Context, id int64, reviewer, notes string, now time.Time) error
	Find(ctx context.Context, options ...query.Option) ([]checkin.CheckIn, error)
	FindOne(ctx context.Context, options ...query.Option) (checkin.CheckIn, error)
	Count(ctx context.Context, options ...query.Option) (int64, error)
}

// CheckInService materializes and dispatches scheduled check-ins, and
// records candidate replies through the classifier.
type CheckInService struct {
	intros     persistence.IntroductionStore
	checkins   CheckInStore
	notifier   notify.Notifier
	directory  directory.Directory
	classifier classifier.Classifier
	flags      *FlagService
	cfg        config.ProtectionConfig
	from       string
	log        *log.Logger
	now        Clock
}

// NewCheckInService creates a CheckInService.
func NewCheckInService(
	intros persistence.IntroductionStore,
	checkins CheckInStore,
	notifier notify.Notifier,
	directory directory.Directory,
	cls classifier.Classifier,
	flags *FlagService,
	cfg config.ProtectionConfig,
	from string,
	logger *log.Logger,
) *CheckInService {
	if logger == nil {
		logger = log.Default()
	}
	return &CheckInService{
		intros:     intros,
		checkins:   checkins,
		notifier:   notifier,
		directory:  directory,
		classifier: cls,
		flags:      flags,
		cfg:        cfg,
		from:       from,
		log:        logger,
		now:        time.Now,
	}
}

// WithClock overrides the service clock.
func (s *CheckInService) WithClock(clock Clock) *CheckInService {
	s.now = clock
	return s
}

// Run executes one scheduler pass: materialize missing milestone rows,
// then dispatch everything due. The pass is idempotent; running it twice
// on the same day changes nothing the second time.
func (s *CheckInService) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{}
	materialized, failed, err := s.Materialize(ctx)
	if err != nil {
		return report, err
	}
	report.Materialized = materialized
	report.Failed = failed

	dispatch, err := s.Dispatch(ctx)
	if err != nil {
		return report, err
	}
	report.Sent = dispatch.Sent
	report.Skipped = dispatch.Skipped
	report.Failed += dispatch.Failed
	return report, nil
}

// Materialize creates milestone check-in rows for every INTRODUCED
// introduction. Only rows scheduled for today or later are created:
// milestones that already passed before the introduction was recorded are
// never backfilled, so a late import does not burst stale emails. One row
// failing to insert is logged and counted; the rest of the scan goes on.
func (s *CheckInService) Materialize(ctx context.Context) (created, failed int64, err error) {
	intros, err := s.intros.Find(ctx, introduction.WithStatus(introduction.StatusIntroduced))
	if err != nil {
		return 0, 0, err
	}
	now := s.now()
	today := startOfDay(now)
	for _, intro := range intros {
		for _, m := range checkin.Schedule {
			scheduledFor := startOfDay(intro.IntroducedAt().AddDate(0, 0, m.OffsetDays))
			if scheduledFor.Before(today) {
				continue
			}
			ok, err := s.checkins.CreateIfAbsent(ctx, checkin.New(intro.ID(), m.Number, scheduledFor, now))
			if err != nil {
				failed++
				s.log.WithContext(ctx).Error("materialize check-in",
					"introduction_id", intro.ID(), "number", m.Number, "error", err)
				continue
			}
			if ok {
				created++
			}
		}
	}
	return created, failed, nil
}

// Dispatch sends every due, unsent check-in. Sends run in parallel up to
// the configured width; one failing row is logged and left unsent for the
// next pass rather than aborting the batch.
func (s *CheckInService) Dispatch(ctx context.Context) (RunReport, error) {
	now := s.now()
	due, err := s.checkins.DueUnsent(ctx, endOfDay(now))
	if err != nil {
		return RunReport{}, err
	}

	var sent, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.DispatchParallelism()))
	for _, c := range due {
		c := c
		g.Go(func() error {
			switch err := s.dispatchOne(gctx, c, now); {
			case err == nil:
				sent.Add(1)
			case errors.Is(err, errSkipDispatch):
				skipped.Add(1)
			default:
				failed.Add(1)
				s.log.WithContext(gctx).Error("check-in dispatch failed",
					"check_in_id", c.ID(), "introduction_id", c.IntroductionID(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return RunReport{Sent: sent.Load(), Skipped: skipped.Load(), Failed: failed.Load()}, nil
}

// errSkipDispatch marks rows whose parent left the INTRODUCED state.
var errSkipDispatch = errors.New("dispatch skipped")

func (s *CheckInService) dispatchOne(ctx context.Context, c checkin.CheckIn, now time.Time) error {
	intro, err := s.intros.FindOne(ctx, query.WithID(c.IntroductionID()))
	if err != nil {
		return err
	}
	// Milestone check-ins stop when the introduction leaves INTRODUCED;
	// the final yes/no check-in still goes out after expiry.
	switch {
	case intro.Status() == introduction.StatusIntroduced:
	case c.Final() && intro.Status() == introduction.StatusExpired:
	default:
		return errSkipDispatch
	}

	candidate, err := s.directory.Candidate(ctx, intro.CandidateID())
	if err != nil {
		return fmt.Errorf("resolve candidate %d: %w", intro.CandidateID(), err)
	}
	employer, err := s.directory.Employer(ctx, intro.EmployerID())
	if err != nil {
		return fmt.Errorf("resolve employer %d: %w", intro.EmployerID(), err)
	}

	tok, expiry := token.Issue(now, s.cfg.CheckInTokenDays())
	responseURL := fmt.Sprintf("%s/api/v1/checkins/respond?token=%s", s.cfg.PublicURL(), tok)

	var html, subject string
	if c.Final() {
		subject = "One last question about your introduction"
		html, err = notify.Render("final_checkin", notify.FinalCheckInData{
			CandidateName: candidate.Name,
			CompanyName:   employer.Company,
			ResponseURL:   responseURL,
		})
	} else {
		subject = "Quick check-in on your search"
		html, err = notify.Render("checkin", notify.CheckInData{
			CandidateName: candidate.Name,
			CompanyName:   employer.Company,
			Number:        c.Number(),
			ResponseURL:   responseURL,
		})
	}
	if err != nil {
		return err
	}

	err = s.notifier.Send(ctx, notify.Message{
		To:      candidate.Email,
		From:    s.from,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		// Not marked sent; the next pass retries with a fresh token.
		return err
	}

	marked, err := s.checkins.MarkSent(ctx, c.ID(), tok, expiry, now)
	if err != nil {
		return err
	}
	if !marked {
		// A concurrent pass beat us to it; the candidate got two emails
		// but only one token is live.
		return errSkipDispatch
	}
	return nil
}

// Respond consumes a check-in response token, classifies the reply and
// records the verdict. High-risk verdicts open a circumvention flag.
func (s *CheckInService) Respond(ctx context.Context, tok, reply string) (checkin.CheckIn, error) {
	now := s.now()
	c, err := s.checkins.FindOne(ctx, checkin.WithToken(tok))
	if err != nil {
		return checkin.CheckIn{}, s.tokenLookupError(ctx, tok, err)
	}
	if c.TokenExpired(now) {
		return checkin.CheckIn{}, fmt.Errorf("%w: response link has expired", domain.ErrValidation)
	}

	id, claimed, err := s.checkins.ClaimToken(ctx, tok, now)
	if err != nil {
		return checkin.CheckIn{}, err
	}
	if !claimed {
		return checkin.CheckIn{}, fmt.Errorf("%w: this link was already used", domain.ErrConflict)
	}

	company := s.introducedCompany(ctx, c.IntroductionID())
	verdict := s.classifier.Classify(ctx, reply, company)
	flagged := verdict.RiskLevel == checkin.RiskHigh

	if err := s.checkins.RecordVerdict(ctx, id, reply, verdict, flagged, now); err != nil {
		return checkin.CheckIn{}, err
	}
	if flagged && s.flags != nil {
		evidence, _ := json.Marshal(verdict)
		if _, err := s.flags.AutoFlag(ctx, c.IntroductionID(), id, string(evidence)); err != nil {
			s.log.WithContext(ctx).Error("open circumvention flag",
				"check_in_id", id, "introduction_id", c.IntroductionID(), "error", err)
		}
	}
	return s.checkins.FindOne(ctx, query.WithID(id))
}

// Review records a human reviewer's pass over a flagged check-in.
func (s *CheckInService) Review(ctx context.Context, id int64, reviewer, notes string) (checkin.CheckIn, error) {
	if reviewer == "" {
		return checkin.CheckIn{}, fmt.Errorf("%w: reviewer is required", domain.ErrValidation)
	}
	if _, err := s.checkins.FindOne(ctx, query.WithID(id)); err != nil {
		return checkin.CheckIn{}, err
	}
	if err := s.checkins.RecordReview(ctx, id, reviewer, notes, s.now()); err != nil {
		return checkin.CheckIn{}, err
	}
	return s.checkins.FindOne(ctx, query.WithID(id))
}

// Get returns one check-in by id.
func (s *CheckInService) Get(ctx context.Context, id int64) (checkin.CheckIn, error) {
	return s.checkins.FindOne(ctx, query.WithID(id))
}

// List returns check-ins filtered by the given options.
func (s *CheckInService) List(ctx context.Context, opts ...query.Option) ([]checkin.CheckIn, error) {
	return s.checkins.Find(ctx, opts...)
}

// Count counts check-ins matching the given options.
func (s *CheckInService) Count(ctx context.Context, opts ...query.Option) (int64, error) {
	return s.checkins.Count(ctx, opts...)
}

// introducedCompany resolves the employer's company name for attribution
// matching. Resolution failures degrade to an empty name rather than
// blocking the response.
func (s *CheckInService) introducedCompany(ctx context.Context, introductionID int64) string {
	intro, err := s.intros.FindOne(ctx, query.WithID(introductionID))
	if err != nil {
		s.log.WithContext(ctx).Error("load introduction for attribution", "introduction_id", introductionID, "error", err)
		return ""
	}
	employer, err := s.directory.Employer(ctx, intro.EmployerID())
	if err != nil {
		s.log.WithContext(ctx).Error("resolve employer for attribution", "employer_id", intro.EmployerID(), "error", err)
		return ""
	}
	return employer.Company
}

func (s *CheckInService) tokenLookupError(ctx context.Context, tok string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	consumed, cErr := s.checkins.WasConsumed(ctx, tok)
	if cErr == nil && consumed {
		return fmt.Errorf("%w: this link was already used", domain.ErrConflict)
	}
	return fmt.Errorf("%w: unknown response link", domain.ErrNotFound)
}
