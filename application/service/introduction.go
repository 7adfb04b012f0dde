package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scoutline/scoutline/domain/directory"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/notify"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
	"github.com/scoutline/scoutline/internal/token"
)

// IntroductionService drives the introduction lifecycle from first profile
// view through the candidate's response.
type IntroductionService struct {
	intros     persistence.IntroductionStore
	notifier   notify.Notifier
	directory  directory.Directory
	agreements AgreementChecker
	cfg        config.ProtectionConfig
	from       string
	log        *log.Logger
	now        Clock
}

// NewIntroductionService creates an IntroductionService.
func NewIntroductionService(
	intros persistence.IntroductionStore,
	notifier notify.Notifier,
	directory directory.Directory,
	agreements AgreementChecker,
	cfg config.ProtectionConfig,
	from string,
	logger *log.Logger,
) *IntroductionService {
	if logger == nil {
		logger = log.Default()
	}
	if agreements == nil {
		agreements = OpenAgreements{}
	}
	return &IntroductionService{
		intros:     intros,
		notifier:   notifier,
		directory:  directory,
		agreements: agreements,
		cfg:        cfg,
		from:       from,
		log:        logger,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Tests use it to pin the day.
func (s *IntroductionService) WithClock(clock Clock) *IntroductionService {
	s.now = clock
	return s
}

// RecordProfileView records that an employer viewed a candidate's profile.
// The first view creates the introduction row; later views only bump the
// counter and never reset lifecycle state.
func (s *IntroductionService) RecordProfileView(ctx context.Context, employerID, candidateID int64) (introduction.Introduction, error) {
	if employerID <= 0 || candidateID <= 0 {
		return introduction.Introduction{}, fmt.Errorf("%w: employer and candidate ids are required", domain.ErrValidation)
	}
	now := s.now()
	created, err := s.intros.Create(ctx, introduction.New(employerID, candidateID, now, s.cfg.ProtectionMonths()))
	if err != nil {
		return introduction.Introduction{}, err
	}
	if !created {
		if _, err := s.intros.IncrementCounter(ctx, employerID, candidateID, persistence.CounterProfileViews, now); err != nil {
			return introduction.Introduction{}, err
		}
	}
	return s.intros.FindOne(ctx, introduction.WithPair(employerID, candidateID))
}

// RecordResumeDownload bumps the resume download counter. The pair must
// already have an introduction row from a profile view.
func (s *IntroductionService) RecordResumeDownload(ctx context.Context, employerID, candidateID int64) (introduction.Introduction, error) {
	updated, err := s.intros.IncrementCounter(ctx, employerID, candidateID, persistence.CounterResumeDownloads, s.now())
	if err != nil {
		return introduction.Introduction{}, err
	}
	if !updated {
		return introduction.Introduction{}, fmt.Errorf("%w: no introduction for employer %d and candidate %d", domain.ErrNotFound, employerID, candidateID)
	}
	return s.intros.FindOne(ctx, introduction.WithPair(employerID, candidateID))
}

// RequestIntroduction moves the pair to INTRO_REQUESTED, issues a response
// token and emails the candidate. It fails with a conflict when a request
// is already pending or the introduction is past the point of requesting.
func (s *IntroductionService) RequestIntroduction(ctx context.Context, employerID, candidateID int64, jobID *int64, jobTitle string) (introduction.Introduction, error) {
	ok, err := s.agreements.HasActiveAgreement(ctx, employerID)
	if err != nil {
		return introduction.Introduction{}, fmt.Errorf("%w: agreement check: %v", domain.ErrDependency, err)
	}
	if !ok {
		return introduction.Introduction{}, fmt.Errorf("%w: employer %d has no active service agreement", domain.ErrValidation, employerID)
	}

	intro, err := s.intros.FindOne(ctx, introduction.WithPair(employerID, candidateID))
	if err != nil {
		return introduction.Introduction{}, err
	}

	// Contacts are resolved before the state transition so a directory
	// outage leaves the row untouched and the employer can simply retry.
	candidate, err := s.directory.Candidate(ctx, candidateID)
	if err != nil {
		return introduction.Introduction{}, fmt.Errorf("%w: resolve candidate %d: %v", domain.ErrDependency, candidateID, err)
	}
	employer, err := s.directory.Employer(ctx, employerID)
	if err != nil {
		return introduction.Introduction{}, fmt.Errorf("%w: resolve employer %d: %v", domain.ErrDependency, employerID, err)
	}

	now := s.now()
	tok, expiry := token.Issue(now, s.cfg.IntroTokenDays())
	moved, err := s.intros.BeginRequest(ctx, intro.ID(), jobID, tok, expiry, now)
	if err != nil {
		return introduction.Introduction{}, err
	}
	if !moved {
		if intro.RequestPending() {
			return introduction.Introduction{}, fmt.Errorf("%w: introduction request already pending", domain.ErrConflict)
		}
		return introduction.Introduction{}, fmt.Errorf("%w: introduction is %s", domain.ErrConflict, intro.Status())
	}

	html, err := notify.Render("intro_request", notify.IntroRequestData{
		CandidateName: candidate.Name,
		EmployerName:  employer.Company,
		JobTitle:      jobTitle,
		ResponseURL:   fmt.Sprintf("%s/api/v1/introductions/respond?token=%s", s.cfg.PublicURL(), tok),
		ExpiresAt:     expiry,
	})
	if err != nil {
		return introduction.Introduction{}, err
	}
	err = s.notifier.Send(ctx, notify.Message{
		To:      candidate.Email,
		From:    s.from,
		Subject: fmt.Sprintf("%s would like an introduction", employer.Company),
		HTML:    html,
	})
	if err != nil {
		// The request stands; the token link can be resent by support.
		s.log.WithContext(ctx).Error("introduction request email failed",
			"introduction_id", intro.ID(), "error", err)
	}
	return s.intros.FindOne(ctx, query.WithID(intro.ID()))
}

// RespondToIntroduction consumes a response token and records the
// candidate's decision. Each token works exactly once.
func (s *IntroductionService) RespondToIntroduction(ctx context.Context, tok string, response introduction.Response, message string) (introduction.Introduction, error) {
	if !response.Valid() {
		return introduction.Introduction{}, fmt.Errorf("%w: unknown response %q", domain.ErrValidation, response)
	}
	if response == introduction.ResponseQuestions && message == "" {
		return introduction.Introduction{}, fmt.Errorf("%w: a message is required when asking questions", domain.ErrValidation)
	}

	now := s.now()
	intro, err := s.intros.FindOne(ctx, introduction.WithToken(tok))
	if err != nil {
		return introduction.Introduction{}, s.tokenLookupError(ctx, tok, err)
	}
	if intro.TokenExpired(now) {
		return introduction.Introduction{}, fmt.Errorf("%w: response link has expired", domain.ErrValidation)
	}

	id, claimed, err := s.intros.ClaimToken(ctx, tok, now)
	if err != nil {
		return introduction.Introduction{}, err
	}
	if !claimed {
		return introduction.Introduction{}, fmt.Errorf("%w: this link was already used", domain.ErrConflict)
	}

	newStatus := introduction.Status("")
	switch response {
	case introduction.ResponseAccepted:
		newStatus = introduction.StatusIntroduced
	case introduction.ResponseDeclined:
		newStatus = introduction.StatusCandidateDeclined
	}
	if err := s.intros.RecordResponse(ctx, id, response, message, newStatus, now); err != nil {
		return introduction.Introduction{}, err
	}

	out, err := s.intros.FindOne(ctx, query.WithID(id))
	if err != nil {
		return introduction.Introduction{}, err
	}
	if response == introduction.ResponseQuestions {
		s.escalateQuestions(ctx, out, message)
	}
	return out, nil
}

// Get returns one introduction by id.
func (s *IntroductionService) Get(ctx context.Context, id int64) (introduction.Introduction, error) {
	return s.intros.FindOne(ctx, query.WithID(id))
}

// List returns introductions filtered by the given options.
func (s *IntroductionService) List(ctx context.Context, opts ...query.Option) ([]introduction.Introduction, error) {
	return s.intros.Find(ctx, opts...)
}

// Count counts introductions matching the given options.
func (s *IntroductionService) Count(ctx context.Context, opts ...query.Option) (int64, error) {
	return s.intros.Count(ctx, opts...)
}

// tokenLookupError turns a failed token lookup into the right error: a
// consumed token is a conflict, an unknown one is not found.
func (s *IntroductionService) tokenLookupError(ctx context.Context, tok string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	consumed, cErr := s.intros.WasConsumed(ctx, tok)
	if cErr == nil && consumed {
		return fmt.Errorf("%w: this link was already used", domain.ErrConflict)
	}
	return fmt.Errorf("%w: unknown response link", domain.ErrNotFound)
}

// escalateQuestions forwards a candidate's questions to the admin inbox.
// Best effort; the response itself has already been recorded.
func (s *IntroductionService) escalateQuestions(ctx context.Context, intro introduction.Introduction, message string) {
	if s.cfg.AdminEmail() == "" {
		return
	}
	html, err := notify.Render("escalation", notify.EscalationData{
		CandidateID: intro.CandidateID(),
		EmployerID:  intro.EmployerID(),
		Message:     message,
	})
	if err != nil {
		s.log.WithContext(ctx).Error("render escalation email", "error", err)
		return
	}
	err = s.notifier.Send(ctx, notify.Message{
		To:      s.cfg.AdminEmail(),
		From:    s.from,
		Subject: "Candidate has questions about an introduction",
		HTML:    html,
	})
	if err != nil {
		s.log.WithContext(ctx).Error("escalation email failed",
			"introduction_id", intro.ID(), "error", err)
	}
}
