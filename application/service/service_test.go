package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/directory"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/infrastructure/notify"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/database"
)

// fakeNotifier records outbound messages and can simulate gateway outages.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	fail bool
}

func (f *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("notification gateway unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeNotifier) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Message, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeNotifier) setFailing(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

// fakeDirectory resolves deterministic contacts. Every employer is
// "Acme Corp" so attribution tests have a known company name.
type fakeDirectory struct {
	fail bool
}

func (d fakeDirectory) Candidate(_ context.Context, id int64) (directory.Contact, error) {
	if d.fail {
		return directory.Contact{}, errors.New("directory unavailable")
	}
	return directory.Contact{
		Name:  fmt.Sprintf("Candidate %d", id),
		Email: fmt.Sprintf("candidate-%d@example.com", id),
	}, nil
}

func (d fakeDirectory) Employer(_ context.Context, id int64) (directory.Contact, error) {
	if d.fail {
		return directory.Contact{}, errors.New("directory unavailable")
	}
	return directory.Contact{
		Name:    fmt.Sprintf("Employer %d", id),
		Email:   fmt.Sprintf("employer-%d@example.com", id),
		Company: "Acme Corp",
	}, nil
}

// fakeClassifier returns whatever verdict the test pinned.
type fakeClassifier struct {
	mu      sync.Mutex
	verdict checkin.Verdict
}

func (c *fakeClassifier) Classify(context.Context, string, string) checkin.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verdict
}

func (c *fakeClassifier) setVerdict(v checkin.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdict = v
}

// denyAgreements refuses every employer.
type denyAgreements struct{}

func (denyAgreements) HasActiveAgreement(context.Context, int64) (bool, error) {
	return false, nil
}

// fixture wires every service against one in-memory database with a
// movable clock.
type fixture struct {
	now          time.Time
	clock        Clock
	notifier     *fakeNotifier
	classifier   *fakeClassifier
	introStore   persistence.IntroductionStore
	checkinStore persistence.CheckInStore

	introductions *IntroductionService
	checkins      *CheckInService
	protection    *ProtectionService
	flags         *FlagService
	payments      *PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.EnvConfig{
		AdminEmail:          "ops@scoutline.example",
		PublicURL:           "http://localhost:8080",
		DispatchParallelism: 2,
	}.ToAppConfig().Protection()

	f := &fixture{
		now:          time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		notifier:     &fakeNotifier{},
		classifier:   &fakeClassifier{},
		introStore:   persistence.NewIntroductionStore(db),
		checkinStore: persistence.NewCheckInStore(db),
	}
	f.clock = func() time.Time { return f.now }
	clock := f.clock

	flagStore := persistence.NewFlagStore(db)
	noteStore := persistence.NewReviewNoteStore(db)
	placementStore := persistence.NewPlacementStore(db)
	dir := fakeDirectory{}
	from := "no-reply@scoutline.example"

	f.flags = NewFlagService(flagStore, noteStore, cfg, nil).WithClock(clock)
	f.introductions = NewIntroductionService(f.introStore, f.notifier, dir, nil, cfg, from, nil).WithClock(clock)
	f.checkins = NewCheckInService(f.introStore, f.checkinStore, f.notifier, dir, f.classifier, f.flags, cfg, from, nil).WithClock(clock)
	f.protection = NewProtectionService(f.introStore, f.checkinStore, f.notifier, dir, f.checkins, cfg, from, nil).WithClock(clock)
	f.payments = NewPaymentService(placementStore, f.notifier, cfg, from, nil).WithClock(clock)
	return f
}

// advance moves the fixture clock forward.
func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

// advanceDays moves the fixture clock forward by whole days.
func (f *fixture) advanceDays(days int) { f.now = f.now.AddDate(0, 0, days) }

// introduce walks one pair through view, request and acceptance, returning
// the INTRODUCED introduction.
func (f *fixture) introduce(t *testing.T, employerID, candidateID int64) introduction.Introduction {
	t.Helper()
	ctx := context.Background()

	_, err := f.introductions.RecordProfileView(ctx, employerID, candidateID)
	require.NoError(t, err)
	requested, err := f.introductions.RequestIntroduction(ctx, employerID, candidateID, nil, "")
	require.NoError(t, err)
	intro, err := f.introductions.RespondToIntroduction(ctx, requested.ResponseToken(), introduction.ResponseAccepted, "")
	require.NoError(t, err)
	require.Equal(t, introduction.StatusIntroduced, intro.Status())
	return intro
}

// checkInToken dispatches due check-ins and returns the live token of the
// given milestone for the introduction.
func (f *fixture) checkInToken(t *testing.T, introductionID int64, number int) string {
	t.Helper()
	ctx := context.Background()

	_, err := f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	c, err := f.checkins.List(ctx, checkin.WithIntroduction(introductionID), checkin.WithNumber(number))
	require.NoError(t, err)
	require.Len(t, c, 1)
	require.NotEmpty(t, c[0].ResponseToken())
	return c[0].ResponseToken()
}
