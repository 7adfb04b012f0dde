package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/circumvention"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
)

func TestMaterializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.introduce(t, 1, 2)

	created, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(checkin.Schedule)), created)

	// The same day's rerun finds every row already there.
	created, _, err = f.checkins.Materialize(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)

	count, err := f.checkins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(checkin.Schedule)), count)
}

func TestMaterializeNeverBackfills(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.introduce(t, 1, 2)

	// First pass happens long after the early milestones went stale.
	f.advanceDays(100)
	created, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	rows, err := f.checkins.List(ctx)
	require.NoError(t, err)
	for _, c := range rows {
		assert.GreaterOrEqual(t, c.Number(), 4, "milestones 1-3 are in the past and must not burst stale emails")
	}
}

// haltingCheckInStore fails CreateIfAbsent for one milestone number and
// delegates everything else to the real store.
type haltingCheckInStore struct {
	persistence.CheckInStore
	failNumber int
}

func (s haltingCheckInStore) CreateIfAbsent(ctx context.Context, c checkin.CheckIn) (bool, error) {
	if c.Number() == s.failNumber {
		return false, errors.New("simulated write failure")
	}
	return s.CheckInStore.CreateIfAbsent(ctx, c)
}

func TestMaterializeSurvivesRowFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.introduce(t, 1, 2)

	cfg := config.EnvConfig{}.ToAppConfig().Protection()
	store := haltingCheckInStore{CheckInStore: f.checkinStore, failNumber: 2}
	svc := NewCheckInService(f.introStore, store, f.notifier, fakeDirectory{}, f.classifier, f.flags, cfg, "no-reply@scoutline.example", nil).WithClock(f.clock)

	created, failed, err := svc.Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(checkin.Schedule)-1), created, "the other milestones still materialize")
	assert.Equal(t, int64(1), failed)

	rows, err := f.checkins.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, len(checkin.Schedule)-1)
	for _, c := range rows {
		assert.NotEqual(t, 2, c.Number())
	}
}

func TestDispatchSendsOnlyDueAndOnlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)

	// Nothing is due before the first milestone.
	report, err := f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Sent)

	f.advanceDays(30)
	before := len(f.notifier.messages())
	report, err = f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Sent)

	msgs := f.notifier.messages()
	require.Len(t, msgs, before+1)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "candidate-2@example.com", last.To)
	assert.Contains(t, last.HTML, "Acme Corp")

	// A sent check-in never goes out again.
	report, err = f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Sent)

	rows, err := f.checkins.List(ctx, checkin.WithIntroduction(intro.ID()), checkin.WithNumber(1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Sent())
}

func TestDispatchSkipsDepartedIntroductions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)

	// The protection window lapses before any milestone is dispatched.
	f.advanceDays(370)
	expired, err := f.protection.ExpireLapsed(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), expired)

	report, err := f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Sent)
	assert.Equal(t, int64(len(checkin.Schedule)), report.Skipped)
	assert.Empty(t, f.notifier.messages()[1:], "only the introduction request email went out")
}

func TestDispatchRetriesAfterSendFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	f.advanceDays(30)

	f.notifier.setFailing(true)
	report, err := f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Failed)
	assert.Zero(t, report.Sent)

	// The row stayed unsent, so the next pass picks it up again.
	f.notifier.setFailing(false)
	report, err = f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Sent)
}

func TestRespondHighRiskOpensFlag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	f.advanceDays(30)
	tok := f.checkInToken(t, intro.ID(), 1)

	f.classifier.setVerdict(checkin.Verdict{
		Status:              checkin.StatusHiredThere,
		Company:             "Acme Corp",
		IsIntroducedCompany: true,
		Confidence:          checkin.ConfidenceHigh,
		RiskLevel:           checkin.RiskHigh,
		RiskReason:          "candidate reports starting at the introduced company",
	})

	c, err := f.checkins.Respond(ctx, tok, "I started at Acme Corp last month")
	require.NoError(t, err)
	assert.True(t, c.Responded())
	assert.True(t, c.FlaggedForReview())
	assert.Equal(t, checkin.RiskHigh, c.RiskLevel())
	assert.Equal(t, "I started at Acme Corp last month", c.ResponseRaw())

	flags, err := f.flags.List(ctx, circumvention.WithIntroduction(intro.ID()))
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, circumvention.DetectionCheckIn, flags[0].DetectionMethod())
	assert.Contains(t, flags[0].Evidence(), "hired_there")
	require.NotNil(t, flags[0].CheckInID())
	assert.Equal(t, c.ID(), *flags[0].CheckInID())
}

func TestRespondCollapsesDuplicateFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	f.classifier.setVerdict(checkin.Verdict{
		Status:              checkin.StatusHiredThere,
		IsIntroducedCompany: true,
		Confidence:          checkin.ConfidenceHigh,
		RiskLevel:           checkin.RiskHigh,
	})

	f.advanceDays(30)
	tok := f.checkInToken(t, intro.ID(), 1)
	_, err = f.checkins.Respond(ctx, tok, "I work at Acme Corp now")
	require.NoError(t, err)

	f.advanceDays(30)
	tok = f.checkInToken(t, intro.ID(), 2)
	_, err = f.checkins.Respond(ctx, tok, "still at Acme Corp")
	require.NoError(t, err)

	count, err := f.flags.Count(ctx, circumvention.WithIntroduction(intro.ID()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "a second high-risk reply joins the existing open flag")
}

func TestRespondSafeReplyDoesNotFlag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	f.advanceDays(30)
	tok := f.checkInToken(t, intro.ID(), 1)

	f.classifier.setVerdict(checkin.Verdict{
		Status:     checkin.StatusStillLooking,
		Confidence: checkin.ConfidenceHigh,
		RiskLevel:  checkin.RiskLow,
	})

	c, err := f.checkins.Respond(ctx, tok, "still applying around")
	require.NoError(t, err)
	assert.False(t, c.FlaggedForReview())

	count, err := f.flags.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRespondClassifierOutageDefaultsSafe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	f.advanceDays(30)
	tok := f.checkInToken(t, intro.ID(), 1)

	// A dead classifier yields the safe default, never CLEAR, and the
	// reply itself is still recorded.
	f.classifier.setVerdict(checkin.SafeDefault("classification service unavailable"))

	c, err := f.checkins.Respond(ctx, tok, "I got the job!")
	require.NoError(t, err)
	assert.Equal(t, checkin.RiskMedium, c.RiskLevel())
	assert.False(t, c.FlaggedForReview())
	assert.Equal(t, "I got the job!", c.ResponseRaw())
}

func TestRespondTokenReplay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	f.advanceDays(30)
	tok := f.checkInToken(t, intro.ID(), 1)
	f.classifier.setVerdict(checkin.Verdict{Status: checkin.StatusStillLooking, Confidence: checkin.ConfidenceHigh, RiskLevel: checkin.RiskLow})

	_, err = f.checkins.Respond(ctx, tok, "first answer")
	require.NoError(t, err)

	_, err = f.checkins.Respond(ctx, tok, "second answer")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.checkins.Respond(ctx, "never-issued", "answer")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, _, err := f.checkins.Materialize(ctx)
	require.NoError(t, err)
	f.advanceDays(30)
	tok := f.checkInToken(t, intro.ID(), 1)
	f.classifier.setVerdict(checkin.Verdict{Status: checkin.StatusHiredThere, IsIntroducedCompany: true, Confidence: checkin.ConfidenceHigh, RiskLevel: checkin.RiskHigh})
	c, err := f.checkins.Respond(ctx, tok, "I work there now")
	require.NoError(t, err)

	_, err = f.checkins.Review(ctx, c.ID(), "", "notes")
	assert.ErrorIs(t, err, domain.ErrValidation)

	reviewed, err := f.checkins.Review(ctx, c.ID(), "ops@scoutline.example", "confirmed, escalating to fee recovery")
	require.NoError(t, err)
	assert.Equal(t, "ops@scoutline.example", reviewed.ReviewedBy())
	assert.False(t, reviewed.ReviewedAt().IsZero())
}

func TestRunReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.introduce(t, 1, 2)
	f.advanceDays(30)

	report, err := f.checkins.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(checkin.Schedule)), report.Materialized)
	assert.Equal(t, int64(1), report.Sent, "the 30-day milestone is due the day it is materialized")

	// The same day's rerun changes nothing.
	report, err = f.checkins.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Materialized)
	assert.Zero(t, report.Sent)
}
