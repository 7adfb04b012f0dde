package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/internal/domain"
)

func TestSendExpiryWarnings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	// Park the clock so the window's end falls six-and-a-half days out.
	f.now = intro.ProtectionEndsAt().Add(-7*24*time.Hour + 12*time.Hour)
	before := len(f.notifier.messages())

	warned, err := f.protection.SendExpiryWarnings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), warned)

	msgs := f.notifier.messages()
	require.Len(t, msgs, before+1)
	digest := msgs[len(msgs)-1]
	assert.Equal(t, "ops@scoutline.example", digest.To)
	assert.Contains(t, digest.Subject, "1 introductions leave protection")
	assert.Contains(t, digest.HTML, "Candidate 2")
	assert.Contains(t, digest.HTML, "Acme Corp")

	// Tomorrow the introduction has left the one-day warning slice.
	f.advanceDays(1)
	warned, err = f.protection.SendExpiryWarnings(ctx)
	require.NoError(t, err)
	assert.Zero(t, warned)
}

func TestExpireLapsedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	// Inside the window nothing happens.
	report, err := f.protection.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Expired)

	f.now = intro.ProtectionEndsAt().AddDate(0, 0, 1)
	report, err = f.protection.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Expired)

	got, err := f.introductions.Get(ctx, intro.ID())
	require.NoError(t, err)
	assert.Equal(t, introduction.StatusExpired, got.Status())

	report, err = f.protection.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Expired)
}

func TestTriggerFinalCheckIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)
	before := len(f.notifier.messages())

	c, err := f.protection.TriggerFinalCheckIn(ctx, intro.ID())
	require.NoError(t, err)
	assert.True(t, c.Final())
	assert.Equal(t, checkin.FinalNumber, c.Number())

	// The trigger delivers the email itself rather than waiting for the
	// next timed pass.
	assert.True(t, c.Sent())
	assert.NotEmpty(t, c.ResponseToken())
	assert.False(t, c.TokenExpired(f.now))

	msgs := f.notifier.messages()
	require.Len(t, msgs, before+1)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "candidate-2@example.com", last.To)
	assert.Equal(t, "One last question about your introduction", last.Subject)
	assert.Contains(t, last.HTML, "did you end up working there")

	// Once per introduction.
	_, err = f.protection.TriggerFinalCheckIn(ctx, intro.ID())
	assert.ErrorIs(t, err, domain.ErrConflict)

	// The timed pass has nothing left to deliver.
	report, err := f.checkins.Dispatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Sent)
	assert.Len(t, f.notifier.messages(), before+1)
}

func TestTriggerFinalCheckInRequiresCompletedIntroduction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	viewed, err := f.introductions.RecordProfileView(ctx, 1, 2)
	require.NoError(t, err)

	_, err = f.protection.TriggerFinalCheckIn(ctx, viewed.ID())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFinalCheckInDispatchesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	f.now = intro.ProtectionEndsAt().AddDate(0, 0, 1)
	_, err := f.protection.ExpireLapsed(ctx)
	require.NoError(t, err)
	before := len(f.notifier.messages())

	// The expired status does not block the final question.
	c, err := f.protection.TriggerFinalCheckIn(ctx, intro.ID())
	require.NoError(t, err)
	assert.True(t, c.Sent())

	msgs := f.notifier.messages()
	require.Len(t, msgs, before+1)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "One last question about your introduction", last.Subject)
	assert.Contains(t, last.HTML, "did you end up working there")
}
