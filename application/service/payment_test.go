package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/scoutline/domain/placement"
	"github.com/scoutline/scoutline/internal/domain"
)

func TestRecordPlacementSplitsFee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)
	start := f.now.AddDate(0, 1, 0)

	_, err := f.payments.RecordPlacement(ctx, intro.ID(), "", "Dana Smith", start, 120000)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.payments.RecordPlacement(ctx, intro.ID(), "hiring@acme.example", "Dana Smith", start, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	p, err := f.payments.RecordPlacement(ctx, intro.ID(), "hiring@acme.example", "Dana Smith", start, 120000)
	require.NoError(t, err)

	// 20% fee, half upfront and half on the balance.
	assert.InDelta(t, 12000, p.UpfrontAmount(), 0.001)
	assert.InDelta(t, 12000, p.RemainingAmount(), 0.001)
	assert.Equal(t, placement.PaymentPending, p.PaymentStatus())

	// One placement per introduction.
	_, err = f.payments.RecordPlacement(ctx, intro.ID(), "hiring@acme.example", "Dana Smith", start, 120000)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestConfirmPaymentsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	p, err := f.payments.RecordPlacement(ctx, intro.ID(), "hiring@acme.example", "Dana Smith", f.now, 100000)
	require.NoError(t, err)

	_, err = f.payments.ConfirmRemaining(ctx, p.ID())
	assert.ErrorIs(t, err, domain.ErrConflict)

	upfront, err := f.payments.ConfirmUpfront(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, placement.PaymentPartiallyPaid, upfront.PaymentStatus())

	_, err = f.payments.ConfirmUpfront(ctx, p.ID())
	assert.ErrorIs(t, err, domain.ErrConflict)

	settled, err := f.payments.ConfirmRemaining(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, placement.PaymentPaid, settled.PaymentStatus())

	_, err = f.payments.ConfirmRemaining(ctx, p.ID())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSendRemindersRespectsCooldown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	// Start date already passed, so the upfront part is overdue.
	start := f.now.AddDate(0, 0, -5)
	p, err := f.payments.RecordPlacement(ctx, intro.ID(), "hiring@acme.example", "Dana Smith", start, 100000)
	require.NoError(t, err)
	before := len(f.notifier.messages())

	sent, err := f.payments.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sent)

	msgs := f.notifier.messages()
	require.Len(t, msgs, before+1)
	reminder := msgs[len(msgs)-1]
	assert.Equal(t, "hiring@acme.example", reminder.To)
	assert.Contains(t, reminder.Subject, "Dana Smith")
	assert.Contains(t, reminder.HTML, "upfront")

	// Inside the cooldown the employer is left alone.
	f.advanceDays(3)
	sent, err = f.payments.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	f.advanceDays(5)
	sent, err = f.payments.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sent)

	// Settled placements get no further mail.
	_, err = f.payments.ConfirmUpfront(ctx, p.ID())
	require.NoError(t, err)
	_, err = f.payments.ConfirmRemaining(ctx, p.ID())
	require.NoError(t, err)
	f.advanceDays(60)
	sent, err = f.payments.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSendRemindersForRemainingPart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	p, err := f.payments.RecordPlacement(ctx, intro.ID(), "hiring@acme.example", "Dana Smith", f.now, 100000)
	require.NoError(t, err)
	_, err = f.payments.ConfirmUpfront(ctx, p.ID())
	require.NoError(t, err)

	// The balance falls due 30 days after the upfront payment.
	f.advance(29 * 24 * time.Hour)
	sent, err := f.payments.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	f.advance(2 * 24 * time.Hour)
	sent, err = f.payments.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sent)

	msgs := f.notifier.messages()
	assert.Contains(t, msgs[len(msgs)-1].HTML, "remaining")
}
