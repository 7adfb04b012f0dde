package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/scoutline/domain/circumvention"
	"github.com/scoutline/scoutline/internal/domain"
)

func TestManualFlag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, err := f.flags.ManualFlag(ctx, intro.ID(), "", 0, "ops@scoutline.example")
	assert.ErrorIs(t, err, domain.ErrValidation)

	flag, err := f.flags.ManualFlag(ctx, intro.ID(), "employer announced the hire on LinkedIn", 120000, "ops@scoutline.example")
	require.NoError(t, err)
	assert.Equal(t, circumvention.DetectionManual, flag.DetectionMethod())
	assert.Nil(t, flag.CheckInID())
	assert.InDelta(t, 24000, flag.EstimatedFeeOwed(), 0.001)

	notes, err := f.flags.Notes(ctx, flag.ID())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "flag opened manually", notes[0].Text())
}

func TestResolveExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	flag, err := f.flags.ManualFlag(ctx, intro.ID(), "evidence", 100000, "ops@scoutline.example")
	require.NoError(t, err)

	_, err = f.flags.Resolve(ctx, flag.ID(), circumvention.Resolution("dismissed"), "", "ops@scoutline.example")
	assert.ErrorIs(t, err, domain.ErrValidation)

	resolved, err := f.flags.Resolve(ctx, flag.ID(), circumvention.ResolutionFeeRecovered, "employer confirmed", "ops@scoutline.example")
	require.NoError(t, err)
	assert.Equal(t, circumvention.StatusResolved, resolved.Status())

	_, err = f.flags.Resolve(ctx, flag.ID(), circumvention.ResolutionInconclusive, "", "ops@scoutline.example")
	assert.ErrorIs(t, err, domain.ErrConflict)

	notes, err := f.flags.Notes(ctx, flag.ID())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "resolved as confirmed_fee_recovered", notes[1].Text())
}

func TestUpdateEstimate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	flag, err := f.flags.ManualFlag(ctx, intro.ID(), "evidence", 0, "")
	require.NoError(t, err)
	assert.Zero(t, flag.EstimatedFeeOwed())

	_, err = f.flags.UpdateEstimate(ctx, flag.ID(), -1, 20)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.flags.UpdateEstimate(ctx, flag.ID(), 100000, 120)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// A zero percentage falls back to the configured default of 20.
	updated, err := f.flags.UpdateEstimate(ctx, flag.ID(), 120000, 0)
	require.NoError(t, err)
	assert.InDelta(t, 24000, updated.EstimatedFeeOwed(), 0.001)

	_, err = f.flags.Resolve(ctx, flag.ID(), circumvention.ResolutionFeeWaived, "", "")
	require.NoError(t, err)

	_, err = f.flags.UpdateEstimate(ctx, flag.ID(), 150000, 20)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoiceFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	flag, err := f.flags.ManualFlag(ctx, intro.ID(), "evidence", 120000, "")
	require.NoError(t, err)

	// No invoice while the investigation is open.
	_, err = f.flags.SendInvoice(ctx, flag.ID(), 0)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.flags.Resolve(ctx, flag.ID(), circumvention.ResolutionNoCircumvention, "", "")
	require.NoError(t, err)

	// And none when the resolution cleared the employer.
	_, err = f.flags.SendInvoice(ctx, flag.ID(), 0)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoiceDefaultsToEstimate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	flag, err := f.flags.ManualFlag(ctx, intro.ID(), "evidence", 120000, "")
	require.NoError(t, err)
	_, err = f.flags.Resolve(ctx, flag.ID(), circumvention.ResolutionFeeRecovered, "", "")
	require.NoError(t, err)

	_, err = f.flags.ConfirmInvoicePaid(ctx, flag.ID())
	assert.ErrorIs(t, err, domain.ErrConflict, "payment cannot precede the invoice")

	invoiced, err := f.flags.SendInvoice(ctx, flag.ID(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 24000, invoiced.InvoiceAmount(), 0.001)
	assert.False(t, invoiced.InvoiceSentAt().IsZero())

	paid, err := f.flags.ConfirmInvoicePaid(ctx, flag.ID())
	require.NoError(t, err)
	assert.False(t, paid.InvoicePaidAt().IsZero())
}

func TestAddNote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	intro := f.introduce(t, 1, 2)

	_, err := f.flags.AddNote(ctx, 999, "ops@scoutline.example", "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	flag, err := f.flags.ManualFlag(ctx, intro.ID(), "evidence", 0, "")
	require.NoError(t, err)

	_, err = f.flags.AddNote(ctx, flag.ID(), "ops@scoutline.example", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	note, err := f.flags.AddNote(ctx, flag.ID(), "ops@scoutline.example", "called the employer, awaiting reply")
	require.NoError(t, err)
	assert.Equal(t, flag.ID(), note.FlagID())
}
