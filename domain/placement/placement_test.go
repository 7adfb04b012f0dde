package placement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPlacement(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	p := New(4, "hiring@acme.example", "Dana Smith", start, 120000, 12000, 12000, time.Now())

	assert.Equal(t, int64(4), p.IntroductionID())
	assert.Equal(t, PaymentPending, p.PaymentStatus())
	assert.False(t, p.UpfrontPaid())
	assert.False(t, p.RemainingPaid())
	assert.Equal(t, start, p.StartDate())
}

func TestUpfrontOverdue(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	p := New(1, "hiring@acme.example", "Dana Smith", start, 120000, 12000, 12000, time.Now())

	assert.False(t, p.UpfrontOverdue(start.AddDate(0, 0, -1)))
	assert.True(t, p.UpfrontOverdue(start.AddDate(0, 0, 1)))

	paid := Reconstruct(Record{
		StartDate:     start,
		UpfrontPaidAt: start,
		PaymentStatus: PaymentPartiallyPaid,
	})
	assert.False(t, paid.UpfrontOverdue(start.AddDate(0, 0, 10)))
}

func TestRemainingOverdue(t *testing.T) {
	upfrontPaid := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	p := Reconstruct(Record{
		UpfrontPaidAt: upfrontPaid,
		PaymentStatus: PaymentPartiallyPaid,
	})
	assert.False(t, p.RemainingOverdue(upfrontPaid.AddDate(0, 0, 29), 30))
	assert.True(t, p.RemainingOverdue(upfrontPaid.AddDate(0, 0, 31), 30))

	// Nothing is due on the remaining amount before the upfront is in.
	unpaid := Reconstruct(Record{PaymentStatus: PaymentPending})
	assert.False(t, unpaid.RemainingOverdue(upfrontPaid.AddDate(0, 1, 0), 30))

	settled := Reconstruct(Record{
		UpfrontPaidAt:   upfrontPaid,
		RemainingPaidAt: upfrontPaid.AddDate(0, 0, 20),
		PaymentStatus:   PaymentPaid,
	})
	assert.False(t, settled.RemainingOverdue(upfrontPaid.AddDate(0, 2, 0), 30))
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	fresh := Reconstruct(Record{PaymentStatus: PaymentPending})
	assert.True(t, fresh.ReminderDue(now, 7))

	recent := Reconstruct(Record{LastReminderAt: now.AddDate(0, 0, -3)})
	assert.False(t, recent.ReminderDue(now, 7))

	stale := Reconstruct(Record{LastReminderAt: now.AddDate(0, 0, -8)})
	assert.True(t, stale.ReminderDue(now, 7))
}
