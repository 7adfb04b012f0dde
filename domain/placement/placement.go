// Package placement provides the confirmed-placement payment ledger.
package placement

import (
	"time"
)

// PaymentStatus is the aggregate state of the two-part invoice.
type PaymentStatus string

// PaymentStatus values.
const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaid          PaymentStatus = "PAID"
)

// Placement records a confirmed hire and its two-part fee invoice
// (upfront on start, remainder after a configurable offset).
type Placement struct {
	id              int64
	introductionID  int64
	employerEmail   string
	candidateName   string
	startDate       time.Time
	salary          float64
	upfrontAmount   float64
	upfrontPaidAt   time.Time
	remainingAmount float64
	remainingPaidAt time.Time
	paymentStatus   PaymentStatus
	lastReminderAt  time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// New creates a placement with both invoice parts outstanding.
func New(introductionID int64, employerEmail, candidateName string, startDate time.Time, salary, upfrontAmount, remainingAmount float64, now time.Time) Placement {
	return Placement{
		introductionID:  introductionID,
		employerEmail:   employerEmail,
		candidateName:   candidateName,
		startDate:       startDate,
		salary:          salary,
		upfrontAmount:   upfrontAmount,
		remainingAmount: remainingAmount,
		paymentStatus:   PaymentPending,
		createdAt:       now,
		updatedAt:       now,
	}
}

// Record carries every persisted field for reconstruction from storage.
type Record struct {
	ID              int64
	IntroductionID  int64
	EmployerEmail   string
	CandidateName   string
	StartDate       time.Time
	Salary          float64
	UpfrontAmount   float64
	UpfrontPaidAt   time.Time
	RemainingAmount float64
	RemainingPaidAt time.Time
	PaymentStatus   PaymentStatus
	LastReminderAt  time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reconstruct rebuilds a Placement from storage.
func Reconstruct(rec Record) Placement {
	return Placement{
		id:              rec.ID,
		introductionID:  rec.IntroductionID,
		employerEmail:   rec.EmployerEmail,
		candidateName:   rec.CandidateName,
		startDate:       rec.StartDate,
		salary:          rec.Salary,
		upfrontAmount:   rec.UpfrontAmount,
		upfrontPaidAt:   rec.UpfrontPaidAt,
		remainingAmount: rec.RemainingAmount,
		remainingPaidAt: rec.RemainingPaidAt,
		paymentStatus:   rec.PaymentStatus,
		lastReminderAt:  rec.LastReminderAt,
		createdAt:       rec.CreatedAt,
		updatedAt:       rec.UpdatedAt,
	}
}

// ID returns the persistence identifier.
func (p Placement) ID() int64 { return p.id }

// IntroductionID returns the introduction this placement came from.
func (p Placement) IntroductionID() int64 { return p.introductionID }

// EmployerEmail returns the billing contact.
func (p Placement) EmployerEmail() string { return p.employerEmail }

// CandidateName returns the placed candidate's name.
func (p Placement) CandidateName() string { return p.candidateName }

// StartDate returns the candidate's start date.
func (p Placement) StartDate() time.Time { return p.startDate }

// Salary returns the agreed salary.
func (p Placement) Salary() float64 { return p.salary }

// UpfrontAmount returns the upfront invoice amount.
func (p Placement) UpfrontAmount() float64 { return p.upfrontAmount }

// UpfrontPaidAt returns when the upfront amount was paid (zero if unpaid).
func (p Placement) UpfrontPaidAt() time.Time { return p.upfrontPaidAt }

// UpfrontPaid reports whether the upfront amount has been paid.
func (p Placement) UpfrontPaid() bool { return !p.upfrontPaidAt.IsZero() }

// RemainingAmount returns the remaining invoice amount.
func (p Placement) RemainingAmount() float64 { return p.remainingAmount }

// RemainingPaidAt returns when the remainder was paid (zero if unpaid).
func (p Placement) RemainingPaidAt() time.Time { return p.remainingPaidAt }

// RemainingPaid reports whether the remainder has been paid.
func (p Placement) RemainingPaid() bool { return !p.remainingPaidAt.IsZero() }

// PaymentStatus returns the aggregate invoice state.
func (p Placement) PaymentStatus() PaymentStatus { return p.paymentStatus }

// LastReminderAt returns when the last payment reminder went out.
func (p Placement) LastReminderAt() time.Time { return p.lastReminderAt }

// CreatedAt returns the row creation time.
func (p Placement) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last modification time.
func (p Placement) UpdatedAt() time.Time { return p.updatedAt }

// UpfrontOverdue reports whether the upfront amount is overdue at now:
// nothing paid and the start date has passed.
func (p Placement) UpfrontOverdue(now time.Time) bool {
	return p.paymentStatus == PaymentPending && !p.UpfrontPaid() && now.After(p.startDate)
}

// RemainingOverdue reports whether the remaining amount is overdue at now,
// given the configured day offset from the upfront payment.
func (p Placement) RemainingOverdue(now time.Time, dueDays int) bool {
	if !p.UpfrontPaid() || p.RemainingPaid() {
		return false
	}
	return now.After(p.upfrontPaidAt.AddDate(0, 0, dueDays))
}

// ReminderDue reports whether a reminder may be sent at now, respecting the
// cooldown window since the last one.
func (p Placement) ReminderDue(now time.Time, cooldownDays int) bool {
	if p.lastReminderAt.IsZero() {
		return true
	}
	return now.After(p.lastReminderAt.AddDate(0, 0, cooldownDays))
}
