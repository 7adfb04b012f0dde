// Package circumvention provides the review queue for suspected fee
// circumvention and the fee-recovery bookkeeping attached to it.
package circumvention

import (
	"time"
)

// DetectionMethod records how a flag came to exist.
type DetectionMethod string

// DetectionMethod values.
const (
	DetectionCheckIn DetectionMethod = "checkin_classifier"
	DetectionManual  DetectionMethod = "manual"
)

// Status is the flag lifecycle state.
type Status string

// Status values.
const (
	StatusOpen     Status = "OPEN"
	StatusResolved Status = "RESOLVED"
)

// Resolution is the terminal outcome of a review.
type Resolution string

// Resolution values.
const (
	ResolutionFeeRecovered    Resolution = "confirmed_fee_recovered"
	ResolutionFeeWaived       Resolution = "confirmed_fee_waived"
	ResolutionNoCircumvention Resolution = "no_circumvention"
	ResolutionInconclusive    Resolution = "inconclusive"
)

// Valid reports whether r is a known resolution.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionFeeRecovered, ResolutionFeeWaived, ResolutionNoCircumvention, ResolutionInconclusive:
		return true
	}
	return false
}

// Confirmed reports whether the resolution confirms circumvention occurred,
// which is what makes the invoicing fields meaningful.
func (r Resolution) Confirmed() bool {
	return r == ResolutionFeeRecovered || r == ResolutionFeeWaived
}

// EstimateFee computes the fee owed for a circumvented placement.
func EstimateFee(estimatedSalary, feePercentage float64) float64 {
	return estimatedSalary * feePercentage / 100
}

// Flag is an open investigation into suspected circumvention.
type Flag struct {
	id               int64
	introductionID   int64
	checkInID        *int64
	detectionMethod  DetectionMethod
	evidence         string
	estimatedSalary  float64
	feePercentage    float64
	estimatedFeeOwed float64
	status           Status
	resolvedAt       time.Time
	resolution       Resolution
	resolutionNotes  string
	invoiceSentAt    time.Time
	invoiceAmount    float64
	invoicePaidAt    time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

// New creates an OPEN flag. The fee estimate is computed at creation time.
func New(introductionID int64, checkInID *int64, method DetectionMethod, evidence string, estimatedSalary, feePercentage float64, now time.Time) Flag {
	return Flag{
		introductionID:   introductionID,
		checkInID:        checkInID,
		detectionMethod:  method,
		evidence:         evidence,
		estimatedSalary:  estimatedSalary,
		feePercentage:    feePercentage,
		estimatedFeeOwed: EstimateFee(estimatedSalary, feePercentage),
		status:           StatusOpen,
		createdAt:        now,
		updatedAt:        now,
	}
}

// Record carries every persisted field for reconstruction from storage.
type Record struct {
	ID               int64
	IntroductionID   int64
	CheckInID        *int64
	DetectionMethod  DetectionMethod
	Evidence         string
	EstimatedSalary  float64
	FeePercentage    float64
	EstimatedFeeOwed float64
	Status           Status
	ResolvedAt       time.Time
	Resolution       Resolution
	ResolutionNotes  string
	InvoiceSentAt    time.Time
	InvoiceAmount    float64
	InvoicePaidAt    time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Reconstruct rebuilds a Flag from storage.
func Reconstruct(rec Record) Flag {
	return Flag{
		id:               rec.ID,
		introductionID:   rec.IntroductionID,
		checkInID:        rec.CheckInID,
		detectionMethod:  rec.DetectionMethod,
		evidence:         rec.Evidence,
		estimatedSalary:  rec.EstimatedSalary,
		feePercentage:    rec.FeePercentage,
		estimatedFeeOwed: rec.EstimatedFeeOwed,
		status:           rec.Status,
		resolvedAt:       rec.ResolvedAt,
		resolution:       rec.Resolution,
		resolutionNotes:  rec.ResolutionNotes,
		invoiceSentAt:    rec.InvoiceSentAt,
		invoiceAmount:    rec.InvoiceAmount,
		invoicePaidAt:    rec.InvoicePaidAt,
		createdAt:        rec.CreatedAt,
		updatedAt:        rec.UpdatedAt,
	}
}

// ID returns the persistence identifier.
func (f Flag) ID() int64 { return f.id }

// IntroductionID returns the flagged introduction.
func (f Flag) IntroductionID() int64 { return f.introductionID }

// CheckInID returns the triggering check-in, if any.
func (f Flag) CheckInID() *int64 { return f.checkInID }

// DetectionMethod returns how the flag was raised.
func (f Flag) DetectionMethod() DetectionMethod { return f.detectionMethod }

// Evidence returns the serialized supporting evidence.
func (f Flag) Evidence() string { return f.evidence }

// EstimatedSalary returns the salary estimate behind the fee calculation.
func (f Flag) EstimatedSalary() float64 { return f.estimatedSalary }

// FeePercentage returns the fee percentage applied.
func (f Flag) FeePercentage() float64 { return f.feePercentage }

// EstimatedFeeOwed returns salary × percentage / 100, fixed at creation.
func (f Flag) EstimatedFeeOwed() float64 { return f.estimatedFeeOwed }

// Status returns the flag lifecycle state.
func (f Flag) Status() Status { return f.status }

// Open reports whether the flag is still awaiting resolution.
func (f Flag) Open() bool { return f.status == StatusOpen }

// ResolvedAt returns the resolution time.
func (f Flag) ResolvedAt() time.Time { return f.resolvedAt }

// Resolution returns the terminal outcome.
func (f Flag) Resolution() Resolution { return f.resolution }

// ResolutionNotes returns the resolver's notes.
func (f Flag) ResolutionNotes() string { return f.resolutionNotes }

// InvoiceSentAt returns when the recovery invoice went out.
func (f Flag) InvoiceSentAt() time.Time { return f.invoiceSentAt }

// InvoiceAmount returns the invoiced amount.
func (f Flag) InvoiceAmount() float64 { return f.invoiceAmount }

// InvoicePaidAt returns when the invoice was paid.
func (f Flag) InvoicePaidAt() time.Time { return f.invoicePaidAt }

// CreatedAt returns the row creation time.
func (f Flag) CreatedAt() time.Time { return f.createdAt }

// UpdatedAt returns the last modification time.
func (f Flag) UpdatedAt() time.Time { return f.updatedAt }
