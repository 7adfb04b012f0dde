// Package checkin provides scheduled candidate status check-ins and the
// classified verdicts they produce.
package checkin

import (
	"time"
)

// Milestone is one entry in the check-in schedule.
type Milestone struct {
	Number     int
	OffsetDays int
}

// Schedule is the ordered check-in schedule relative to the introduction
// date. It is a data value so the schedule can change without touching the
// scheduler's control flow.
var Schedule = []Milestone{
	{Number: 1, OffsetDays: 30},
	{Number: 2, OffsetDays: 60},
	{Number: 3, OffsetDays: 90},
	{Number: 4, OffsetDays: 180},
	{Number: 5, OffsetDays: 365},
}

// FinalNumber is the reserved check-in number for the manually triggered
// end-of-protection question, outside the scheduled 1–5 range.
const FinalNumber = 99

// CheckIn is one row per (introduction, milestone number).
type CheckIn struct {
	id                  int64
	introductionID      int64
	number              int
	scheduledFor        time.Time
	sentAt              time.Time
	respondedAt         time.Time
	responseRaw         string
	verdict             *Verdict
	riskLevel           RiskLevel
	riskReason          string
	flaggedForReview    bool
	reviewedAt          time.Time
	reviewedBy          string
	reviewNotes         string
	responseToken       string
	responseTokenExpiry time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

// New creates an unsent check-in for a milestone.
func New(introductionID int64, number int, scheduledFor, now time.Time) CheckIn {
	return CheckIn{
		introductionID: introductionID,
		number:         number,
		scheduledFor:   scheduledFor,
		createdAt:      now,
		updatedAt:      now,
	}
}

// Record carries every persisted field for reconstruction from storage.
type Record struct {
	ID                  int64
	IntroductionID      int64
	Number              int
	ScheduledFor        time.Time
	SentAt              time.Time
	RespondedAt         time.Time
	ResponseRaw         string
	Verdict             *Verdict
	RiskLevel           RiskLevel
	RiskReason          string
	FlaggedForReview    bool
	ReviewedAt          time.Time
	ReviewedBy          string
	ReviewNotes         string
	ResponseToken       string
	ResponseTokenExpiry time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Reconstruct rebuilds a CheckIn from storage.
func Reconstruct(rec Record) CheckIn {
	return CheckIn{
		id:                  rec.ID,
		introductionID:      rec.IntroductionID,
		number:              rec.Number,
		scheduledFor:        rec.ScheduledFor,
		sentAt:              rec.SentAt,
		respondedAt:         rec.RespondedAt,
		responseRaw:         rec.ResponseRaw,
		verdict:             rec.Verdict,
		riskLevel:           rec.RiskLevel,
		riskReason:          rec.RiskReason,
		flaggedForReview:    rec.FlaggedForReview,
		reviewedAt:          rec.ReviewedAt,
		reviewedBy:          rec.ReviewedBy,
		reviewNotes:         rec.ReviewNotes,
		responseToken:       rec.ResponseToken,
		responseTokenExpiry: rec.ResponseTokenExpiry,
		createdAt:           rec.CreatedAt,
		updatedAt:           rec.UpdatedAt,
	}
}

// ID returns the persistence identifier.
func (c CheckIn) ID() int64 { return c.id }

// IntroductionID returns the parent introduction.
func (c CheckIn) IntroductionID() int64 { return c.introductionID }

// Number returns the milestone number (1–5, or FinalNumber).
func (c CheckIn) Number() int { return c.number }

// Final reports whether this is the reserved final check-in.
func (c CheckIn) Final() bool { return c.number == FinalNumber }

// ScheduledFor returns the planned send date. Immutable once set.
func (c CheckIn) ScheduledFor() time.Time { return c.scheduledFor }

// SentAt returns the send time (zero if unsent).
func (c CheckIn) SentAt() time.Time { return c.sentAt }

// Sent reports whether the check-in email has gone out.
func (c CheckIn) Sent() bool { return !c.sentAt.IsZero() }

// RespondedAt returns when the candidate replied (zero if none).
func (c CheckIn) RespondedAt() time.Time { return c.respondedAt }

// Responded reports whether a reply has been recorded.
func (c CheckIn) Responded() bool { return !c.respondedAt.IsZero() }

// ResponseRaw returns the candidate's raw reply text.
func (c CheckIn) ResponseRaw() string { return c.responseRaw }

// Verdict returns the classifier's structured output (nil before a reply).
func (c CheckIn) Verdict() *Verdict { return c.verdict }

// RiskLevel returns the classified circumvention risk.
func (c CheckIn) RiskLevel() RiskLevel { return c.riskLevel }

// RiskReason returns the classifier's reasoning.
func (c CheckIn) RiskReason() string { return c.riskReason }

// FlaggedForReview reports whether this check-in opened a review flag.
func (c CheckIn) FlaggedForReview() bool { return c.flaggedForReview }

// ReviewedAt returns when a human reviewed the check-in.
func (c CheckIn) ReviewedAt() time.Time { return c.reviewedAt }

// ReviewedBy returns the reviewer identity.
func (c CheckIn) ReviewedBy() string { return c.reviewedBy }

// ReviewNotes returns the reviewer's notes.
func (c CheckIn) ReviewNotes() string { return c.reviewNotes }

// ResponseToken returns the check-in's own single-use token.
func (c CheckIn) ResponseToken() string { return c.responseToken }

// ResponseTokenExpiry returns the token expiry.
func (c CheckIn) ResponseTokenExpiry() time.Time { return c.responseTokenExpiry }

// TokenExpired reports whether the token has lapsed at now.
func (c CheckIn) TokenExpired(now time.Time) bool {
	return c.responseToken == "" || now.After(c.responseTokenExpiry)
}

// CreatedAt returns the row creation time.
func (c CheckIn) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last modification time.
func (c CheckIn) UpdatedAt() time.Time { return c.updatedAt }
