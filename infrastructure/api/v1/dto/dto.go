// Package dto defines the wire types of the v1 API.
package dto

import (
	"time"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/circumvention"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/domain/placement"
)

// Meta carries pagination metadata on list responses.
type Meta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// Introduction is the wire form of an introduction. Response tokens never
// leave the engine.
type Introduction struct {
	ID                   int64      `json:"id"`
	EmployerID           int64      `json:"employer_id"`
	CandidateID          int64      `json:"candidate_id"`
	JobID                *int64     `json:"job_id,omitempty"`
	Status               string     `json:"status"`
	CandidateResponse    string     `json:"candidate_response"`
	CandidateMessage     string     `json:"candidate_message,omitempty"`
	ProfileViewedAt      *time.Time `json:"profile_viewed_at,omitempty"`
	IntroRequestedAt     *time.Time `json:"intro_requested_at,omitempty"`
	CandidateRespondedAt *time.Time `json:"candidate_responded_at,omitempty"`
	IntroducedAt         *time.Time `json:"introduced_at,omitempty"`
	ProtectionStartsAt   *time.Time `json:"protection_starts_at,omitempty"`
	ProtectionEndsAt     *time.Time `json:"protection_ends_at,omitempty"`
	ProfileViews         int        `json:"profile_views"`
	ResumeDownloads      int        `json:"resume_downloads"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// IntroductionResponse wraps a single introduction.
type IntroductionResponse struct {
	Data Introduction `json:"data"`
}

// IntroductionListResponse wraps a page of introductions.
type IntroductionListResponse struct {
	Data []Introduction `json:"data"`
	Meta Meta           `json:"meta"`
}

// CheckIn is the wire form of a check-in.
type CheckIn struct {
	ID               int64            `json:"id"`
	IntroductionID   int64            `json:"introduction_id"`
	Number           int              `json:"number"`
	Final            bool             `json:"final"`
	ScheduledFor     time.Time        `json:"scheduled_for"`
	SentAt           *time.Time       `json:"sent_at,omitempty"`
	RespondedAt      *time.Time       `json:"responded_at,omitempty"`
	ResponseRaw      string           `json:"response_raw,omitempty"`
	Verdict          *checkin.Verdict `json:"verdict,omitempty"`
	RiskLevel        string           `json:"risk_level,omitempty"`
	RiskReason       string           `json:"risk_reason,omitempty"`
	FlaggedForReview bool             `json:"flagged_for_review"`
	ReviewedAt       *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedBy       string           `json:"reviewed_by,omitempty"`
	ReviewNotes      string           `json:"review_notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// CheckInResponse wraps a single check-in.
type CheckInResponse struct {
	Data CheckIn `json:"data"`
}

// CheckInListResponse wraps a page of check-ins.
type CheckInListResponse struct {
	Data []CheckIn `json:"data"`
	Meta Meta      `json:"meta"`
}

// Flag is the wire form of a circumvention flag.
type Flag struct {
	ID               int64      `json:"id"`
	IntroductionID   int64      `json:"introduction_id"`
	CheckInID        *int64     `json:"check_in_id,omitempty"`
	DetectionMethod  string     `json:"detection_method"`
	Evidence         string     `json:"evidence,omitempty"`
	EstimatedSalary  float64    `json:"estimated_salary"`
	FeePercentage    float64    `json:"fee_percentage"`
	EstimatedFeeOwed float64    `json:"estimated_fee_owed"`
	Status           string     `json:"status"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	Resolution       string     `json:"resolution,omitempty"`
	ResolutionNotes  string     `json:"resolution_notes,omitempty"`
	InvoiceSentAt    *time.Time `json:"invoice_sent_at,omitempty"`
	InvoiceAmount    float64    `json:"invoice_amount,omitempty"`
	InvoicePaidAt    *time.Time `json:"invoice_paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FlagResponse wraps a single flag.
type FlagResponse struct {
	Data Flag `json:"data"`
}

// FlagListResponse wraps a page of flags.
type FlagListResponse struct {
	Data []Flag `json:"data"`
	Meta Meta   `json:"meta"`
}

// ReviewNote is the wire form of a flag review note.
type ReviewNote struct {
	ID        int64     `json:"id"`
	FlagID    int64     `json:"flag_id"`
	Actor     string    `json:"actor"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewNoteListResponse wraps a flag's review notes.
type ReviewNoteListResponse struct {
	Data []ReviewNote `json:"data"`
}

// Placement is the wire form of a placement ledger row.
type Placement struct {
	ID              int64      `json:"id"`
	IntroductionID  int64      `json:"introduction_id"`
	EmployerEmail   string     `json:"employer_email"`
	CandidateName   string     `json:"candidate_name"`
	StartDate       time.Time  `json:"start_date"`
	Salary          float64    `json:"salary"`
	UpfrontAmount   float64    `json:"upfront_amount"`
	UpfrontPaidAt   *time.Time `json:"upfront_paid_at,omitempty"`
	RemainingAmount float64    `json:"remaining_amount"`
	RemainingPaidAt *time.Time `json:"remaining_paid_at,omitempty"`
	PaymentStatus   string     `json:"payment_status"`
	LastReminderAt  *time.Time `json:"last_reminder_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PlacementResponse wraps a single placement.
type PlacementResponse struct {
	Data Placement `json:"data"`
}

// PlacementListResponse wraps a page of placements.
type PlacementListResponse struct {
	Data []Placement `json:"data"`
	Meta Meta        `json:"meta"`
}

// Request bodies.

// PairRequest identifies an employer-candidate pair.
type PairRequest struct {
	EmployerID  int64 `json:"employer_id"`
	CandidateID int64 `json:"candidate_id"`
}

// IntroRequestBody asks for an introduction to a candidate.
type IntroRequestBody struct {
	EmployerID  int64  `json:"employer_id"`
	CandidateID int64  `json:"candidate_id"`
	JobID       *int64 `json:"job_id,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
}

// IntroRespondBody carries a candidate's tokened introduction response.
type IntroRespondBody struct {
	Token    string `json:"token"`
	Response string `json:"response"`
	Message  string `json:"message,omitempty"`
}

// CheckInRespondBody carries a candidate's tokened check-in reply.
type CheckInRespondBody struct {
	Token string `json:"token"`
	Reply string `json:"reply"`
}

// ReviewBody records a reviewer's pass over a flagged check-in.
type ReviewBody struct {
	Reviewer string `json:"reviewer"`
	Notes    string `json:"notes,omitempty"`
}

// ManualFlagBody opens a flag by hand.
type ManualFlagBody struct {
	IntroductionID  int64   `json:"introduction_id"`
	Evidence        string  `json:"evidence"`
	EstimatedSalary float64 `json:"estimated_salary,omitempty"`
	Actor           string  `json:"actor,omitempty"`
}

// ResolveBody closes a flag.
type ResolveBody struct {
	Resolution string `json:"resolution"`
	Notes      string `json:"notes,omitempty"`
	Actor      string `json:"actor,omitempty"`
}

// EstimateBody updates a flag's fee estimate.
type EstimateBody struct {
	EstimatedSalary float64 `json:"estimated_salary"`
	FeePercentage   float64 `json:"fee_percentage,omitempty"`
}

// InvoiceBody marks a recovery invoice sent.
type InvoiceBody struct {
	Amount float64 `json:"amount,omitempty"`
}

// NoteBody appends a review note.
type NoteBody struct {
	Actor string `json:"actor"`
	Text  string `json:"text"`
}

// PlacementBody records a confirmed hire.
type PlacementBody struct {
	IntroductionID int64     `json:"introduction_id"`
	EmployerEmail  string    `json:"employer_email"`
	CandidateName  string    `json:"candidate_name"`
	StartDate      time.Time `json:"start_date"`
	Salary         float64   `json:"salary"`
}

// Converters.

func optTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// IntroductionFromDomain converts a domain introduction.
func IntroductionFromDomain(i introduction.Introduction) Introduction {
	return Introduction{
		ID:                   i.ID(),
		EmployerID:           i.EmployerID(),
		CandidateID:          i.CandidateID(),
		JobID:                i.JobID(),
		Status:               string(i.Status()),
		CandidateResponse:    string(i.CandidateResponse()),
		CandidateMessage:     i.CandidateMessage(),
		ProfileViewedAt:      optTime(i.ProfileViewedAt()),
		IntroRequestedAt:     optTime(i.IntroRequestedAt()),
		CandidateRespondedAt: optTime(i.CandidateRespondedAt()),
		IntroducedAt:         optTime(i.IntroducedAt()),
		ProtectionStartsAt:   optTime(i.ProtectionStartsAt()),
		ProtectionEndsAt:     optTime(i.ProtectionEndsAt()),
		ProfileViews:         i.ProfileViews(),
		ResumeDownloads:      i.ResumeDownloads(),
		CreatedAt:            i.CreatedAt(),
		UpdatedAt:            i.UpdatedAt(),
	}
}

// IntroductionsFromDomain converts a slice of domain introductions.
func IntroductionsFromDomain(in []introduction.Introduction) []Introduction {
	out := make([]Introduction, 0, len(in))
	for _, i := range in {
		out = append(out, IntroductionFromDomain(i))
	}
	return out
}

// CheckInFromDomain converts a domain check-in.
func CheckInFromDomain(c checkin.CheckIn) CheckIn {
	return CheckIn{
		ID:               c.ID(),
		IntroductionID:   c.IntroductionID(),
		Number:           c.Number(),
		Final:            c.Final(),
		ScheduledFor:     c.ScheduledFor(),
		SentAt:           optTime(c.SentAt()),
		RespondedAt:      optTime(c.RespondedAt()),
		ResponseRaw:      c.ResponseRaw(),
		Verdict:          c.Verdict(),
		RiskLevel:        string(c.RiskLevel()),
		RiskReason:       c.RiskReason(),
		FlaggedForReview: c.FlaggedForReview(),
		ReviewedAt:       optTime(c.ReviewedAt()),
		ReviewedBy:       c.ReviewedBy(),
		ReviewNotes:      c.ReviewNotes(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

// CheckInsFromDomain converts a slice of domain check-ins.
func CheckInsFromDomain(in []checkin.CheckIn) []CheckIn {
	out := make([]CheckIn, 0, len(in))
	for _, c := range in {
		out = append(out, CheckInFromDomain(c))
	}
	return out
}

// FlagFromDomain converts a domain flag.
func FlagFromDomain(f circumvention.Flag) Flag {
	return Flag{
		ID:               f.ID(),
		IntroductionID:   f.IntroductionID(),
		CheckInID:        f.CheckInID(),
		DetectionMethod:  string(f.DetectionMethod()),
		Evidence:         f.Evidence(),
		EstimatedSalary:  f.EstimatedSalary(),
		FeePercentage:    f.FeePercentage(),
		EstimatedFeeOwed: f.EstimatedFeeOwed(),
		Status:           string(f.Status()),
		ResolvedAt:       optTime(f.ResolvedAt()),
		Resolution:       string(f.Resolution()),
		ResolutionNotes:  f.ResolutionNotes(),
		InvoiceSentAt:    optTime(f.InvoiceSentAt()),
		InvoiceAmount:    f.InvoiceAmount(),
		InvoicePaidAt:    optTime(f.InvoicePaidAt()),
		CreatedAt:        f.CreatedAt(),
		UpdatedAt:        f.UpdatedAt(),
	}
}

// FlagsFromDomain converts a slice of domain flags.
func FlagsFromDomain(in []circumvention.Flag) []Flag {
	out := make([]Flag, 0, len(in))
	for _, f := range in {
		out = append(out, FlagFromDomain(f))
	}
	return out
}

// ReviewNoteFromDomain converts a domain review note.
func ReviewNoteFromDomain(n circumvention.ReviewNote) ReviewNote {
	return ReviewNote{
		ID:        n.ID(),
		FlagID:    n.FlagID(),
		Actor:     n.Actor(),
		Text:      n.Text(),
		CreatedAt: n.CreatedAt(),
	}
}

// ReviewNotesFromDomain converts a slice of domain review notes.
func ReviewNotesFromDomain(in []circumvention.ReviewNote) []ReviewNote {
	out := make([]ReviewNote, 0, len(in))
	for _, n := range in {
		out = append(out, ReviewNoteFromDomain(n))
	}
	return out
}

// PlacementFromDomain converts a domain placement.
func PlacementFromDomain(p placement.Placement) Placement {
	return Placement{
		ID:              p.ID(),
		IntroductionID:  p.IntroductionID(),
		EmployerEmail:   p.EmployerEmail(),
		CandidateName:   p.CandidateName(),
		StartDate:       p.StartDate(),
		Salary:          p.Salary(),
		UpfrontAmount:   p.UpfrontAmount(),
		UpfrontPaidAt:   optTime(p.UpfrontPaidAt()),
		RemainingAmount: p.RemainingAmount(),
		RemainingPaidAt: optTime(p.RemainingPaidAt()),
		PaymentStatus:   string(p.PaymentStatus()),
		LastReminderAt:  optTime(p.LastReminderAt()),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}

// PlacementsFromDomain converts a slice of domain placements.
func PlacementsFromDomain(in []placement.Placement) []Placement {
	out := make([]Placement, 0, len(in))
	for _, p := range in {
		out = append(out, PlacementFromDomain(p))
	}
	return out
}
