package persistence

import (
	"encoding/json"
	"time"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/circumvention"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/domain/placement"
)

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntroductionMapper maps between domain Introduction and IntroductionModel.
type IntroductionMapper struct{}

// ToDomain converts an IntroductionModel to a domain Introduction.
func (IntroductionMapper) ToDomain(e IntroductionModel) introduction.Introduction {
	return introduction.Reconstruct(introduction.Record{
		ID:                   e.ID,
		EmployerID:           e.EmployerID,
		CandidateID:          e.CandidateID,
		JobID:                e.JobID,
		Status:               introduction.Status(e.Status),
		CandidateResponse:    introduction.Response(e.CandidateResponse),
		CandidateMessage:     e.CandidateMessage,
		ProfileViewedAt:      timeOrZero(e.ProfileViewedAt),
		IntroRequestedAt:     timeOrZero(e.IntroRequestedAt),
		CandidateRespondedAt: timeOrZero(e.CandidateRespondedAt),
		IntroducedAt:         timeOrZero(e.IntroducedAt),
		ProtectionStartsAt:   timeOrZero(e.ProtectionStartsAt),
		ProtectionEndsAt:     timeOrZero(e.ProtectionEndsAt),
		ResponseToken:        stringOrEmpty(e.ResponseToken),
		ResponseTokenExpiry:  timeOrZero(e.ResponseTokenExpiry),
		ProfileViews:         e.ProfileViews,
		ResumeDownloads:      e.ResumeDownloads,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	})
}

// ToModel converts a domain Introduction to an IntroductionModel.
func (IntroductionMapper) ToModel(i introduction.Introduction) IntroductionModel {
	return IntroductionModel{
		ID:                   i.ID(),
		EmployerID:           i.EmployerID(),
		CandidateID:          i.CandidateID(),
		JobID:                i.JobID(),
		Status:               string(i.Status()),
		CandidateResponse:    string(i.CandidateResponse()),
		CandidateMessage:     i.CandidateMessage(),
		ProfileViewedAt:      timeOrNil(i.ProfileViewedAt()),
		IntroRequestedAt:     timeOrNil(i.IntroRequestedAt()),
		CandidateRespondedAt: timeOrNil(i.CandidateRespondedAt()),
		IntroducedAt:         timeOrNil(i.IntroducedAt()),
		ProtectionStartsAt:   timeOrNil(i.ProtectionStartsAt()),
		ProtectionEndsAt:     timeOrNil(i.ProtectionEndsAt()),
		ResponseToken:        stringOrNil(i.ResponseToken()),
		ResponseTokenExpiry:  timeOrNil(i.ResponseTokenExpiry()),
		ProfileViews:         i.ProfileViews(),
		ResumeDownloads:      i.ResumeDownloads(),
		CreatedAt:            i.CreatedAt(),
		UpdatedAt:            i.UpdatedAt(),
	}
}

// CheckInMapper maps between domain CheckIn and CheckInModel.
type CheckInMapper struct{}

// ToDomain converts a CheckInModel to a domain CheckIn.
func (CheckInMapper) ToDomain(e CheckInModel) checkin.CheckIn {
	var verdict *checkin.Verdict
	if e.ResponseParsed != "" {
		var v checkin.Verdict
		if err := json.Unmarshal([]byte(e.ResponseParsed), &v); err == nil {
			verdict = &v
		}
	}

	return checkin.Reconstruct(checkin.Record{
		ID:                  e.ID,
		IntroductionID:      e.IntroductionID,
		Number:              e.CheckInNumber,
		ScheduledFor:        e.ScheduledFor,
		SentAt:              timeOrZero(e.SentAt),
		RespondedAt:         timeOrZero(e.RespondedAt),
		ResponseRaw:         e.ResponseRaw,
		Verdict:             verdict,
		RiskLevel:           checkin.RiskLevel(e.RiskLevel),
		RiskReason:          e.RiskReason,
		FlaggedForReview:    e.FlaggedForReview,
		ReviewedAt:          timeOrZero(e.ReviewedAt),
		ReviewedBy:          e.ReviewedBy,
		ReviewNotes:         e.ReviewNotes,
		ResponseToken:       stringOrEmpty(e.ResponseToken),
		ResponseTokenExpiry: timeOrZero(e.ResponseTokenExpiry),
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	})
}

// ToModel converts a domain CheckIn to a CheckInModel.
func (CheckInMapper) ToModel(c checkin.CheckIn) CheckInModel {
	var parsed string
	if c.Verdict() != nil {
		if b, err := json.Marshal(c.Verdict()); err == nil {
			parsed = string(b)
		}
	}

	return CheckInModel{
		ID:                  c.ID(),
		IntroductionID:      c.IntroductionID(),
		CheckInNumber:       c.Number(),
		ScheduledFor:        c.ScheduledFor(),
		SentAt:              timeOrNil(c.SentAt()),
		RespondedAt:         timeOrNil(c.RespondedAt()),
		ResponseRaw:         c.ResponseRaw(),
		ResponseParsed:      parsed,
		RiskLevel:           string(c.RiskLevel()),
		RiskReason:          c.RiskReason(),
		FlaggedForReview:    c.FlaggedForReview(),
		ReviewedAt:          timeOrNil(c.ReviewedAt()),
		ReviewedBy:          c.ReviewedBy(),
		ReviewNotes:         c.ReviewNotes(),
		ResponseToken:       stringOrNil(c.ResponseToken()),
		ResponseTokenExpiry: timeOrNil(c.ResponseTokenExpiry()),
		CreatedAt:           c.CreatedAt(),
		UpdatedAt:           c.UpdatedAt(),
	}
}

// FlagMapper maps between domain Flag and CircumventionFlagModel.
type FlagMapper struct{}

// ToDomain converts a CircumventionFlagModel to a domain Flag.
func (FlagMapper) ToDomain(e CircumventionFlagModel) circumvention.Flag {
	return circumvention.Reconstruct(circumvention.Record{
		ID:               e.ID,
		IntroductionID:   e.IntroductionID,
		CheckInID:        e.CheckInID,
		DetectionMethod:  circumvention.DetectionMethod(e.DetectionMethod),
		Evidence:         e.Evidence,
		EstimatedSalary:  e.EstimatedSalary,
		FeePercentage:    e.FeePercentage,
		EstimatedFeeOwed: e.EstimatedFeeOwed,
		Status:           circumvention.Status(e.Status),
		ResolvedAt:       timeOrZero(e.ResolvedAt),
		Resolution:       circumvention.Resolution(e.Resolution),
		ResolutionNotes:  e.ResolutionNotes,
		InvoiceSentAt:    timeOrZero(e.InvoiceSentAt),
		InvoiceAmount:    e.InvoiceAmount,
		InvoicePaidAt:    timeOrZero(e.InvoicePaidAt),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	})
}

// ToModel converts a domain Flag to a CircumventionFlagModel.
func (FlagMapper) ToModel(f circumvention.Flag) CircumventionFlagModel {
	return CircumventionFlagModel{
		ID:               f.ID(),
		IntroductionID:   f.IntroductionID(),
		CheckInID:        f.CheckInID(),
		DetectionMethod:  string(f.DetectionMethod()),
		Evidence:         f.Evidence(),
		EstimatedSalary:  f.EstimatedSalary(),
		FeePercentage:    f.FeePercentage(),
		EstimatedFeeOwed: f.EstimatedFeeOwed(),
		Status:           string(f.Status()),
		ResolvedAt:       timeOrNil(f.ResolvedAt()),
		Resolution:       string(f.Resolution()),
		ResolutionNotes:  f.ResolutionNotes(),
		InvoiceSentAt:    timeOrNil(f.InvoiceSentAt()),
		InvoiceAmount:    f.InvoiceAmount(),
		InvoicePaidAt:    timeOrNil(f.InvoicePaidAt()),
		CreatedAt:        f.CreatedAt(),
		UpdatedAt:        f.UpdatedAt(),
	}
}

// ReviewNoteMapper maps between domain ReviewNote and ReviewNoteModel.
type ReviewNoteMapper struct{}

// ToDomain converts a ReviewNoteModel to a domain ReviewNote.
func (ReviewNoteMapper) ToDomain(e ReviewNoteModel) circumvention.ReviewNote {
	return circumvention.ReconstructReviewNote(e.ID, e.FlagID, e.Actor, e.Text, e.CreatedAt)
}

// ToModel converts a domain ReviewNote to a ReviewNoteModel.
func (ReviewNoteMapper) ToModel(n circumvention.ReviewNote) ReviewNoteModel {
	return ReviewNoteModel{
		ID:        n.ID(),
		FlagID:    n.FlagID(),
		Actor:     n.Actor(),
		Text:      n.Text(),
		CreatedAt: n.CreatedAt(),
	}
}

// PlacementMapper maps between domain Placement and PlacementModel.
type PlacementMapper struct{}

// ToDomain converts a PlacementModel to a domain Placement.
func (PlacementMapper) ToDomain(e PlacementModel) placement.Placement {
	return placement.Reconstruct(placement.Record{
		ID:              e.ID,
		IntroductionID:  e.IntroductionID,
		EmployerEmail:   e.EmployerEmail,
		CandidateName:   e.CandidateName,
		StartDate:       e.StartDate,
		Salary:          e.Salary,
		UpfrontAmount:   e.UpfrontAmount,
		UpfrontPaidAt:   timeOrZero(e.UpfrontPaidAt),
		RemainingAmount: e.RemainingAmount,
		RemainingPaidAt: timeOrZero(e.RemainingPaidAt),
		PaymentStatus:   placement.PaymentStatus(e.PaymentStatus),
		LastReminderAt:  timeOrZero(e.LastReminderAt),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	})
}

// ToModel converts a domain Placement to a PlacementModel.
func (PlacementMapper) ToModel(p placement.Placement) PlacementModel {
	return PlacementModel{
		ID:              p.ID(),
		IntroductionID:  p.IntroductionID(),
		EmployerEmail:   p.EmployerEmail(),
		CandidateName:   p.CandidateName(),
		StartDate:       p.StartDate(),
		Salary:          p.Salary(),
		UpfrontAmount:   p.UpfrontAmount(),
		UpfrontPaidAt:   timeOrNil(p.UpfrontPaidAt()),
		RemainingAmount: p.RemainingAmount(),
		RemainingPaidAt: timeOrNil(p.RemainingPaidAt()),
		PaymentStatus:   string(p.PaymentStatus()),
		LastReminderAt:  timeOrNil(p.LastReminderAt()),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}
